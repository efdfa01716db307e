package service

import (
	"context"
	"errors"
	"testing"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
)

func TestCreateClassSlotRejectsInvertedWindow(t *testing.T) {
	// Validation runs before any repository access.
	svc := NewMasterService(nil, nil)

	tests := []struct {
		start, end string
	}{
		{"18:00", "18:00"}, // zero-length window
		{"18:00", "17:00"}, // inverted
	}

	for _, tt := range tests {
		dow := 1
		_, err := svc.CreateClassSlot(context.Background(), &model.CreateClassSlotRequest{
			DayOfWeek: &dow,
			Period:    1,
			SlotName:  "テスト",
			StartTime: tt.start,
			EndTime:   tt.end,
		})
		if !errors.Is(err, ErrSlotTimeOrder) {
			t.Errorf("CreateClassSlot(%s-%s) err = %v, want ErrSlotTimeOrder", tt.start, tt.end, err)
		}
	}
}

func TestUpdateClassSlotRejectsInvertedWindow(t *testing.T) {
	svc := NewMasterService(nil, nil)

	dow := 3
	_, err := svc.UpdateClassSlot(context.Background(), 1, &model.CreateClassSlotRequest{
		DayOfWeek: &dow,
		Period:    2,
		SlotName:  "テスト",
		StartTime: "19:00",
		EndTime:   "18:00",
	})
	if !errors.Is(err, ErrSlotTimeOrder) {
		t.Errorf("UpdateClassSlot err = %v, want ErrSlotTimeOrder", err)
	}
}
