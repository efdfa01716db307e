package service

import (
	"errors"
	"testing"
	"time"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
)

func validTables() map[string][][]string {
	return map[string][][]string{
		fileStudents: {
			{"user_id", "name", "email", "user_level", "default_pc_id", "default_slot_id"},
			{"S0001", "佐藤 蓮", "", "初級", "PC01", "1"},
			{"S0002", "鈴木 陽葵", "hinata@example.com", "", "", ""},
		},
		filePCs: {
			{"pc_id", "pc_name", "notes"},
			{"PC01", "ノートPC 01", ""},
		},
		fileClassSlots: {
			{"slot_id", "day_of_week", "period", "slot_name", "start_time", "end_time"},
			{"1", "1", "1", "月曜1限", "16:30", "17:50"},
		},
		fileSchedules: {
			{"user_id", "class_date", "slot_id", "status", "assigned_pc_id", "notes"},
			{"S0001", "2025-07-14", "1", "欠席", "", "体調不良"},
		},
		fileEntryLogs: {
			{"user_id", "log_type", "logged_at"},
			{"S0001", "entry", "2025-07-14T07:35:00Z"},
		},
	}
}

func TestBuildSnapshot(t *testing.T) {
	snap, err := buildSnapshot(validTables())
	if err != nil {
		t.Fatalf("buildSnapshot error: %v", err)
	}

	if len(snap.Students) != 2 {
		t.Fatalf("students = %d, want 2", len(snap.Students))
	}
	st := snap.Students[0]
	if st.Email != nil {
		t.Errorf("empty email should round-trip to nil, got %q", *st.Email)
	}
	if st.DefaultSlotID == nil || *st.DefaultSlotID != 1 {
		t.Errorf("default_slot_id = %v, want 1", st.DefaultSlotID)
	}
	if snap.Students[1].DefaultSlotID != nil {
		t.Errorf("empty default_slot_id should be nil")
	}

	if len(snap.ClassSlots) != 1 || snap.ClassSlots[0].SlotID != 1 {
		t.Fatalf("class slots = %+v", snap.ClassSlots)
	}

	sc := snap.Schedules[0]
	if sc.Status != model.StatusAbsent {
		t.Errorf("status = %q, want 欠席", sc.Status)
	}
	if sc.Notes == nil || *sc.Notes != "体調不良" {
		t.Errorf("notes = %v", sc.Notes)
	}

	want := time.Date(2025, 7, 14, 7, 35, 0, 0, time.UTC)
	if !snap.EntryLogs[0].LoggedAt.Equal(want) {
		t.Errorf("logged_at = %v, want %v", snap.EntryLogs[0].LoggedAt, want)
	}
}

func TestBuildSnapshotRejectsBadData(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string][][]string)
	}{
		{
			name: "missing header",
			mutate: func(m map[string][][]string) {
				m[filePCs] = nil
			},
		},
		{
			name: "wrong column count",
			mutate: func(m map[string][][]string) {
				m[fileStudents] = append(m[fileStudents], []string{"S0003", "高橋"})
			},
		},
		{
			name: "non-numeric slot id",
			mutate: func(m map[string][][]string) {
				m[fileClassSlots] = append(m[fileClassSlots],
					[]string{"x", "1", "1", "月曜1限", "16:30", "17:50"})
			},
		},
		{
			name: "bad timestamp",
			mutate: func(m map[string][][]string) {
				m[fileEntryLogs] = append(m[fileEntryLogs],
					[]string{"S0001", "entry", "yesterday"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := validTables()
			tt.mutate(tables)
			_, err := buildSnapshot(tables)
			if !errors.Is(err, ErrBadArchive) {
				t.Errorf("expected ErrBadArchive, got %v", err)
			}
		})
	}
}
