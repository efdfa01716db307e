package service

import (
	"testing"
	"time"

	"github.com/IBA-HOK/user-attendance-record/internal/facility"
)

func day(date string) time.Time {
	t, err := facility.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOccurrencesBetween(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		weekday    int
		want       []string
	}{
		{
			name:  "mondays across three weeks",
			start: "2025-07-14", end: "2025-07-31", weekday: 1,
			want: []string{"2025-07-14", "2025-07-21", "2025-07-28"},
		},
		{
			name:  "start date itself counts",
			start: "2025-07-14", end: "2025-07-14", weekday: 1,
			want: []string{"2025-07-14"},
		},
		{
			name:  "weekday absent from range",
			start: "2025-07-14", end: "2025-07-18", weekday: 0,
			want: nil,
		},
		{
			name:  "end date inclusive",
			start: "2025-07-14", end: "2025-07-20", weekday: 0,
			want: []string{"2025-07-20"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := occurrencesBetween(day(tt.start), day(tt.end), tt.weekday)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}
