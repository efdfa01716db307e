package facility

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2025-07-14", false},
		{"2025-01-01", false},
		{"2025-7-14", true},   // not zero-padded
		{"2025-02-30", true},  // normalized by time.Parse, must be rejected
		{"2025/07/14", true},
		{"", true},
		{"today", true},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q) expected error, got %v", tt.in, got)
			} else if !errors.Is(err, ErrInvalidDate) {
				t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got.Location() != time.UTC || got.Hour() != 0 {
			t.Errorf("ParseDate(%q) = %v, want UTC midnight", tt.in, got)
		}
	}
}

func TestWeekdayOf(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2025-07-20", 0}, // Sunday
		{"2025-07-14", 1}, // Monday
		{"2025-07-15", 2}, // Tuesday
		{"2025-07-19", 6}, // Saturday
	}

	for _, tt := range tests {
		got, err := WeekdayOf(tt.date)
		if err != nil {
			t.Fatalf("WeekdayOf(%q) error: %v", tt.date, err)
		}
		if got != tt.want {
			t.Errorf("WeekdayOf(%q) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestLocalDateCrossesMidnight(t *testing.T) {
	// 16:00 UTC on the 14th is 01:00 JST on the 15th.
	ts := time.Date(2025, 7, 14, 16, 0, 0, 0, time.UTC)
	if got := LocalDate(ts); got != "2025-07-15" {
		t.Errorf("LocalDate = %q, want 2025-07-15", got)
	}

	// 14:59 UTC on the 14th is still the 14th in JST.
	ts = time.Date(2025, 7, 14, 14, 59, 0, 0, time.UTC)
	if got := LocalDate(ts); got != "2025-07-14" {
		t.Errorf("LocalDate = %q, want 2025-07-14", got)
	}
}

func TestLocalHHMM(t *testing.T) {
	ts := time.Date(2025, 7, 14, 1, 30, 0, 0, time.UTC) // 10:30 JST
	if got := LocalHHMM(ts); got != "10:30" {
		t.Errorf("LocalHHMM = %q, want 10:30", got)
	}

	ts = time.Date(2025, 7, 14, 23, 5, 0, 0, time.UTC) // 08:05 JST next day
	if got := LocalHHMM(ts); got != "08:05" {
		t.Errorf("LocalHHMM = %q, want 08:05", got)
	}
}
