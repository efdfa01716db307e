// Package facility centralizes the facility-local (JST, UTC+9) time
// arithmetic that presence and weekday logic depend on. The offset is a
// fixed design constant of the facility, not per-request configuration.
package facility

import (
	"errors"
	"fmt"
	"time"
)

// UTCOffset is the fixed offset between UTC and facility-local time.
const UTCOffset = 9 * time.Hour

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// ErrInvalidDate is returned when a date string is not a valid
// zero-padded "YYYY-MM-DD" calendar date.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// ParseDate validates a date string and returns it as UTC midnight.
// Interpreting the string at UTC midnight keeps weekday resolution
// independent of the server's timezone configuration.
func ParseDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	// time.Parse normalizes out-of-range components (e.g. 2025-02-30),
	// so round-trip to reject them.
	if t.Format(DateFormat) != date {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t, nil
}

// WeekdayOf returns the weekday (0=Sunday..6=Saturday) of a calendar date.
func WeekdayOf(date string) (int, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(t.UTC().Weekday()), nil
}

// LocalDate converts an absolute timestamp to the facility-local
// calendar date string.
func LocalDate(t time.Time) string {
	return t.UTC().Add(UTCOffset).Format(DateFormat)
}

// LocalHHMM converts an absolute timestamp to the facility-local
// zero-padded "HH:MM" clock string used by class slot windows.
func LocalHHMM(t time.Time) string {
	return t.UTC().Add(UTCOffset).Format("15:04")
}
