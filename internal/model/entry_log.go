package model

import "time"

// LogTypeEntry is the only log type presence resolution consults.
const LogTypeEntry = "entry"

// EntryLog is an append-only check-in record. LoggedAt is stored UTC;
// presence is judged on its facility-local date.
type EntryLog struct {
	LogID    int64     `json:"log_id"`
	UserID   string    `json:"user_id"`
	LogType  string    `json:"log_type"`
	LoggedAt time.Time `json:"logged_at"`
}

// EntryLogDetail is an entry log joined with the student for list views.
type EntryLogDetail struct {
	LogID       int64     `json:"log_id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	DefaultSlot *string   `json:"default_slot"`
	LogType     string    `json:"log_type"`
	LoggedAt    time.Time `json:"logged_at"`
}

// CreateEntryLogRequest records a check-in. LoggedAt defaults to now
// when omitted (manual corrections may back-date it).
type CreateEntryLogRequest struct {
	UserID   string     `json:"user_id" binding:"required,min=1,max=32"`
	LogType  string     `json:"log_type" binding:"omitempty,oneof=entry exit"`
	LoggedAt *time.Time `json:"logged_at"`
}

// DeleteTodayLogsRequest removes today's entry logs for one student
// (attendance correction from the live dashboard).
type DeleteTodayLogsRequest struct {
	UserID string `json:"user_id" binding:"required,min=1,max=32"`
}

// EntryLogFilter narrows entry log list queries.
type EntryLogFilter struct {
	UserID string
	Name   string
	Date   string
}

// CheckinEvent is the queue payload produced by the QR kiosk endpoint
// and drained by the check-in worker.
type CheckinEvent struct {
	UserID   string    `json:"user_id"`
	LoggedAt time.Time `json:"logged_at"`
}
