package model

import "time"

// ScheduleStatus is the status of a date-specific schedule record. The
// Japanese labels are the wire values the original product uses and are
// carried through unchanged.
type ScheduleStatus string

const (
	StatusNormal ScheduleStatus = "通常"
	StatusMakeup ScheduleStatus = "振替"
	StatusAbsent ScheduleStatus = "欠席"
)

// Schedule is a date-specific override record. It supersedes the
// student's default slot assignment on its class_date. There is
// deliberately no uniqueness constraint on (user_id, class_date):
// duplicate overrides are passed through, not merged.
type Schedule struct {
	ScheduleID   int64          `json:"schedule_id"`
	UserID       string         `json:"user_id"`
	ClassDate    string         `json:"class_date"` // YYYY-MM-DD
	SlotID       *int           `json:"slot_id"`
	Status       ScheduleStatus `json:"status"`
	AssignedPCID *string        `json:"assigned_pc_id"`
	Notes        *string        `json:"notes"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ScheduleDetail is a schedule joined with the student, slot and PC
// reference data that the roster build and the admin list views need.
type ScheduleDetail struct {
	ScheduleID   int64          `json:"schedule_id"`
	UserID       string         `json:"user_id"`
	UserName     string         `json:"user_name"`
	UserLevel    *string        `json:"user_level"`
	ClassDate    string         `json:"class_date"`
	SlotID       *int           `json:"slot_id"`
	SlotName     *string        `json:"slot_name"`
	Status       ScheduleStatus `json:"status"`
	AssignedPCID *string        `json:"assigned_pc_id"`
	PCName       *string        `json:"pc_name"`
	// DefaultPCName is the student's default PC; the roster falls back
	// to it when the override carries no explicit assignment.
	DefaultPCName *string `json:"default_pc_name,omitempty"`
	Notes         *string `json:"notes"`
}

// CreateScheduleRequest is the payload for creating a schedule record.
type CreateScheduleRequest struct {
	UserID       string         `json:"user_id" binding:"required,min=1,max=32"`
	ClassDate    string         `json:"class_date" binding:"required,len=10"`
	SlotID       int            `json:"slot_id" binding:"required"`
	Status       ScheduleStatus `json:"status" binding:"required,oneof=通常 振替 欠席"`
	AssignedPCID *string        `json:"assigned_pc_id" binding:"omitempty,max=32"`
	Notes        *string        `json:"notes" binding:"omitempty,max=500"`
}

// UpdateScheduleRequest is the payload for replacing a schedule record.
type UpdateScheduleRequest struct {
	ClassDate    string         `json:"class_date" binding:"required,len=10"`
	SlotID       int            `json:"slot_id" binding:"required"`
	Status       ScheduleStatus `json:"status" binding:"required,oneof=通常 振替 欠席"`
	AssignedPCID *string        `json:"assigned_pc_id" binding:"omitempty,max=32"`
	Notes        *string        `json:"notes" binding:"omitempty,max=500"`
}

// UpdateScheduleStatusRequest changes only the status of a schedule.
type UpdateScheduleStatusRequest struct {
	Status ScheduleStatus `json:"status" binding:"required,oneof=通常 振替 欠席"`
}

// BulkScheduleRequest generates 通常 schedules for every occurrence of
// the slot's weekday from today (facility-local) through term_end_date.
type BulkScheduleRequest struct {
	UserID      string `json:"user_id" binding:"required,min=1,max=32"`
	SlotID      int    `json:"slot_id" binding:"required"`
	TermEndDate string `json:"term_end_date" binding:"required,len=10"`
}

// MakeupRequest atomically marks the original schedule 欠席 and creates
// the 振替 record on the destination date/slot.
type MakeupRequest struct {
	OriginalScheduleID int64   `json:"original_schedule_id" binding:"required"`
	ClassDate          string  `json:"class_date" binding:"required,len=10"`
	SlotID             int     `json:"slot_id" binding:"required"`
	AssignedPCID       *string `json:"assigned_pc_id" binding:"omitempty,max=32"`
	Notes              *string `json:"notes" binding:"omitempty,max=500"`
}

// BulkAbsentRequest marks a set of schedules 欠席 in one transaction.
type BulkAbsentRequest struct {
	ScheduleIDs []int64 `json:"schedule_ids" binding:"required,min=1"`
	Notes       *string `json:"notes" binding:"omitempty,max=500"`
}

// ScheduleFilter narrows admin schedule list queries.
type ScheduleFilter struct {
	UserID    string
	Date      string
	StartDate string
	EndDate   string
	Status    ScheduleStatus
}
