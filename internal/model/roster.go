package model

// RosterEntry is one row of the merged per-date attendance view. A row
// with a nil UserID is a slot-only placeholder: callers that build
// per-class views depend on empty slots being visible.
type RosterEntry struct {
	SlotID    int    `json:"slot_id"`
	SlotName  string `json:"slot_name"`
	Period    int    `json:"period"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	ScheduleID *int64         `json:"schedule_id,omitempty"`
	UserID     *string        `json:"user_id,omitempty"`
	UserName   *string        `json:"user_name,omitempty"`
	UserLevel  *string        `json:"user_level,omitempty"`
	Status     ScheduleStatus `json:"status,omitempty"`
	Notes      *string        `json:"notes,omitempty"`
	PCName     *string        `json:"pc_name,omitempty"`
	IsPresent  bool           `json:"is_present"`
}

// CurrentClassView is the live "current class now" projection. Exactly
// one of CurrentClass or Message is set; Message is the out-of-hours
// sentinel, not an error.
type CurrentClassView struct {
	CurrentClass *ClassSlot    `json:"current_class,omitempty"`
	Attendees    []RosterEntry `json:"attendees,omitempty"`
	Message      string        `json:"message,omitempty"`
}
