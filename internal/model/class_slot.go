package model

// ClassSlot is a recurring weekly class period. Times are zero-padded
// "HH:MM" facility-local strings compared lexicographically.
type ClassSlot struct {
	SlotID    int    `json:"slot_id"`
	DayOfWeek int    `json:"day_of_week"` // 0=Sunday .. 6=Saturday
	Period    int    `json:"period"`
	SlotName  string `json:"slot_name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CreateClassSlotRequest is the payload for creating or updating a class slot.
type CreateClassSlotRequest struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	Period    int    `json:"period" binding:"required,min=1"`
	SlotName  string `json:"slot_name" binding:"required,min=1,max=100"`
	StartTime string `json:"start_time" binding:"required,len=5,hhmm"`
	EndTime   string `json:"end_time" binding:"required,len=5,hhmm"`
}
