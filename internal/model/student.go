package model

import "time"

// Student represents an enrolled student. The user_id is an external,
// stable identifier (printed on the student's QR card), not a surrogate key.
type Student struct {
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Email         *string   `json:"email"`
	UserLevel     *string   `json:"user_level"`
	DefaultPCID   *string   `json:"default_pc_id"`
	DefaultSlotID *int      `json:"default_slot_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateStudentRequest is the payload for registering a student.
type CreateStudentRequest struct {
	UserID        string  `json:"user_id" binding:"required,min=1,max=32"`
	Name          string  `json:"name" binding:"required,min=1,max=100"`
	Email         *string `json:"email" binding:"omitempty,email,max=255"`
	UserLevel     *string `json:"user_level" binding:"omitempty,max=32"`
	DefaultPCID   *string `json:"default_pc_id" binding:"omitempty,max=32"`
	DefaultSlotID *int    `json:"default_slot_id"`
}

// UpdateStudentRequest is the payload for editing a student. The user_id
// itself is immutable.
type UpdateStudentRequest struct {
	Name          string  `json:"name" binding:"required,min=1,max=100"`
	Email         *string `json:"email" binding:"omitempty,email,max=255"`
	UserLevel     *string `json:"user_level" binding:"omitempty,max=32"`
	DefaultPCID   *string `json:"default_pc_id" binding:"omitempty,max=32"`
	DefaultSlotID *int    `json:"default_slot_id"`
}

// StudentDefault is a student joined with the reference data the roster
// build needs: their recurring slot and default PC name.
type StudentDefault struct {
	UserID    string
	Name      string
	UserLevel *string
	SlotID    int
	PCName    *string
}
