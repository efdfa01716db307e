package model

// PC represents a seat/workstation in the facility.
type PC struct {
	PCID   string  `json:"pc_id"`
	PCName string  `json:"pc_name"`
	Notes  *string `json:"notes"`
}

// CreatePCRequest is the payload for creating or updating a PC.
type CreatePCRequest struct {
	PCID   string  `json:"pc_id" binding:"required,min=1,max=32"`
	PCName string  `json:"pc_name" binding:"required,min=1,max=100"`
	Notes  *string `json:"notes" binding:"omitempty,max=500"`
}
