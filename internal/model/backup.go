package model

// Snapshot is a full copy of the operational tables, used by data
// export and import. Surrogate schedule and entry log IDs are not part
// of a snapshot; slot IDs are, because students and schedules reference
// them.
type Snapshot struct {
	Students   []Student
	PCs        []PC
	ClassSlots []ClassSlot
	Schedules  []Schedule
	EntryLogs  []EntryLog
}
