package service

import (
	"context"
	"errors"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
	"github.com/IBA-HOK/user-attendance-record/internal/repository"
)

// ErrSlotTimeOrder is returned when a slot's end time is not after its
// start time.
var ErrSlotTimeOrder = errors.New("end_time must be after start_time")

// MasterService handles the PC and class slot master data.
type MasterService struct {
	pcRepo   *repository.PCRepository
	slotRepo *repository.ClassSlotRepository
}

// NewMasterService creates a new MasterService.
func NewMasterService(pcRepo *repository.PCRepository, slotRepo *repository.ClassSlotRepository) *MasterService {
	return &MasterService{pcRepo: pcRepo, slotRepo: slotRepo}
}

// GetPC retrieves a PC by its ID.
func (s *MasterService) GetPC(ctx context.Context, pcID string) (*model.PC, error) {
	return s.pcRepo.GetByID(ctx, pcID)
}

// ListPCs retrieves all PCs.
func (s *MasterService) ListPCs(ctx context.Context) ([]model.PC, error) {
	return s.pcRepo.List(ctx)
}

// CreatePC registers a new PC.
func (s *MasterService) CreatePC(ctx context.Context, req *model.CreatePCRequest) (*model.PC, error) {
	pc := &model.PC{PCID: req.PCID, PCName: req.PCName, Notes: req.Notes}
	if err := s.pcRepo.Create(ctx, pc); err != nil {
		return nil, err
	}
	return pc, nil
}

// UpdatePC modifies a PC.
func (s *MasterService) UpdatePC(ctx context.Context, pcID string, req *model.CreatePCRequest) (int64, error) {
	pc := &model.PC{PCID: pcID, PCName: req.PCName, Notes: req.Notes}
	return s.pcRepo.Update(ctx, pc)
}

// DeletePC removes a PC.
func (s *MasterService) DeletePC(ctx context.Context, pcID string) (int64, error) {
	return s.pcRepo.Delete(ctx, pcID)
}

// GetClassSlot retrieves a class slot by its ID.
func (s *MasterService) GetClassSlot(ctx context.Context, slotID int) (*model.ClassSlot, error) {
	return s.slotRepo.GetByID(ctx, slotID)
}

// ListClassSlots retrieves all class slots.
func (s *MasterService) ListClassSlots(ctx context.Context) ([]model.ClassSlot, error) {
	return s.slotRepo.List(ctx)
}

// ListClassSlotsByWeekday retrieves the class slots occurring on one
// weekday (0=Sunday..6=Saturday), ordered by period.
func (s *MasterService) ListClassSlotsByWeekday(ctx context.Context, weekday int) ([]model.ClassSlot, error) {
	return s.slotRepo.ListByWeekday(ctx, weekday)
}

// CreateClassSlot registers a new class slot. HH:MM strings order
// lexicographically, so the window check is a plain comparison.
func (s *MasterService) CreateClassSlot(ctx context.Context, req *model.CreateClassSlotRequest) (*model.ClassSlot, error) {
	if req.EndTime <= req.StartTime {
		return nil, ErrSlotTimeOrder
	}
	slot := &model.ClassSlot{
		DayOfWeek: *req.DayOfWeek,
		Period:    req.Period,
		SlotName:  req.SlotName,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.slotRepo.Create(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// UpdateClassSlot modifies a class slot.
func (s *MasterService) UpdateClassSlot(ctx context.Context, slotID int, req *model.CreateClassSlotRequest) (int64, error) {
	if req.EndTime <= req.StartTime {
		return 0, ErrSlotTimeOrder
	}
	slot := &model.ClassSlot{
		SlotID:    slotID,
		DayOfWeek: *req.DayOfWeek,
		Period:    req.Period,
		SlotName:  req.SlotName,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	return s.slotRepo.Update(ctx, slot)
}

// DeleteClassSlot removes a class slot.
func (s *MasterService) DeleteClassSlot(ctx context.Context, slotID int) (int64, error) {
	return s.slotRepo.Delete(ctx, slotID)
}
