package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/IBA-HOK/user-attendance-record/internal/facility"
	"github.com/IBA-HOK/user-attendance-record/internal/model"
	"github.com/IBA-HOK/user-attendance-record/internal/repository"
)

// Domain errors.
var (
	ErrTermEndInPast = errors.New("term_end_date is before today")
)

// ScheduleService handles schedule override business logic: single
// records, term-long bulk generation, makeups, and bulk absences.
type ScheduleService struct {
	scheduleRepo *repository.ScheduleRepository
	slotRepo     *repository.ClassSlotRepository
	log          zerolog.Logger
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(scheduleRepo *repository.ScheduleRepository, slotRepo *repository.ClassSlotRepository, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		slotRepo:     slotRepo,
		log:          log.With().Str("component", "schedule_service").Logger(),
	}
}

// GetByID retrieves a schedule record.
func (s *ScheduleService) GetByID(ctx context.Context, scheduleID int64) (*model.Schedule, error) {
	return s.scheduleRepo.GetByID(ctx, scheduleID)
}

// List retrieves schedule records matching the filter.
func (s *ScheduleService) List(ctx context.Context, f model.ScheduleFilter) ([]model.ScheduleDetail, error) {
	if f.Date != "" {
		if _, err := facility.ParseDate(f.Date); err != nil {
			return nil, err
		}
	}
	return s.scheduleRepo.List(ctx, f)
}

// Create inserts a single schedule record.
func (s *ScheduleService) Create(ctx context.Context, req *model.CreateScheduleRequest) (*model.Schedule, error) {
	if _, err := facility.ParseDate(req.ClassDate); err != nil {
		return nil, err
	}
	sc := &model.Schedule{
		UserID:       req.UserID,
		ClassDate:    req.ClassDate,
		SlotID:       &req.SlotID,
		Status:       req.Status,
		AssignedPCID: req.AssignedPCID,
		Notes:        req.Notes,
	}
	if err := s.scheduleRepo.Create(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// Update replaces the mutable fields of a schedule record.
func (s *ScheduleService) Update(ctx context.Context, scheduleID int64, req *model.UpdateScheduleRequest) (int64, error) {
	if _, err := facility.ParseDate(req.ClassDate); err != nil {
		return 0, err
	}
	sc := &model.Schedule{
		ScheduleID:   scheduleID,
		ClassDate:    req.ClassDate,
		SlotID:       &req.SlotID,
		Status:       req.Status,
		AssignedPCID: req.AssignedPCID,
		Notes:        req.Notes,
	}
	return s.scheduleRepo.Update(ctx, sc)
}

// UpdateStatus changes only the status of a schedule record.
func (s *ScheduleService) UpdateStatus(ctx context.Context, scheduleID int64, status model.ScheduleStatus) (int64, error) {
	return s.scheduleRepo.UpdateStatus(ctx, scheduleID, status)
}

// Delete removes a schedule record.
func (s *ScheduleService) Delete(ctx context.Context, scheduleID int64) (int64, error) {
	return s.scheduleRepo.Delete(ctx, scheduleID)
}

// BulkGenerate creates a 通常 schedule for every occurrence of the
// slot's weekday from today (facility-local, inclusive) through
// term_end_date. All rows insert in one transaction; any failure rolls
// back the whole batch. Returns the number of records created.
func (s *ScheduleService) BulkGenerate(ctx context.Context, now time.Time, req *model.BulkScheduleRequest) (int64, error) {
	end, err := facility.ParseDate(req.TermEndDate)
	if err != nil {
		return 0, err
	}
	start, err := facility.ParseDate(facility.LocalDate(now))
	if err != nil {
		return 0, err
	}
	if end.Before(start) {
		return 0, ErrTermEndInPast
	}

	slot, err := s.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		return 0, err
	}

	dates := occurrencesBetween(start, end, slot.DayOfWeek)
	if len(dates) == 0 {
		return 0, nil
	}

	n, err := s.scheduleRepo.BulkInsertNormal(ctx, req.UserID, req.SlotID, dates)
	if err != nil {
		return 0, err
	}

	s.log.Info().
		Str("user_id", req.UserID).
		Int("slot_id", req.SlotID).
		Str("term_end", req.TermEndDate).
		Int64("created", n).
		Msg("bulk schedules generated")
	return n, nil
}

// occurrencesBetween lists every date in [start, end] falling on the
// given weekday (0=Sunday..6=Saturday), as wire-format date strings.
func occurrencesBetween(start, end time.Time, weekday int) []string {
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if int(d.Weekday()) == weekday {
			dates = append(dates, d.Format(facility.DateFormat))
		}
	}
	return dates
}

// CreateMakeup atomically marks the original schedule 欠席 and inserts a
// 振替 record on the destination date and slot. Either both rows change
// or neither does.
func (s *ScheduleService) CreateMakeup(ctx context.Context, req *model.MakeupRequest) (*model.Schedule, error) {
	if _, err := facility.ParseDate(req.ClassDate); err != nil {
		return nil, err
	}

	original, err := s.scheduleRepo.GetByID(ctx, req.OriginalScheduleID)
	if err != nil {
		return nil, err
	}

	makeup := &model.Schedule{
		UserID:       original.UserID,
		ClassDate:    req.ClassDate,
		SlotID:       &req.SlotID,
		Status:       model.StatusMakeup,
		AssignedPCID: req.AssignedPCID,
		Notes:        req.Notes,
	}
	if err := s.scheduleRepo.CreateMakeup(ctx, req.OriginalScheduleID, makeup); err != nil {
		return nil, err
	}
	return makeup, nil
}

// BulkAbsent marks the given schedules 欠席 in one transaction. A
// missing ID fails the whole batch.
func (s *ScheduleService) BulkAbsent(ctx context.Context, req *model.BulkAbsentRequest) error {
	return s.scheduleRepo.BulkUpdateAbsent(ctx, req.ScheduleIDs, req.Notes)
}
