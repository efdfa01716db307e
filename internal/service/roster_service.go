package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/IBA-HOK/user-attendance-record/internal/facility"
	"github.com/IBA-HOK/user-attendance-record/internal/model"
)

// OutOfHoursMessage is the sentinel returned by CurrentClass when no
// slot window contains the current facility-local time.
const OutOfHoursMessage = "現在、授業時間外です。"

// SlotReader enumerates the class slots occurring on a weekday.
type SlotReader interface {
	ListByWeekday(ctx context.Context, weekday int) ([]model.ClassSlot, error)
}

// OverrideReader fetches the date-specific schedule records for a date.
type OverrideReader interface {
	DetailsByDate(ctx context.Context, date string) ([]model.ScheduleDetail, error)
}

// DefaultReader fetches every student carrying a recurring slot assignment.
type DefaultReader interface {
	ListWithDefaultSlot(ctx context.Context) ([]model.StudentDefault, error)
}

// PresenceReader batch-resolves which of the given students have an
// entry log on the given facility-local date.
type PresenceReader interface {
	PresentUserIDs(ctx context.Context, date string, userIDs []string) (map[string]bool, error)
}

// RosterService merges the three independent attendance sources — default
// weekly assignments, date-specific overrides, and entry logs — into the
// authoritative per-date roster. It is stateless: every call recomputes
// from current store state, so concurrent builds never interfere.
type RosterService struct {
	slots     SlotReader
	overrides OverrideReader
	defaults  DefaultReader
	presence  PresenceReader
	log       zerolog.Logger
}

// NewRosterService creates a new RosterService.
func NewRosterService(slots SlotReader, overrides OverrideReader, defaults DefaultReader, presence PresenceReader, log zerolog.Logger) *RosterService {
	return &RosterService{
		slots:     slots,
		overrides: overrides,
		defaults:  defaults,
		presence:  presence,
		log:       log.With().Str("component", "roster_service").Logger(),
	}
}

// BuildRoster computes the merged attendance roster for a calendar date.
//
// Merge rules:
//   - A weekday with no slots yields an empty roster (a normal state).
//   - An override on ANY slot that date suppresses the student's default
//     entry, so a moved or absent student is never double-counted.
//   - 欠席 overrides only suppress; they do not appear as attendance rows.
//   - Duplicate active overrides for one student are passed through, not
//     merged — surfacing the data-entry error is deliberate.
//   - Every slot appears in the result even with zero students, as a
//     slot-only row with no user.
//   - Overrides referencing a missing slot, or a slot not occurring on
//     that weekday, are skipped with a warning; they never fail the build.
//
// Entries are ordered by slot period ascending, then student name.
func (s *RosterService) BuildRoster(ctx context.Context, date string) ([]model.RosterEntry, error) {
	weekday, err := facility.WeekdayOf(date)
	if err != nil {
		return nil, err
	}

	slots, err := s.slots.ListByWeekday(ctx, weekday)
	if err != nil {
		return nil, fmt.Errorf("load class slots: %w", err)
	}
	if len(slots) == 0 {
		return []model.RosterEntry{}, nil
	}

	slotByID := make(map[int]model.ClassSlot, len(slots))
	for _, slot := range slots {
		slotByID[slot.SlotID] = slot
	}

	overrides, err := s.overrides.DetailsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load overrides: %w", err)
	}

	// Any override that date — 振替, 欠席, or an explicit 通常 — takes
	// precedence over the student's default entry.
	overridden := make(map[string]bool, len(overrides))
	for _, o := range overrides {
		overridden[o.UserID] = true
	}

	bySlot := make(map[int][]model.RosterEntry, len(slots))

	for _, o := range overrides {
		if o.Status == model.StatusAbsent {
			continue
		}
		if o.SlotID == nil {
			s.log.Warn().
				Int64("schedule_id", o.ScheduleID).
				Str("user_id", o.UserID).
				Str("date", date).
				Msg("override has no slot reference, skipped")
			continue
		}
		slot, ok := slotByID[*o.SlotID]
		if !ok {
			s.log.Warn().
				Int64("schedule_id", o.ScheduleID).
				Str("user_id", o.UserID).
				Int("slot_id", *o.SlotID).
				Str("date", date).
				Msg("override slot does not occur on this weekday, skipped")
			continue
		}

		// An override without an explicit PC keeps the student's
		// default machine.
		pcName := o.PCName
		if pcName == nil {
			pcName = o.DefaultPCName
		}

		bySlot[slot.SlotID] = append(bySlot[slot.SlotID], model.RosterEntry{
			SlotID:     slot.SlotID,
			SlotName:   slot.SlotName,
			Period:     slot.Period,
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
			ScheduleID: &o.ScheduleID,
			UserID:     &o.UserID,
			UserName:   &o.UserName,
			UserLevel:  o.UserLevel,
			Status:     o.Status,
			Notes:      o.Notes,
			PCName:     pcName,
		})
	}

	defaults, err := s.defaults.ListWithDefaultSlot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load default assignments: %w", err)
	}

	for _, d := range defaults {
		if overridden[d.UserID] {
			continue
		}
		slot, ok := slotByID[d.SlotID]
		if !ok {
			// Default slot falls on another weekday — not today's roster.
			continue
		}

		bySlot[slot.SlotID] = append(bySlot[slot.SlotID], model.RosterEntry{
			SlotID:    slot.SlotID,
			SlotName:  slot.SlotName,
			Period:    slot.Period,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			UserID:    &d.UserID,
			UserName:  &d.Name,
			UserLevel: d.UserLevel,
			Status:    model.StatusNormal,
			PCName:    d.PCName,
		})
	}

	roster := make([]model.RosterEntry, 0, len(overrides)+len(defaults)+len(slots))
	for _, slot := range slots {
		entries := bySlot[slot.SlotID]
		if len(entries) == 0 {
			// Slot-only placeholder: empty classes stay visible.
			roster = append(roster, model.RosterEntry{
				SlotID:    slot.SlotID,
				SlotName:  slot.SlotName,
				Period:    slot.Period,
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
			})
			continue
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return *entries[i].UserName < *entries[j].UserName
		})
		roster = append(roster, entries...)
	}

	return roster, nil
}

// CurrentClass resolves "now" to facility-local time, finds the slot
// whose [start, end) window contains it, and returns that slot's roster
// annotated with presence. Outside any window it returns the
// out-of-hours sentinel, not an error.
func (s *RosterService) CurrentClass(ctx context.Context, now time.Time) (*model.CurrentClassView, error) {
	date := facility.LocalDate(now)
	clock := facility.LocalHHMM(now)

	weekday, err := facility.WeekdayOf(date)
	if err != nil {
		return nil, err
	}

	slots, err := s.slots.ListByWeekday(ctx, weekday)
	if err != nil {
		return nil, fmt.Errorf("load class slots: %w", err)
	}

	var current *model.ClassSlot
	for i := range slots {
		if slots[i].StartTime <= clock && clock < slots[i].EndTime {
			current = &slots[i]
			break
		}
	}
	if current == nil {
		return &model.CurrentClassView{Message: OutOfHoursMessage}, nil
	}

	roster, err := s.BuildRoster(ctx, date)
	if err != nil {
		return nil, err
	}

	attendees := make([]model.RosterEntry, 0, len(roster))
	for _, e := range roster {
		if e.SlotID == current.SlotID && e.UserID != nil && e.Status != model.StatusAbsent {
			attendees = append(attendees, e)
		}
	}

	attendees, err = s.annotatePresence(ctx, date, attendees)
	if err != nil {
		return nil, err
	}

	return &model.CurrentClassView{CurrentClass: current, Attendees: attendees}, nil
}

// Unaccounted returns the roster entries for a date that still need
// action: scheduled, not marked 欠席, and without an entry log. An empty
// result is the success case.
func (s *RosterService) Unaccounted(ctx context.Context, date string) ([]model.RosterEntry, error) {
	roster, err := s.BuildRoster(ctx, date)
	if err != nil {
		return nil, err
	}

	expected := make([]model.RosterEntry, 0, len(roster))
	for _, e := range roster {
		if e.UserID != nil && e.Status != model.StatusAbsent {
			expected = append(expected, e)
		}
	}

	expected, err = s.annotatePresence(ctx, date, expected)
	if err != nil {
		return nil, err
	}

	unaccounted := make([]model.RosterEntry, 0, len(expected))
	for _, e := range expected {
		if !e.IsPresent {
			unaccounted = append(unaccounted, e)
		}
	}
	return unaccounted, nil
}

// annotatePresence sets IsPresent on each entry with one batched lookup.
func (s *RosterService) annotatePresence(ctx context.Context, date string, entries []model.RosterEntry) ([]model.RosterEntry, error) {
	if len(entries) == 0 {
		return entries, nil
	}

	ids := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !seen[*e.UserID] {
			seen[*e.UserID] = true
			ids = append(ids, *e.UserID)
		}
	}

	present, err := s.presence.PresentUserIDs(ctx, date, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve presence: %w", err)
	}

	for i := range entries {
		entries[i].IsPresent = present[*entries[i].UserID]
	}
	return entries, nil
}
