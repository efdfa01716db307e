package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
)

// fakeStore backs RosterService with in-memory data for all four
// reader interfaces.
type fakeStore struct {
	slots     map[int][]model.ClassSlot // weekday -> slots
	overrides map[string][]model.ScheduleDetail
	defaults  []model.StudentDefault
	present   map[string]bool
}

func (f *fakeStore) ListByWeekday(_ context.Context, weekday int) ([]model.ClassSlot, error) {
	return f.slots[weekday], nil
}

func (f *fakeStore) DetailsByDate(_ context.Context, date string) ([]model.ScheduleDetail, error) {
	return f.overrides[date], nil
}

func (f *fakeStore) ListWithDefaultSlot(_ context.Context) ([]model.StudentDefault, error) {
	return f.defaults, nil
}

func (f *fakeStore) PresentUserIDs(_ context.Context, _ string, userIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if f.present[id] {
			out[id] = true
		}
	}
	return out, nil
}

func newTestService(store *fakeStore) *RosterService {
	return NewRosterService(store, store, store, store, zerolog.Nop())
}

// monday is 2025-07-14, a Monday.
const monday = "2025-07-14"

func mondaySlots() map[int][]model.ClassSlot {
	return map[int][]model.ClassSlot{
		1: {
			{SlotID: 1, DayOfWeek: 1, Period: 1, SlotName: "月曜1限", StartTime: "16:30", EndTime: "17:50"},
			{SlotID: 2, DayOfWeek: 1, Period: 2, SlotName: "月曜2限", StartTime: "18:00", EndTime: "19:20"},
		},
	}
}

func intp(i int) *int { return &i }

func TestBuildRosterEmptyWeekday(t *testing.T) {
	svc := newTestService(&fakeStore{slots: map[int][]model.ClassSlot{}})

	// 2025-07-20 is a Sunday with no slots configured.
	roster, err := svc.BuildRoster(context.Background(), "2025-07-20")
	if err != nil {
		t.Fatalf("BuildRoster error: %v", err)
	}
	if roster == nil {
		t.Fatal("expected empty roster, got nil")
	}
	if len(roster) != 0 {
		t.Errorf("expected empty roster, got %d entries", len(roster))
	}
}

func TestBuildRosterRejectsBadDate(t *testing.T) {
	svc := newTestService(&fakeStore{})
	if _, err := svc.BuildRoster(context.Background(), "2025-7-14"); err == nil {
		t.Error("expected error for non-padded date")
	}
}

func TestBuildRosterDefaultsAndPlaceholders(t *testing.T) {
	store := &fakeStore{
		slots: mondaySlots(),
		defaults: []model.StudentDefault{
			{UserID: "S002", Name: "鈴木", SlotID: 1},
			{UserID: "S001", Name: "佐藤", SlotID: 1},
			{UserID: "S003", Name: "高橋", SlotID: 99}, // other weekday's slot
		},
	}
	svc := newTestService(store)

	roster, err := svc.BuildRoster(context.Background(), monday)
	if err != nil {
		t.Fatalf("BuildRoster error: %v", err)
	}

	// Two students in slot 1 (name order) plus the empty slot 2 row.
	if len(roster) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(roster), roster)
	}
	if *roster[0].UserName != "佐藤" || *roster[1].UserName != "鈴木" {
		t.Errorf("entries not ordered by name: %v, %v", *roster[0].UserName, *roster[1].UserName)
	}
	if roster[0].Status != model.StatusNormal {
		t.Errorf("default entry status = %q, want 通常", roster[0].Status)
	}
	if roster[2].UserID != nil {
		t.Errorf("expected slot-only placeholder for slot 2, got user %v", *roster[2].UserID)
	}
	if roster[2].SlotID != 2 {
		t.Errorf("placeholder slot = %d, want 2", roster[2].SlotID)
	}
}

func TestBuildRosterOverrideSuppressesDefault(t *testing.T) {
	store := &fakeStore{
		slots: mondaySlots(),
		defaults: []model.StudentDefault{
			{UserID: "S001", Name: "佐藤", SlotID: 1},
		},
		overrides: map[string][]model.ScheduleDetail{
			monday: {
				{ScheduleID: 10, UserID: "S001", UserName: "佐藤", SlotID: intp(2), Status: model.StatusMakeup},
			},
		},
	}
	svc := newTestService(store)

	roster, err := svc.BuildRoster(context.Background(), monday)
	if err != nil {
		t.Fatalf("BuildRoster error: %v", err)
	}

	var rows []model.RosterEntry
	for _, e := range roster {
		if e.UserID != nil && *e.UserID == "S001" {
			rows = append(rows, e)
		}
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one row for S001, got %d", len(rows))
	}
	if rows[0].SlotID != 2 || rows[0].Status != model.StatusMakeup {
		t.Errorf("override row = slot %d status %q, want slot 2 振替", rows[0].SlotID, rows[0].Status)
	}
}

func TestBuildRosterOverridePCFallback(t *testing.T) {
	defaultPC := "ノートPC 01"
	assignedPC := "ノートPC 07"
	store := &fakeStore{
		slots: mondaySlots(),
		overrides: map[string][]model.ScheduleDetail{
			monday: {
				// Moved with no explicit PC: keeps the default machine.
				{ScheduleID: 10, UserID: "S001", UserName: "佐藤", SlotID: intp(2),
					Status: model.StatusMakeup, DefaultPCName: &defaultPC},
				// Explicit assignment wins over the default.
				{ScheduleID: 11, UserID: "S002", UserName: "鈴木", SlotID: intp(2),
					Status: model.StatusMakeup, PCName: &assignedPC, DefaultPCName: &defaultPC},
				// Neither assigned nor default stays empty.
				{ScheduleID: 12, UserID: "S003", UserName: "高橋", SlotID: intp(2),
					Status: model.StatusNormal},
			},
		},
	}
	svc := newTestService(store)

	roster, err := svc.BuildRoster(context.Background(), monday)
	if err != nil {
		t.Fatalf("BuildRoster error: %v", err)
	}

	byUser := map[string]model.RosterEntry{}
	for _, e := range roster {
		if e.UserID != nil {
			byUser[*e.UserID] = e
		}
	}

	if e := byUser["S001"]; e.PCName == nil || *e.PCName != defaultPC {
		t.Errorf("S001 PCName = %v, want fallback to %q", e.PCName, defaultPC)
	}
	if e := byUser["S002"]; e.PCName == nil || *e.PCName != assignedPC {
		t.Errorf("S002 PCName = %v, want assigned %q", e.PCName, assignedPC)
	}
	if e := byUser["S003"]; e.PCName != nil {
		t.Errorf("S003 PCName = %q, want nil", *e.PCName)
	}
}

func TestBuildRosterAbsentOnlySuppresses(t *testing.T) {
	store := &fakeStore{
		slots: mondaySlots(),
		defaults: []model.StudentDefault{
			{UserID: "S001", Name: "佐藤", SlotID: 1},
		},
		overrides: map[string][]model.ScheduleDetail{
			monday: {
				{ScheduleID: 10, UserID: "S001", UserName: "佐藤", SlotID: intp(1), Status: model.StatusAbsent},
			},
		},
	}
	svc := newTestService(store)

	roster, err := svc.BuildRoster(context.Background(), monday)
	if err != nil {
		t.Fatalf("BuildRoster error: %v", err)
	}

	for _, e := range roster {
		if e.UserID != nil {
			t.Errorf("absent student leaked into roster: %+v", e)
		}
	}
	// Both slots still visible as placeholders.
	if len(roster) != 2 {
		t.Errorf("expected 2 placeholder rows, got %d", len(roster))
	}
}

func TestBuildRosterDuplicateOverridesPassThrough(t *testing.T) {
	store := &fakeStore{
		slots: mondaySlots(),
		overrides: map[string][]model.ScheduleDetail{
			monday: {
				{ScheduleID: 10, UserID: "S001", UserName: "佐藤", SlotID: intp(1), Status: model.StatusNormal},
				{ScheduleID: 11, UserID: "S001", UserName: "佐藤", SlotID: intp(2), Status: model.StatusMakeup},
			},
		},
	}
	svc := newTestService(store)

	roster, err := svc.BuildRoster(context.Background(), monday)
	if err != nil {
		t.Fatalf("BuildRoster error: %v", err)
	}

	count := 0
	for _, e := range roster {
		if e.UserID != nil && *e.UserID == "S001" {
			count++
		}
	}
	// The data-entry conflict stays visible rather than being merged.
	if count != 2 {
		t.Errorf("expected both duplicate overrides in roster, got %d rows", count)
	}
}

func TestBuildRosterSkipsDanglingSlotRefs(t *testing.T) {
	store := &fakeStore{
		slots: mondaySlots(),
		overrides: map[string][]model.ScheduleDetail{
			monday: {
				{ScheduleID: 10, UserID: "S001", UserName: "佐藤", SlotID: nil, Status: model.StatusNormal},
				{ScheduleID: 11, UserID: "S002", UserName: "鈴木", SlotID: intp(77), Status: model.StatusMakeup},
			},
		},
	}
	svc := newTestService(store)

	roster, err := svc.BuildRoster(context.Background(), monday)
	if err != nil {
		t.Fatalf("BuildRoster error: %v", err)
	}

	for _, e := range roster {
		if e.UserID != nil {
			t.Errorf("dangling override produced a row: %+v", e)
		}
	}
}

func TestBuildRosterOrdering(t *testing.T) {
	store := &fakeStore{
		slots: mondaySlots(),
		defaults: []model.StudentDefault{
			{UserID: "S003", Name: "高橋", SlotID: 2},
			{UserID: "S001", Name: "佐藤", SlotID: 1},
		},
		overrides: map[string][]model.ScheduleDetail{
			monday: {
				{ScheduleID: 10, UserID: "S002", UserName: "鈴木", SlotID: intp(2), Status: model.StatusMakeup},
			},
		},
	}
	svc := newTestService(store)

	roster, err := svc.BuildRoster(context.Background(), monday)
	if err != nil {
		t.Fatalf("BuildRoster error: %v", err)
	}

	if len(roster) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(roster))
	}
	// Period 1 first, then period 2 ordered by student name.
	if roster[0].Period != 1 || *roster[0].UserID != "S001" {
		t.Errorf("first entry = period %d user %v", roster[0].Period, roster[0].UserID)
	}
	if *roster[1].UserName != "鈴木" || *roster[2].UserName != "高橋" {
		t.Errorf("period 2 not ordered by name: %v, %v", *roster[1].UserName, *roster[2].UserName)
	}
}

func TestCurrentClassInWindow(t *testing.T) {
	store := &fakeStore{
		slots: mondaySlots(),
		defaults: []model.StudentDefault{
			{UserID: "S001", Name: "佐藤", SlotID: 1},
			{UserID: "S002", Name: "鈴木", SlotID: 2},
		},
		present: map[string]bool{"S001": true},
	}
	svc := newTestService(store)

	// 08:00 UTC on 2025-07-14 is 17:00 facility-local: inside slot 1.
	now := time.Date(2025, 7, 14, 8, 0, 0, 0, time.UTC)
	view, err := svc.CurrentClass(context.Background(), now)
	if err != nil {
		t.Fatalf("CurrentClass error: %v", err)
	}

	if view.CurrentClass == nil || view.CurrentClass.SlotID != 1 {
		t.Fatalf("expected slot 1 active, got %+v", view.CurrentClass)
	}
	if view.Message != "" {
		t.Errorf("unexpected message: %q", view.Message)
	}
	if len(view.Attendees) != 1 || *view.Attendees[0].UserID != "S001" {
		t.Fatalf("expected only S001 in attendees, got %+v", view.Attendees)
	}
	if !view.Attendees[0].IsPresent {
		t.Error("S001 should be marked present")
	}
}

func TestCurrentClassWindowBoundaries(t *testing.T) {
	store := &fakeStore{slots: mondaySlots()}
	svc := newTestService(store)

	tests := []struct {
		utcHour, utcMin int
		wantSlot        int // 0 = out of hours
	}{
		{7, 30, 1},  // 16:30 local, start inclusive
		{8, 49, 1},  // 17:49 local
		{8, 50, 0},  // 17:50 local, end exclusive
		{9, 0, 2},   // 18:00 local, next slot starts
		{10, 20, 0}, // 19:20 local, after last slot
	}

	for _, tt := range tests {
		now := time.Date(2025, 7, 14, tt.utcHour, tt.utcMin, 0, 0, time.UTC)
		view, err := svc.CurrentClass(context.Background(), now)
		if err != nil {
			t.Fatalf("CurrentClass(%02d:%02d) error: %v", tt.utcHour, tt.utcMin, err)
		}
		if tt.wantSlot == 0 {
			if view.Message != OutOfHoursMessage {
				t.Errorf("%02d:%02dZ: expected out-of-hours message, got %+v", tt.utcHour, tt.utcMin, view)
			}
			continue
		}
		if view.CurrentClass == nil || view.CurrentClass.SlotID != tt.wantSlot {
			t.Errorf("%02d:%02dZ: expected slot %d, got %+v", tt.utcHour, tt.utcMin, tt.wantSlot, view.CurrentClass)
		}
	}
}

func TestCurrentClassExcludesAbsentOverride(t *testing.T) {
	store := &fakeStore{
		slots: mondaySlots(),
		defaults: []model.StudentDefault{
			{UserID: "S001", Name: "佐藤", SlotID: 1},
		},
		overrides: map[string][]model.ScheduleDetail{
			monday: {
				{ScheduleID: 10, UserID: "S001", UserName: "佐藤", SlotID: intp(1), Status: model.StatusAbsent},
			},
		},
	}
	svc := newTestService(store)

	now := time.Date(2025, 7, 14, 8, 0, 0, 0, time.UTC)
	view, err := svc.CurrentClass(context.Background(), now)
	if err != nil {
		t.Fatalf("CurrentClass error: %v", err)
	}
	if len(view.Attendees) != 0 {
		t.Errorf("absent student in attendees: %+v", view.Attendees)
	}
}

func TestUnaccounted(t *testing.T) {
	store := &fakeStore{
		slots: mondaySlots(),
		defaults: []model.StudentDefault{
			{UserID: "S001", Name: "佐藤", SlotID: 1},
			{UserID: "S002", Name: "鈴木", SlotID: 1},
			{UserID: "S003", Name: "高橋", SlotID: 2},
		},
		overrides: map[string][]model.ScheduleDetail{
			monday: {
				{ScheduleID: 10, UserID: "S003", UserName: "高橋", SlotID: intp(2), Status: model.StatusAbsent},
			},
		},
		present: map[string]bool{"S001": true},
	}
	svc := newTestService(store)

	got, err := svc.Unaccounted(context.Background(), monday)
	if err != nil {
		t.Fatalf("Unaccounted error: %v", err)
	}

	// S001 logged in, S003 is marked absent: only S002 remains.
	if len(got) != 1 {
		t.Fatalf("expected 1 unaccounted entry, got %d: %+v", len(got), got)
	}
	if *got[0].UserID != "S002" {
		t.Errorf("unaccounted user = %s, want S002", *got[0].UserID)
	}
}
