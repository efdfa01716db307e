package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
)

// ClassSlotRepository handles class slot master data access.
type ClassSlotRepository struct {
	pool *pgxpool.Pool
}

// NewClassSlotRepository creates a new ClassSlotRepository.
func NewClassSlotRepository(pool *pgxpool.Pool) *ClassSlotRepository {
	return &ClassSlotRepository{pool: pool}
}

const classSlotColumns = `slot_id, day_of_week, period, slot_name, start_time, end_time`

// GetByID retrieves a class slot by its ID.
func (r *ClassSlotRepository) GetByID(ctx context.Context, slotID int) (*model.ClassSlot, error) {
	s := &model.ClassSlot{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+classSlotColumns+` FROM class_slots WHERE slot_id = $1`, slotID,
	).Scan(&s.SlotID, &s.DayOfWeek, &s.Period, &s.SlotName, &s.StartTime, &s.EndTime)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List retrieves all class slots ordered by weekday then period.
func (r *ClassSlotRepository) List(ctx context.Context) ([]model.ClassSlot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classSlotColumns+` FROM class_slots ORDER BY day_of_week, period`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClassSlots(rows)
}

// ListByWeekday retrieves the slots occurring on a weekday, ordered by
// period ascending. An empty result is a normal state, not an error.
func (r *ClassSlotRepository) ListByWeekday(ctx context.Context, weekday int) ([]model.ClassSlot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classSlotColumns+` FROM class_slots WHERE day_of_week = $1 ORDER BY period`, weekday)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClassSlots(rows)
}

// Create inserts a new class slot.
func (r *ClassSlotRepository) Create(ctx context.Context, s *model.ClassSlot) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO class_slots (day_of_week, period, slot_name, start_time, end_time)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING slot_id`,
		s.DayOfWeek, s.Period, s.SlotName, s.StartTime, s.EndTime,
	).Scan(&s.SlotID)
}

// Update modifies an existing class slot.
func (r *ClassSlotRepository) Update(ctx context.Context, s *model.ClassSlot) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE class_slots
		 SET day_of_week = $1, period = $2, slot_name = $3, start_time = $4, end_time = $5
		 WHERE slot_id = $6`,
		s.DayOfWeek, s.Period, s.SlotName, s.StartTime, s.EndTime, s.SlotID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes a class slot. Schedule references are nulled; student
// default assignments are nulled.
func (r *ClassSlotRepository) Delete(ctx context.Context, slotID int) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM class_slots WHERE slot_id = $1`, slotID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanClassSlots(rows pgx.Rows) ([]model.ClassSlot, error) {
	var slots []model.ClassSlot
	for rows.Next() {
		var s model.ClassSlot
		if err := rows.Scan(&s.SlotID, &s.DayOfWeek, &s.Period, &s.SlotName, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
