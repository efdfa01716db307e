package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
)

// ScheduleRepository handles schedule override data access.
type ScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

const scheduleDetailSelect = `
	SELECT sc.schedule_id, sc.user_id, st.name, st.user_level,
	       to_char(sc.class_date, 'YYYY-MM-DD'),
	       sc.slot_id, cs.slot_name, sc.status, sc.assigned_pc_id, p.pc_name, dp.pc_name, sc.notes
	FROM schedules sc
	JOIN students st ON st.user_id = sc.user_id
	LEFT JOIN class_slots cs ON cs.slot_id = sc.slot_id
	LEFT JOIN pcs p ON p.pc_id = sc.assigned_pc_id
	LEFT JOIN pcs dp ON dp.pc_id = st.default_pc_id`

// GetByID retrieves a schedule record by its ID.
func (r *ScheduleRepository) GetByID(ctx context.Context, scheduleID int64) (*model.Schedule, error) {
	s := &model.Schedule{}
	err := r.pool.QueryRow(ctx,
		`SELECT schedule_id, user_id, to_char(class_date, 'YYYY-MM-DD'), slot_id, status, assigned_pc_id, notes, created_at
		 FROM schedules WHERE schedule_id = $1`, scheduleID,
	).Scan(&s.ScheduleID, &s.UserID, &s.ClassDate, &s.SlotID, &s.Status, &s.AssignedPCID, &s.Notes, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List retrieves schedule records matching the filter, joined with
// student, slot, and PC names, ordered by date then slot.
func (r *ScheduleRepository) List(ctx context.Context, f model.ScheduleFilter) ([]model.ScheduleDetail, error) {
	query := scheduleDetailSelect + ` WHERE 1=1`
	args := []interface{}{}

	add := func(clause string, val interface{}) {
		args = append(args, val)
		query += fmt.Sprintf(clause, len(args))
	}

	if f.UserID != "" {
		add(` AND sc.user_id = $%d`, f.UserID)
	}
	if f.Date != "" {
		add(` AND sc.class_date = $%d::date`, f.Date)
	}
	if f.StartDate != "" {
		add(` AND sc.class_date >= $%d::date`, f.StartDate)
	}
	if f.EndDate != "" {
		add(` AND sc.class_date <= $%d::date`, f.EndDate)
	}
	if f.Status != "" {
		add(` AND sc.status = $%d`, f.Status)
	}
	query += ` ORDER BY sc.class_date, sc.slot_id, st.name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScheduleDetails(rows)
}

// DetailsByDate retrieves every schedule record for one calendar date.
// This is the "diff layer" input of the roster merge.
func (r *ScheduleRepository) DetailsByDate(ctx context.Context, date string) ([]model.ScheduleDetail, error) {
	rows, err := r.pool.Query(ctx, scheduleDetailSelect+` WHERE sc.class_date = $1::date ORDER BY st.name`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScheduleDetails(rows)
}

// Create inserts a schedule record.
func (r *ScheduleRepository) Create(ctx context.Context, s *model.Schedule) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO schedules (user_id, class_date, slot_id, status, assigned_pc_id, notes)
		 VALUES ($1, $2::date, $3, $4, $5, $6)
		 RETURNING schedule_id, created_at`,
		s.UserID, s.ClassDate, s.SlotID, s.Status, s.AssignedPCID, s.Notes,
	).Scan(&s.ScheduleID, &s.CreatedAt)
}

// Update replaces the mutable fields of a schedule record.
func (r *ScheduleRepository) Update(ctx context.Context, s *model.Schedule) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE schedules
		 SET class_date = $1::date, slot_id = $2, status = $3, assigned_pc_id = $4, notes = $5
		 WHERE schedule_id = $6`,
		s.ClassDate, s.SlotID, s.Status, s.AssignedPCID, s.Notes, s.ScheduleID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpdateStatus changes only the status of a schedule record.
func (r *ScheduleRepository) UpdateStatus(ctx context.Context, scheduleID int64, status model.ScheduleStatus) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE schedules SET status = $1 WHERE schedule_id = $2`, status, scheduleID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes a schedule record.
func (r *ScheduleRepository) Delete(ctx context.Context, scheduleID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM schedules WHERE schedule_id = $1`, scheduleID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// BulkInsertNormal inserts a 通常 schedule row for each date in one
// transaction. Any failure rolls back the whole batch — partial bulk
// generation is disallowed.
func (r *ScheduleRepository) BulkInsertNormal(ctx context.Context, userID string, slotID int, dates []string) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"schedules"},
		[]string{"user_id", "class_date", "slot_id", "status"},
		pgx.CopyFromSlice(len(dates), func(i int) ([]interface{}, error) {
			return []interface{}{userID, dates[i], slotID, string(model.StatusNormal)}, nil
		}),
	)
	if err != nil {
		return 0, err
	}

	return n, tx.Commit(ctx)
}

// CreateMakeup atomically marks the original schedule 欠席 and inserts
// the 振替 record. Either both rows change or neither does.
func (r *ScheduleRepository) CreateMakeup(ctx context.Context, originalID int64, makeup *model.Schedule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE schedules SET status = $1 WHERE schedule_id = $2`,
		model.StatusAbsent, originalID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO schedules (user_id, class_date, slot_id, status, assigned_pc_id, notes)
		 VALUES ($1, $2::date, $3, $4, $5, $6)
		 RETURNING schedule_id, created_at`,
		makeup.UserID, makeup.ClassDate, makeup.SlotID, makeup.Status, makeup.AssignedPCID, makeup.Notes,
	).Scan(&makeup.ScheduleID, &makeup.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// BulkUpdateAbsent marks the given schedules 欠席 in one transaction.
// Fails the whole batch if any ID is missing.
func (r *ScheduleRepository) BulkUpdateAbsent(ctx context.Context, scheduleIDs []int64, notes *string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, id := range scheduleIDs {
		tag, err := tx.Exec(ctx,
			`UPDATE schedules SET status = $1, notes = COALESCE($2, notes) WHERE schedule_id = $3`,
			model.StatusAbsent, notes, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("schedule %d: %w", id, pgx.ErrNoRows)
		}
	}

	return tx.Commit(ctx)
}

func scanScheduleDetails(rows pgx.Rows) ([]model.ScheduleDetail, error) {
	var details []model.ScheduleDetail
	for rows.Next() {
		var d model.ScheduleDetail
		if err := rows.Scan(&d.ScheduleID, &d.UserID, &d.UserName, &d.UserLevel, &d.ClassDate,
			&d.SlotID, &d.SlotName, &d.Status, &d.AssignedPCID, &d.PCName, &d.DefaultPCName, &d.Notes); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
