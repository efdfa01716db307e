package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
)

// EntryLogRepository handles entry log data access. Timestamps are
// stored UTC; the facility-local date arithmetic lives in SQL here so
// presence checks stay a single round trip.
type EntryLogRepository struct {
	pool *pgxpool.Pool
}

// NewEntryLogRepository creates a new EntryLogRepository.
func NewEntryLogRepository(pool *pgxpool.Pool) *EntryLogRepository {
	return &EntryLogRepository{pool: pool}
}

// localDateExpr converts a stored UTC timestamp to its facility-local
// (UTC+9) calendar date. Must stay in sync with facility.UTCOffset.
const localDateExpr = `((el.logged_at AT TIME ZONE 'UTC') + INTERVAL '9 hours')::date`

// List retrieves entry logs joined with student names, newest first.
func (r *EntryLogRepository) List(ctx context.Context, f model.EntryLogFilter) ([]model.EntryLogDetail, error) {
	query := `
		SELECT el.log_id, el.user_id, st.name, cs.slot_name, el.log_type, el.logged_at
		FROM entry_logs el
		JOIN students st ON st.user_id = el.user_id
		LEFT JOIN class_slots cs ON cs.slot_id = st.default_slot_id
		WHERE 1=1`
	args := []interface{}{}

	if f.UserID != "" {
		args = append(args, f.UserID)
		query += fmt.Sprintf(` AND el.user_id = $%d`, len(args))
	}
	if f.Name != "" {
		args = append(args, f.Name)
		query += fmt.Sprintf(` AND st.name ILIKE '%%' || $%d || '%%'`, len(args))
	}
	if f.Date != "" {
		args = append(args, f.Date)
		query += fmt.Sprintf(` AND `+localDateExpr+` = $%d::date`, len(args))
	}
	query += ` ORDER BY el.logged_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.EntryLogDetail
	for rows.Next() {
		var l model.EntryLogDetail
		if err := rows.Scan(&l.LogID, &l.UserID, &l.Name, &l.DefaultSlot, &l.LogType, &l.LoggedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Create inserts one entry log.
func (r *EntryLogRepository) Create(ctx context.Context, l *model.EntryLog) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO entry_logs (user_id, log_type, logged_at)
		 VALUES ($1, $2, $3)
		 RETURNING log_id`,
		l.UserID, l.LogType, l.LoggedAt.UTC(),
	).Scan(&l.LogID)
}

// BatchInsert inserts queued kiosk check-ins in one transaction. The
// whole batch rolls back on any row failure so the queue can be retried.
func (r *EntryLogRepository) BatchInsert(ctx context.Context, events []model.CheckinEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"entry_logs"},
		[]string{"user_id", "log_type", "logged_at"},
		pgx.CopyFromSlice(len(events), func(i int) ([]interface{}, error) {
			return []interface{}{events[i].UserID, model.LogTypeEntry, events[i].LoggedAt.UTC()}, nil
		}),
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeleteByUserAndLocalDate removes a student's entry logs on one
// facility-local date (the "cancel attendance" correction).
func (r *EntryLogRepository) DeleteByUserAndLocalDate(ctx context.Context, userID, date string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM entry_logs el WHERE el.user_id = $1 AND `+localDateExpr+` = $2::date`,
		userID, date)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// PresentUserIDs returns the subset of userIDs that have an "entry" log
// on the given facility-local date. One query regardless of roster size.
func (r *EntryLogRepository) PresentUserIDs(ctx context.Context, date string, userIDs []string) (map[string]bool, error) {
	present := make(map[string]bool)
	if len(userIDs) == 0 {
		return present, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT el.user_id
		 FROM entry_logs el
		 WHERE el.log_type = $1 AND el.user_id = ANY($2) AND `+localDateExpr+` = $3::date`,
		model.LogTypeEntry, userIDs, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		present[id] = true
	}
	return present, rows.Err()
}
