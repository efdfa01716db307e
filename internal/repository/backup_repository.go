package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
)

// BackupRepository reads and restores full-table snapshots for the data
// export and import feature.
type BackupRepository struct {
	pool *pgxpool.Pool
}

// NewBackupRepository creates a new BackupRepository.
func NewBackupRepository(pool *pgxpool.Pool) *BackupRepository {
	return &BackupRepository{pool: pool}
}

// Export reads every operational table into a snapshot.
func (r *BackupRepository) Export(ctx context.Context) (*model.Snapshot, error) {
	snap := &model.Snapshot{}

	rows, err := r.pool.Query(ctx,
		`SELECT user_id, name, email, user_level, default_pc_id, default_slot_id, created_at, updated_at
		 FROM students ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var st model.Student
		if err := rows.Scan(&st.UserID, &st.Name, &st.Email, &st.UserLevel,
			&st.DefaultPCID, &st.DefaultSlotID, &st.CreatedAt, &st.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		snap.Students = append(snap.Students, st)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `SELECT pc_id, pc_name, notes FROM pcs ORDER BY pc_id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var pc model.PC
		if err := rows.Scan(&pc.PCID, &pc.PCName, &pc.Notes); err != nil {
			rows.Close()
			return nil, err
		}
		snap.PCs = append(snap.PCs, pc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT slot_id, day_of_week, period, slot_name, start_time, end_time
		 FROM class_slots ORDER BY slot_id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var s model.ClassSlot
		if err := rows.Scan(&s.SlotID, &s.DayOfWeek, &s.Period, &s.SlotName, &s.StartTime, &s.EndTime); err != nil {
			rows.Close()
			return nil, err
		}
		snap.ClassSlots = append(snap.ClassSlots, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT user_id, to_char(class_date, 'YYYY-MM-DD'), slot_id, status, assigned_pc_id, notes
		 FROM schedules ORDER BY class_date, schedule_id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var s model.Schedule
		if err := rows.Scan(&s.UserID, &s.ClassDate, &s.SlotID, &s.Status, &s.AssignedPCID, &s.Notes); err != nil {
			rows.Close()
			return nil, err
		}
		snap.Schedules = append(snap.Schedules, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT user_id, log_type, logged_at FROM entry_logs ORDER BY logged_at, log_id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var l model.EntryLog
		if err := rows.Scan(&l.UserID, &l.LogType, &l.LoggedAt); err != nil {
			rows.Close()
			return nil, err
		}
		snap.EntryLogs = append(snap.EntryLogs, l)
	}
	rows.Close()
	return snap, rows.Err()
}

// Restore replaces the operational tables with the snapshot in one
// transaction. Tables clear and refill in FK dependency order; any
// failure leaves the database untouched.
func (r *BackupRepository) Restore(ctx context.Context, snap *model.Snapshot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"entry_logs", "schedules", "students", "pcs", "class_slots"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"class_slots"},
		[]string{"slot_id", "day_of_week", "period", "slot_name", "start_time", "end_time"},
		pgx.CopyFromSlice(len(snap.ClassSlots), func(i int) ([]interface{}, error) {
			s := snap.ClassSlots[i]
			return []interface{}{s.SlotID, s.DayOfWeek, s.Period, s.SlotName, s.StartTime, s.EndTime}, nil
		}),
	); err != nil {
		return err
	}
	// Slot IDs are restored verbatim, so bump the sequence past them.
	// With no slots the sequence resets so the next insert gets ID 1
	// (is_called=false means "this value has not been handed out yet").
	if _, err := tx.Exec(ctx,
		`SELECT setval(pg_get_serial_sequence('class_slots', 'slot_id'),
		               COALESCE((SELECT MAX(slot_id) FROM class_slots), 1),
		               EXISTS (SELECT 1 FROM class_slots))`); err != nil {
		return err
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"pcs"},
		[]string{"pc_id", "pc_name", "notes"},
		pgx.CopyFromSlice(len(snap.PCs), func(i int) ([]interface{}, error) {
			pc := snap.PCs[i]
			return []interface{}{pc.PCID, pc.PCName, pc.Notes}, nil
		}),
	); err != nil {
		return err
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"students"},
		[]string{"user_id", "name", "email", "user_level", "default_pc_id", "default_slot_id"},
		pgx.CopyFromSlice(len(snap.Students), func(i int) ([]interface{}, error) {
			st := snap.Students[i]
			return []interface{}{st.UserID, st.Name, st.Email, st.UserLevel, st.DefaultPCID, st.DefaultSlotID}, nil
		}),
	); err != nil {
		return err
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"schedules"},
		[]string{"user_id", "class_date", "slot_id", "status", "assigned_pc_id", "notes"},
		pgx.CopyFromSlice(len(snap.Schedules), func(i int) ([]interface{}, error) {
			s := snap.Schedules[i]
			return []interface{}{s.UserID, s.ClassDate, s.SlotID, string(s.Status), s.AssignedPCID, s.Notes}, nil
		}),
	); err != nil {
		return err
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"entry_logs"},
		[]string{"user_id", "log_type", "logged_at"},
		pgx.CopyFromSlice(len(snap.EntryLogs), func(i int) ([]interface{}, error) {
			l := snap.EntryLogs[i]
			return []interface{}{l.UserID, l.LogType, l.LoggedAt.UTC()}, nil
		}),
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
