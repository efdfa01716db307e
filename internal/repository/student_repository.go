package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
)

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// GetByID retrieves a student by their external ID.
func (r *StudentRepository) GetByID(ctx context.Context, userID string) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, name, email, user_level, default_pc_id, default_slot_id, created_at, updated_at
		 FROM students WHERE user_id = $1`, userID,
	).Scan(&s.UserID, &s.Name, &s.Email, &s.UserLevel, &s.DefaultPCID, &s.DefaultSlotID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List retrieves students ordered by name. A non-empty nameQuery narrows
// the result to partial name matches (the admin UI's student search).
func (r *StudentRepository) List(ctx context.Context, nameQuery string) ([]model.Student, error) {
	query := `SELECT user_id, name, email, user_level, default_pc_id, default_slot_id, created_at, updated_at
	          FROM students`
	args := []interface{}{}
	if nameQuery != "" {
		query += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, nameQuery)
	}
	query += ` ORDER BY name, user_id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.UserID, &s.Name, &s.Email, &s.UserLevel, &s.DefaultPCID, &s.DefaultSlotID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// ListWithDefaultSlot retrieves every student with a recurring slot
// assignment, joined with their default PC name. This is the "base
// layer" input of the roster merge.
func (r *StudentRepository) ListWithDefaultSlot(ctx context.Context) ([]model.StudentDefault, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.user_id, s.name, s.user_level, s.default_slot_id, p.pc_name
		 FROM students s
		 LEFT JOIN pcs p ON p.pc_id = s.default_pc_id
		 WHERE s.default_slot_id IS NOT NULL
		 ORDER BY s.name, s.user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defaults []model.StudentDefault
	for rows.Next() {
		var d model.StudentDefault
		if err := rows.Scan(&d.UserID, &d.Name, &d.UserLevel, &d.SlotID, &d.PCName); err != nil {
			return nil, err
		}
		defaults = append(defaults, d)
	}
	return defaults, rows.Err()
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO students (user_id, name, email, user_level, default_pc_id, default_slot_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		s.UserID, s.Name, s.Email, s.UserLevel, s.DefaultPCID, s.DefaultSlotID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// Update modifies an existing student. Returns pgx.ErrNoRows semantics
// via the rows-affected count: callers treat 0 as not found.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students
		 SET name = $1, email = $2, user_level = $3, default_pc_id = $4, default_slot_id = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = $6`,
		s.Name, s.Email, s.UserLevel, s.DefaultPCID, s.DefaultSlotID, s.UserID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes a student. Schedules and entry logs cascade.
func (r *StudentRepository) Delete(ctx context.Context, userID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
