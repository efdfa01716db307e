package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
)

// AdminRepository handles staff account data access.
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// GetByUsername retrieves an admin (with role name) by username.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	a := &model.Admin{}
	err := r.pool.QueryRow(ctx,
		`SELECT a.id, a.username, a.password_hash, a.role_id, ro.name, a.created_at
		 FROM admins a
		 JOIN roles ro ON ro.id = a.role_id
		 WHERE a.username = $1`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.RoleID, &a.RoleName, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID retrieves an admin by ID.
func (r *AdminRepository) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	a := &model.Admin{}
	err := r.pool.QueryRow(ctx,
		`SELECT a.id, a.username, a.password_hash, a.role_id, ro.name, a.created_at
		 FROM admins a
		 JOIN roles ro ON ro.id = a.role_id
		 WHERE a.id = $1`, id,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.RoleID, &a.RoleName, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List retrieves all admins with their role names.
func (r *AdminRepository) List(ctx context.Context) ([]model.Admin, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.username, a.role_id, ro.name, a.created_at
		 FROM admins a
		 JOIN roles ro ON ro.id = a.role_id
		 ORDER BY a.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []model.Admin
	for rows.Next() {
		var a model.Admin
		if err := rows.Scan(&a.ID, &a.Username, &a.RoleID, &a.RoleName, &a.CreatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// Create inserts a new admin.
func (r *AdminRepository) Create(ctx context.Context, a *model.Admin) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO admins (username, password_hash, role_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		a.Username, a.PasswordHash, a.RoleID,
	).Scan(&a.ID, &a.CreatedAt)
}

// Update modifies an admin. An empty passwordHash leaves the stored hash
// unchanged.
func (r *AdminRepository) Update(ctx context.Context, a *model.Admin) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE admins
		 SET username = $1, role_id = $2,
		     password_hash = CASE WHEN $3 = '' THEN password_hash ELSE $3 END
		 WHERE id = $4`,
		a.Username, a.RoleID, a.PasswordHash, a.ID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes an admin.
func (r *AdminRepository) Delete(ctx context.Context, id int) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
