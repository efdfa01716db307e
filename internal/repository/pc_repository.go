package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
)

// PCRepository handles PC master data access.
type PCRepository struct {
	pool *pgxpool.Pool
}

// NewPCRepository creates a new PCRepository.
func NewPCRepository(pool *pgxpool.Pool) *PCRepository {
	return &PCRepository{pool: pool}
}

// GetByID retrieves a PC by its ID.
func (r *PCRepository) GetByID(ctx context.Context, pcID string) (*model.PC, error) {
	pc := &model.PC{}
	err := r.pool.QueryRow(ctx,
		`SELECT pc_id, pc_name, notes FROM pcs WHERE pc_id = $1`, pcID,
	).Scan(&pc.PCID, &pc.PCName, &pc.Notes)
	if err != nil {
		return nil, err
	}
	return pc, nil
}

// List retrieves all PCs ordered by ID.
func (r *PCRepository) List(ctx context.Context) ([]model.PC, error) {
	rows, err := r.pool.Query(ctx, `SELECT pc_id, pc_name, notes FROM pcs ORDER BY pc_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pcs []model.PC
	for rows.Next() {
		var pc model.PC
		if err := rows.Scan(&pc.PCID, &pc.PCName, &pc.Notes); err != nil {
			return nil, err
		}
		pcs = append(pcs, pc)
	}
	return pcs, rows.Err()
}

// Create inserts a new PC.
func (r *PCRepository) Create(ctx context.Context, pc *model.PC) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO pcs (pc_id, pc_name, notes) VALUES ($1, $2, $3)`,
		pc.PCID, pc.PCName, pc.Notes,
	)
	return err
}

// Update modifies an existing PC.
func (r *PCRepository) Update(ctx context.Context, pc *model.PC) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE pcs SET pc_name = $1, notes = $2 WHERE pc_id = $3`,
		pc.PCName, pc.Notes, pc.PCID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes a PC. Student and schedule references are nulled out,
// not cascaded.
func (r *PCRepository) Delete(ctx context.Context, pcID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pcs WHERE pc_id = $1`, pcID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
