package colleges

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/apperr"
)

// Repository handles college persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a college repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const collegeColumns = `id, name, location, description, created_by, created_at, updated_at`

func scanCollege(row pgx.Row) (*models.College, error) {
	var col models.College
	err := row.Scan(&col.ID, &col.Name, &col.Location, &col.Description, &col.CreatedBy, &col.CreatedAt, &col.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("college")
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

// Create inserts a new college.
func (r *Repository) Create(ctx context.Context, col *models.College) error {
	const q = `INSERT INTO colleges (name, location, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, col.Name, col.Location, col.Description, col.CreatedBy).
		Scan(&col.ID, &col.CreatedAt, &col.UpdatedAt)
}

// GetByID returns a college by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.College, error) {
	return scanCollege(r.pool.QueryRow(ctx, `SELECT `+collegeColumns+` FROM colleges WHERE id = $1`, id))
}

// List returns all colleges ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.College, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+collegeColumns+` FROM colleges ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.College
	for rows.Next() {
		col, err := scanCollege(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *col)
	}
	return list, rows.Err()
}

// Update updates college fields.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, location, description string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE colleges SET name = $1, location = $2, description = $3, updated_at = NOW() WHERE id = $4`,
		name, location, description, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("college")
	}
	return nil
}
