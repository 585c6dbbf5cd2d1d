package locations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/apperr"
)

// Repository handles location persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a locations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new location.
func (r *Repository) Create(ctx context.Context, loc *models.Location) error {
	const q = `INSERT INTO locations (name, address, latitude, longitude)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, loc.Name, loc.Address, loc.Latitude, loc.Longitude).
		Scan(&loc.ID, &loc.CreatedAt)
}

// GetByID returns a location by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	const q = `SELECT id, name, address, latitude, longitude, created_at FROM locations WHERE id = $1`
	var loc models.Location
	err := r.pool.QueryRow(ctx, q, id).Scan(&loc.ID, &loc.Name, &loc.Address, &loc.Latitude, &loc.Longitude, &loc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("location")
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// List returns all locations ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Location, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, address, latitude, longitude, created_at FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Location
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.Latitude, &loc.Longitude, &loc.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, loc)
	}
	return list, rows.Err()
}
