package ratings

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-events/backend/internal/models"
)

// Repository handles rating persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a ratings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert stores the user's rating for an event. The composite primary key
// plus ON CONFLICT gives last-write-wins under concurrent re-rating.
func (r *Repository) Upsert(ctx context.Context, rating *models.Rating) error {
	const q = `INSERT INTO ratings (user_id, event_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, event_id) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, q, rating.UserID, rating.EventID, rating.Value).
		Scan(&rating.CreatedAt, &rating.UpdatedAt)
}

// Summary returns the per-event average and count. Both are scoped to the
// event; an event with no ratings yields a zero average.
func (r *Repository) Summary(ctx context.Context, eventID uuid.UUID) (*models.RatingSummary, error) {
	const q = `SELECT COALESCE(AVG(value), 0), COUNT(*) FROM ratings WHERE event_id = $1`
	s := &models.RatingSummary{EventID: eventID}
	if err := r.pool.QueryRow(ctx, q, eventID).Scan(&s.Average, &s.Count); err != nil {
		return nil, err
	}
	return s, nil
}
