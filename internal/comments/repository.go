package comments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/apperr"
)

// Repository handles comment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a comments repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new comment; the timestamp is set by the database.
func (r *Repository) Create(ctx context.Context, cm *models.Comment) error {
	const q = `INSERT INTO comments (event_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, cm.EventID, cm.UserID, cm.Content).
		Scan(&cm.ID, &cm.Timestamp, &cm.UpdatedAt)
}

// GetByID returns a comment by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	const q = `SELECT id, event_id, user_id, content, created_at, updated_at FROM comments WHERE id = $1`
	var cm models.Comment
	err := r.pool.QueryRow(ctx, q, id).Scan(&cm.ID, &cm.EventID, &cm.UserID, &cm.Content, &cm.Timestamp, &cm.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("comment")
	}
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

// ListByEvent returns comments for an event, newest first.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Comment, error) {
	const q = `SELECT id, event_id, user_id, content, created_at, updated_at
		FROM comments WHERE event_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Comment
	for rows.Next() {
		var cm models.Comment
		if err := rows.Scan(&cm.ID, &cm.EventID, &cm.UserID, &cm.Content, &cm.Timestamp, &cm.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, cm)
	}
	return list, rows.Err()
}

// CountByEvent returns the number of comments on an event.
func (r *Repository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE event_id = $1`, eventID).Scan(&n)
	return n, err
}

// Update replaces a comment's content.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, content string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE comments SET content = $1, updated_at = NOW() WHERE id = $2`, content, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("comment")
	}
	return nil
}

// Delete removes a comment.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("comment")
	}
	return nil
}
