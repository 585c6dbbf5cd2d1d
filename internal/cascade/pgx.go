package cascade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-events/backend/internal/models"
)

// PgxRunner runs cascades inside a single pgx transaction.
type PgxRunner struct {
	pool *pgxpool.Pool
}

// NewPgxRunner creates a transaction runner over the pool.
func NewPgxRunner(pool *pgxpool.Pool) *PgxRunner {
	return &PgxRunner{pool: pool}
}

// InTx implements TxRunner.
func (r *PgxRunner) InTx(ctx context.Context, fn func(Store) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&pgxStore{tx: tx})
	})
}

type pgxStore struct {
	tx pgx.Tx
}

func (s *pgxStore) CollegeExists(ctx context.Context, collegeID uuid.UUID) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM colleges WHERE id = $1`, collegeID)
}

func (s *pgxStore) RsoExists(ctx context.Context, rsoID uuid.UUID) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM rsos WHERE id = $1`, rsoID)
}

func (s *pgxStore) exists(ctx context.Context, q string, id uuid.UUID) (bool, error) {
	var one int
	err := s.tx.QueryRow(ctx, q, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *pgxStore) RsoIDsByCollege(ctx context.Context, collegeID uuid.UUID) ([]uuid.UUID, error) {
	return s.idList(ctx, `SELECT id FROM rsos WHERE college_id = $1`, collegeID)
}

func (s *pgxStore) EventIDsByRso(ctx context.Context, rsoID uuid.UUID) ([]uuid.UUID, error) {
	return s.idList(ctx, `SELECT event_id FROM rso_events WHERE rso_id = $1`, rsoID)
}

func (s *pgxStore) idList(ctx context.Context, q string, id uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.tx.Query(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var v uuid.UUID
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		ids = append(ids, v)
	}
	return ids, rows.Err()
}

func (s *pgxStore) EventTypesByCollege(ctx context.Context, collegeID uuid.UUID) (map[uuid.UUID]models.EventType, error) {
	rows, err := s.tx.Query(ctx, `SELECT id, event_type FROM events WHERE college_id = $1`, collegeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	types := make(map[uuid.UUID]models.EventType)
	for rows.Next() {
		var id uuid.UUID
		var t string
		if err := rows.Scan(&id, &t); err != nil {
			return nil, err
		}
		types[id] = models.EventType(t)
	}
	return types, rows.Err()
}

func (s *pgxStore) EventTypeOf(ctx context.Context, eventID uuid.UUID) (models.EventType, bool, error) {
	var t string
	err := s.tx.QueryRow(ctx, `SELECT event_type FROM events WHERE id = $1`, eventID).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return models.EventType(t), true, nil
}

func (s *pgxStore) DeleteCommentsByEvent(ctx context.Context, eventID uuid.UUID) error {
	_, err := s.tx.Exec(ctx, `DELETE FROM comments WHERE event_id = $1`, eventID)
	return err
}

func (s *pgxStore) DeleteRatingsByEvent(ctx context.Context, eventID uuid.UUID) error {
	_, err := s.tx.Exec(ctx, `DELETE FROM ratings WHERE event_id = $1`, eventID)
	return err
}

func (s *pgxStore) DeleteVariant(ctx context.Context, eventID uuid.UUID, t models.EventType) error {
	var q string
	switch t {
	case models.EventTypePublic:
		q = `DELETE FROM public_events WHERE event_id = $1`
	case models.EventTypePrivate:
		q = `DELETE FROM private_events WHERE event_id = $1`
	case models.EventTypeRso:
		q = `DELETE FROM rso_events WHERE event_id = $1`
	default:
		return errors.New("unknown event type " + string(t))
	}
	_, err := s.tx.Exec(ctx, q, eventID)
	return err
}

func (s *pgxStore) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	_, err := s.tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	return err
}

func (s *pgxStore) DeleteMembershipsByRso(ctx context.Context, rsoID uuid.UUID) error {
	_, err := s.tx.Exec(ctx, `DELETE FROM rso_memberships WHERE rso_id = $1`, rsoID)
	return err
}

func (s *pgxStore) DeleteRso(ctx context.Context, rsoID uuid.UUID) error {
	_, err := s.tx.Exec(ctx, `DELETE FROM rsos WHERE id = $1`, rsoID)
	return err
}

func (s *pgxStore) DetachUsersFromCollege(ctx context.Context, collegeID uuid.UUID) error {
	_, err := s.tx.Exec(ctx, `UPDATE users SET college_id = NULL, updated_at = NOW() WHERE college_id = $1`, collegeID)
	return err
}

func (s *pgxStore) DeleteCollege(ctx context.Context, collegeID uuid.UUID) error {
	_, err := s.tx.Exec(ctx, `DELETE FROM colleges WHERE id = $1`, collegeID)
	return err
}
