package rsos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/apperr"
)

// Repository handles RSO and membership persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an RSO repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const rsoColumns = `id, name, description, college_id, admin_id, status, created_at, updated_at`

func scanRso(row pgx.Row) (*models.Rso, error) {
	var r models.Rso
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.CollegeID, &r.AdminID, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("rso")
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts an RSO and enrolls its admin as the first member in the same
// transaction, so the admin-is-a-member invariant holds from creation.
func (r *Repository) Create(ctx context.Context, rso *models.Rso) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var one int
		if err := tx.QueryRow(ctx, `SELECT 1 FROM colleges WHERE id = $1`, rso.CollegeID).Scan(&one); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound("college")
			}
			return err
		}
		const q = `INSERT INTO rsos (name, description, college_id, admin_id, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, q, rso.Name, rso.Description, rso.CollegeID, rso.AdminID, string(rso.Status)).
			Scan(&rso.ID, &rso.CreatedAt, &rso.UpdatedAt)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `INSERT INTO rso_memberships (user_id, rso_id) VALUES ($1, $2)`,
			rso.AdminID, rso.ID)
		return err
	})
}

// GetByID returns an RSO by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Rso, error) {
	return scanRso(r.pool.QueryRow(ctx, `SELECT `+rsoColumns+` FROM rsos WHERE id = $1`, id))
}

// List returns all RSOs, or only those administered by adminID when set.
func (r *Repository) List(ctx context.Context, adminID *uuid.UUID) ([]models.Rso, error) {
	q := `SELECT ` + rsoColumns + ` FROM rsos`
	var args []interface{}
	if adminID != nil {
		q += ` WHERE admin_id = $1`
		args = append(args, *adminID)
	}
	rows, err := r.pool.Query(ctx, q+` ORDER BY name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Rso
	for rows.Next() {
		rso, err := scanRso(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *rso)
	}
	return list, rows.Err()
}

// Update updates RSO name, description, and status.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, description string, status models.RsoStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE rsos SET name = $1, description = $2, status = $3, updated_at = NOW() WHERE id = $4`,
		name, description, string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("rso")
	}
	return nil
}

// Member is an RSO member with user details.
type Member struct {
	UserID    uuid.UUID   `json:"user_id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      models.Role `json:"role"`
	JoinedAt  time.Time   `json:"joined_at"`
}

// Members returns members of an RSO, earliest joiner first.
func (r *Repository) Members(ctx context.Context, rsoID uuid.UUID) ([]Member, error) {
	const q = `SELECT m.user_id, u.email, u.first_name, u.last_name, u.role, m.joined_at
		FROM rso_memberships m
		INNER JOIN users u ON u.id = m.user_id
		WHERE m.rso_id = $1
		ORDER BY m.joined_at ASC`
	rows, err := r.pool.Query(ctx, q, rsoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.Email, &m.FirstName, &m.LastName, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Join enrolls a user and returns the new membership. The membership primary
// key is the race-safety boundary: a concurrent duplicate join surfaces as the
// same Conflict as a sequential one.
func (r *Repository) Join(ctx context.Context, userID, rsoID uuid.UUID) (*models.RsoMembership, error) {
	m := &models.RsoMembership{UserID: userID, RsoID: rsoID}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO rso_memberships (user_id, rso_id) VALUES ($1, $2) RETURNING joined_at`,
		userID, rsoID).Scan(&m.JoinedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil, apperr.Conflict("already a member of this rso")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Leave removes a membership. The RSO admin cannot leave; they must transfer
// or delete the RSO instead.
func (r *Repository) Leave(ctx context.Context, userID uuid.UUID, rso *models.Rso) error {
	if rso.AdminID == userID {
		return apperr.Forbidden("rso admin cannot leave their own rso")
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM rso_memberships WHERE user_id = $1 AND rso_id = $2`, userID, rso.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("not a member of this rso")
	}
	return nil
}

// Exists reports whether the user is a member of the RSO.
func (r *Repository) Exists(ctx context.Context, userID, rsoID uuid.UUID) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM rso_memberships WHERE user_id = $1 AND rso_id = $2`, userID, rsoID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MembershipSet returns the set of RSO IDs the user belongs to, for batch
// visibility checks.
func (r *Repository) MembershipSet(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := r.pool.Query(ctx, `SELECT rso_id FROM rso_memberships WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	set := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set[id] = true
	}
	return set, rows.Err()
}
