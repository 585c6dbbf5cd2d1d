package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/apperr"
)

// Repository handles event and variant persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventColumns = `id, name, description, event_date, event_time, location_id, college_id, created_by, event_type, contact_phone, contact_email, created_at, updated_at`

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Date, &e.Time, &e.LocationID, &e.CollegeID,
		&e.CreatedBy, &e.EventType, &e.ContactPhone, &e.ContactEmail, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("event")
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create persists the base event and exactly one variant row as a single
// transaction. For RSO events rsoID must resolve to an existing RSO or the
// whole operation fails; no base-row-without-variant state can be observed.
func (r *Repository) Create(ctx context.Context, e *models.Event, rsoID *uuid.UUID, actor models.Identity) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const q = `INSERT INTO events (name, description, event_date, event_time, location_id, college_id, created_by, event_type, contact_phone, contact_email)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, q, e.Name, e.Description, e.Date, e.Time, e.LocationID, e.CollegeID,
			e.CreatedBy, string(e.EventType), e.ContactPhone, e.ContactEmail).
			Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return err
		}

		switch e.EventType {
		case models.EventTypePublic:
			// Super admins skip the approval queue.
			approved := actor.IsSuperAdmin()
			var approver *uuid.UUID
			if approved {
				approver = &actor.UserID
			}
			_, err = tx.Exec(ctx, `INSERT INTO public_events (event_id, approved, approved_by) VALUES ($1, $2, $3)`,
				e.ID, approved, approver)
		case models.EventTypePrivate:
			_, err = tx.Exec(ctx, `INSERT INTO private_events (event_id, admin_id) VALUES ($1, $2)`,
				e.ID, actor.UserID)
		case models.EventTypeRso:
			if rsoID == nil {
				return apperr.Conflict("rso_id is required for rso events")
			}
			var one int
			if err := tx.QueryRow(ctx, `SELECT 1 FROM rsos WHERE id = $1`, *rsoID).Scan(&one); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return apperr.NotFound("rso")
				}
				return err
			}
			_, err = tx.Exec(ctx, `INSERT INTO rso_events (event_id, rso_id) VALUES ($1, $2)`, e.ID, *rsoID)
		default:
			return apperr.Conflict("unknown event type")
		}
		return err
	})
}

// GetByID returns an event by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

// GetVariant loads the type-specific payload for an event. A missing variant
// row yields an empty Variant, which policy code treats as deny.
func (r *Repository) GetVariant(ctx context.Context, e *models.Event) (*models.Variant, error) {
	v := &models.Variant{}
	var err error
	switch e.EventType {
	case models.EventTypePublic:
		var p models.PublicEvent
		err = r.pool.QueryRow(ctx, `SELECT event_id, approved, approved_by FROM public_events WHERE event_id = $1`, e.ID).
			Scan(&p.EventID, &p.Approved, &p.ApprovedBy)
		if err == nil {
			v.Public = &p
		}
	case models.EventTypePrivate:
		var p models.PrivateEvent
		err = r.pool.QueryRow(ctx, `SELECT event_id, admin_id FROM private_events WHERE event_id = $1`, e.ID).
			Scan(&p.EventID, &p.AdminID)
		if err == nil {
			v.Private = &p
		}
	case models.EventTypeRso:
		var p models.RsoEvent
		err = r.pool.QueryRow(ctx, `SELECT event_id, rso_id FROM rso_events WHERE event_id = $1`, e.ID).
			Scan(&p.EventID, &p.RsoID)
		if err == nil {
			v.Rso = &p
		}
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return v, nil
}

// HostingRsoAdmin returns the admin of the RSO hosting the event, or nil when
// the event is not RSO-typed or the hosting RSO is gone.
func (r *Repository) HostingRsoAdmin(ctx context.Context, eventID uuid.UUID) (*uuid.UUID, error) {
	const q = `SELECT r.admin_id FROM rso_events re INNER JOIN rsos r ON r.id = re.rso_id WHERE re.event_id = $1`
	var adminID uuid.UUID
	err := r.pool.QueryRow(ctx, q, eventID).Scan(&adminID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &adminID, nil
}

// Filter narrows List results. Zero values mean no constraint.
type Filter struct {
	Type      models.EventType
	CollegeID *uuid.UUID
	RsoID     *uuid.UUID
	From      *time.Time
	To        *time.Time
}

// List returns events matching the filter, newest first. Visibility filtering
// happens in the handler; this is plain retrieval.
func (r *Repository) List(ctx context.Context, f Filter) ([]models.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events`
	var args []interface{}
	var conds []string
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Type != "" {
		conds = append(conds, "event_type = "+arg(string(f.Type)))
	}
	if f.CollegeID != nil {
		conds = append(conds, "college_id = "+arg(*f.CollegeID))
	}
	if f.RsoID != nil {
		conds = append(conds, "id IN (SELECT event_id FROM rso_events WHERE rso_id = "+arg(*f.RsoID)+")")
	}
	if f.From != nil {
		conds = append(conds, "event_date >= "+arg(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "event_date <= "+arg(*f.To))
	}
	for i, cond := range conds {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += " ORDER BY event_date DESC, created_at DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// Update updates mutable event fields; nil pointers leave the field as-is.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, description, eventTime, contactPhone, contactEmail *string, date *time.Time, locationID *uuid.UUID) error {
	const q = `UPDATE events SET
		name = COALESCE($1, name),
		description = COALESCE($2, description),
		event_time = COALESCE($3, event_time),
		contact_phone = COALESCE($4, contact_phone),
		contact_email = COALESCE($5, contact_email),
		event_date = COALESCE($6, event_date),
		location_id = COALESCE($7, location_id),
		updated_at = NOW()
		WHERE id = $8`
	tag, err := r.pool.Exec(ctx, q, name, description, eventTime, contactPhone, contactEmail, date, locationID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("event")
	}
	return nil
}

// PendingPublic returns public events awaiting approval, oldest first.
func (r *Repository) PendingPublic(ctx context.Context) ([]models.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events e
		INNER JOIN public_events pe ON pe.event_id = e.id
		WHERE pe.approved = FALSE
		ORDER BY e.created_at ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// Approve marks a public event approved and stamps the approver. Approving an
// already-approved event re-stamps the approver (last writer wins).
func (r *Repository) Approve(ctx context.Context, eventID, approverID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE public_events SET approved = TRUE, approved_by = $2 WHERE event_id = $1`,
		eventID, approverID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("public event")
	}
	return nil
}
