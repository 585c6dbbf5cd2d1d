// Package cascade deletes colleges, RSOs, and events together with every
// dependent record, inside a single unit of work. Dependents always go before
// the row they reference; any step failing aborts the whole deletion.
package cascade

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/apperr"
)

// Store is the set of per-entity operations a cascade needs, scoped to one
// transaction. The coordinator walks ID lists fetched per level rather than
// holding object graphs.
type Store interface {
	CollegeExists(ctx context.Context, collegeID uuid.UUID) (bool, error)
	RsoIDsByCollege(ctx context.Context, collegeID uuid.UUID) ([]uuid.UUID, error)
	RsoExists(ctx context.Context, rsoID uuid.UUID) (bool, error)
	EventIDsByRso(ctx context.Context, rsoID uuid.UUID) ([]uuid.UUID, error)
	EventTypesByCollege(ctx context.Context, collegeID uuid.UUID) (map[uuid.UUID]models.EventType, error)
	EventTypeOf(ctx context.Context, eventID uuid.UUID) (models.EventType, bool, error)

	DeleteCommentsByEvent(ctx context.Context, eventID uuid.UUID) error
	DeleteRatingsByEvent(ctx context.Context, eventID uuid.UUID) error
	DeleteVariant(ctx context.Context, eventID uuid.UUID, t models.EventType) error
	DeleteEvent(ctx context.Context, eventID uuid.UUID) error
	DeleteMembershipsByRso(ctx context.Context, rsoID uuid.UUID) error
	DeleteRso(ctx context.Context, rsoID uuid.UUID) error
	DetachUsersFromCollege(ctx context.Context, collegeID uuid.UUID) error
	DeleteCollege(ctx context.Context, collegeID uuid.UUID) error
}

// TxRunner executes fn against a Store inside one transaction; an error from
// fn rolls the whole transaction back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Store) error) error
}

// Coordinator orchestrates multi-table deletions. Callers must have performed
// the authorization check for the deletion before invoking it.
type Coordinator struct {
	db     TxRunner
	logger *zap.Logger
}

// NewCoordinator creates a cascade coordinator.
func NewCoordinator(db TxRunner, logger *zap.Logger) *Coordinator {
	return &Coordinator{db: db, logger: logger}
}

func (c *Coordinator) run(ctx context.Context, op string, fn func(Store) error) error {
	err := c.db.InTx(ctx, fn)
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) != 0 {
		return err
	}
	// An unclassified failure mid-cascade is an invariant-violation
	// candidate; it must reach an operator, never be swallowed.
	c.logger.Error("cascade aborted", zap.String("op", op), zap.Error(err))
	return apperr.Integrity(op, err)
}

// DeleteEvent removes an event, its variant row, and its comments and ratings.
func (c *Coordinator) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	return c.run(ctx, "delete event", func(s Store) error {
		return deleteEventTree(ctx, s, eventID)
	})
}

// DeleteRso removes an RSO, its events (with their dependents), and its
// memberships.
func (c *Coordinator) DeleteRso(ctx context.Context, rsoID uuid.UUID) error {
	return c.run(ctx, "delete rso", func(s Store) error {
		ok, err := s.RsoExists(ctx, rsoID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("rso")
		}
		return deleteRsoTree(ctx, s, rsoID)
	})
}

// DeleteCollege removes a college, every RSO and event under it (with their
// dependents), and detaches affiliated users instead of deleting them.
func (c *Coordinator) DeleteCollege(ctx context.Context, collegeID uuid.UUID) error {
	return c.run(ctx, "delete college", func(s Store) error {
		ok, err := s.CollegeExists(ctx, collegeID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("college")
		}

		// RSO events depend on RSOs, so RSO subtrees go first.
		rsoIDs, err := s.RsoIDsByCollege(ctx, collegeID)
		if err != nil {
			return err
		}
		for _, rsoID := range rsoIDs {
			if err := deleteRsoTree(ctx, s, rsoID); err != nil {
				return err
			}
		}

		// Remaining public and private events directly under the college.
		types, err := s.EventTypesByCollege(ctx, collegeID)
		if err != nil {
			return err
		}
		for eventID, t := range types {
			if t == models.EventTypeRso {
				continue
			}
			if err := deleteEventLeaves(ctx, s, eventID, t); err != nil {
				return err
			}
		}

		if err := s.DetachUsersFromCollege(ctx, collegeID); err != nil {
			return err
		}
		return s.DeleteCollege(ctx, collegeID)
	})
}

// deleteEventLeaves removes an event's dependents and then the event itself.
func deleteEventLeaves(ctx context.Context, s Store, eventID uuid.UUID, t models.EventType) error {
	if err := s.DeleteCommentsByEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.DeleteRatingsByEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.DeleteVariant(ctx, eventID, t); err != nil {
		return err
	}
	return s.DeleteEvent(ctx, eventID)
}

func deleteEventTree(ctx context.Context, s Store, eventID uuid.UUID) error {
	t, ok, err := s.EventTypeOf(ctx, eventID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("event")
	}
	return deleteEventLeaves(ctx, s, eventID, t)
}

func deleteRsoTree(ctx context.Context, s Store, rsoID uuid.UUID) error {
	eventIDs, err := s.EventIDsByRso(ctx, rsoID)
	if err != nil {
		return err
	}
	for _, eventID := range eventIDs {
		if err := deleteEventLeaves(ctx, s, eventID, models.EventTypeRso); err != nil {
			return err
		}
	}
	if err := s.DeleteMembershipsByRso(ctx, rsoID); err != nil {
		return err
	}
	return s.DeleteRso(ctx, rsoID)
}
