package events

import (
	"context"

	"github.com/google/uuid"

	"github.com/campus-events/backend/internal/models"
)

// MembershipSource supplies the RSO membership state the resolver needs.
type MembershipSource interface {
	MembershipSet(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
}

// Access resolves visibility and mutation rights against stored variant and
// membership state. The decision logic itself lives in the pure policy
// functions; Access only fetches their inputs.
type Access struct {
	events      *Repository
	memberships MembershipSource
}

// NewAccess creates an access resolver.
func NewAccess(events *Repository, memberships MembershipSource) *Access {
	return &Access{events: events, memberships: memberships}
}

// CanView reports whether the identity may see the event.
func (a *Access) CanView(ctx context.Context, id models.Identity, e *models.Event) (bool, error) {
	if id.IsSuperAdmin() {
		return true, nil
	}
	v, err := a.events.GetVariant(ctx, e)
	if err != nil {
		return false, err
	}
	var memberOf map[uuid.UUID]bool
	if e.EventType == models.EventTypeRso {
		memberOf, err = a.memberships.MembershipSet(ctx, id.UserID)
		if err != nil {
			return false, err
		}
	}
	return CanView(id, e, v, memberOf), nil
}

// CanMutate reports whether the identity may update or delete the event.
func (a *Access) CanMutate(ctx context.Context, id models.Identity, e *models.Event) (bool, error) {
	if id.IsSuperAdmin() || id.UserID == e.CreatedBy {
		return true, nil
	}
	if e.EventType != models.EventTypeRso {
		return false, nil
	}
	admin, err := a.events.HostingRsoAdmin(ctx, e.ID)
	if err != nil {
		return false, err
	}
	return CanMutate(id, e, admin), nil
}

// FilterViewable returns the subset of events the identity may see. The
// membership set is fetched once and reused across the list.
func (a *Access) FilterViewable(ctx context.Context, id models.Identity, list []models.Event) ([]models.Event, error) {
	memberOf, err := a.memberships.MembershipSet(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Event, 0, len(list))
	for i := range list {
		e := &list[i]
		if id.IsSuperAdmin() {
			visible = append(visible, *e)
			continue
		}
		v, err := a.events.GetVariant(ctx, e)
		if err != nil {
			return nil, err
		}
		if CanView(id, e, v, memberOf) {
			visible = append(visible, *e)
		}
	}
	return visible, nil
}
