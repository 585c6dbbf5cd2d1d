package events

import (
	"github.com/google/uuid"

	"github.com/campus-events/backend/internal/models"
)

// CanView decides whether the identity may see the event. memberOf is the set
// of RSO IDs the user belongs to. The checks short-circuit in order: super
// admins see everything; public events require approval; private events
// require matching college affiliation; RSO events require membership. A
// missing variant payload denies rather than crashing, and a user with no
// college affiliation never matches a private event.
func CanView(id models.Identity, e *models.Event, v *models.Variant, memberOf map[uuid.UUID]bool) bool {
	if id.IsSuperAdmin() {
		return true
	}
	switch e.EventType {
	case models.EventTypePublic:
		return v != nil && v.Public != nil && v.Public.Approved
	case models.EventTypePrivate:
		return id.CollegeID != nil && *id.CollegeID == e.CollegeID
	case models.EventTypeRso:
		if v == nil || v.Rso == nil {
			return false
		}
		return memberOf[v.Rso.RsoID]
	}
	return false
}

// CanMutate decides whether the identity may update or delete the event:
// the creator, a super admin, or — for RSO events — the hosting RSO's admin.
// hostingRsoAdmin is nil for non-RSO events or when the hosting RSO is gone.
func CanMutate(id models.Identity, e *models.Event, hostingRsoAdmin *uuid.UUID) bool {
	if id.IsSuperAdmin() || id.UserID == e.CreatedBy {
		return true
	}
	if e.EventType == models.EventTypeRso && hostingRsoAdmin != nil {
		return id.UserID == *hostingRsoAdmin
	}
	return false
}
