package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/campus-events/backend/internal/models"
)

func TestCanView(t *testing.T) {
	userID := uuid.New()
	collegeID := uuid.New()
	otherCollegeID := uuid.New()
	rsoID := uuid.New()

	student := models.Identity{UserID: userID, Role: models.RoleStudent, CollegeID: &collegeID}
	unaffiliated := models.Identity{UserID: userID, Role: models.RoleStudent}
	superAdmin := models.Identity{UserID: uuid.New(), Role: models.RoleSuperAdmin}

	approved := &models.Variant{Public: &models.PublicEvent{Approved: true}}
	pending := &models.Variant{Public: &models.PublicEvent{Approved: false}}
	hostedBy := &models.Variant{Rso: &models.RsoEvent{RsoID: rsoID}}

	tests := []struct {
		name     string
		id       models.Identity
		event    models.Event
		variant  *models.Variant
		memberOf map[uuid.UUID]bool
		want     bool
	}{
		{
			name:    "approved public event visible to anyone",
			id:      unaffiliated,
			event:   models.Event{EventType: models.EventTypePublic},
			variant: approved,
			want:    true,
		},
		{
			name:    "unapproved public event hidden",
			id:      student,
			event:   models.Event{EventType: models.EventTypePublic},
			variant: pending,
			want:    false,
		},
		{
			name:    "unapproved public event visible to super admin",
			id:      superAdmin,
			event:   models.Event{EventType: models.EventTypePublic},
			variant: pending,
			want:    true,
		},
		{
			name:    "private event visible to same college",
			id:      student,
			event:   models.Event{EventType: models.EventTypePrivate, CollegeID: collegeID},
			variant: &models.Variant{Private: &models.PrivateEvent{}},
			want:    true,
		},
		{
			name:    "private event hidden from other college",
			id:      student,
			event:   models.Event{EventType: models.EventTypePrivate, CollegeID: otherCollegeID},
			variant: &models.Variant{Private: &models.PrivateEvent{}},
			want:    false,
		},
		{
			name:    "private event hidden from unaffiliated user",
			id:      unaffiliated,
			event:   models.Event{EventType: models.EventTypePrivate, CollegeID: collegeID},
			variant: &models.Variant{Private: &models.PrivateEvent{}},
			want:    false,
		},
		{
			name:     "rso event visible to member",
			id:       student,
			event:    models.Event{EventType: models.EventTypeRso, CollegeID: collegeID},
			variant:  hostedBy,
			memberOf: map[uuid.UUID]bool{rsoID: true},
			want:     true,
		},
		{
			name:    "rso event hidden from non-member in same college",
			id:      student,
			event:   models.Event{EventType: models.EventTypeRso, CollegeID: collegeID},
			variant: hostedBy,
			want:    false,
		},
		{
			name:    "rso event visible to super admin without membership",
			id:      superAdmin,
			event:   models.Event{EventType: models.EventTypeRso},
			variant: hostedBy,
			want:    true,
		},
		{
			name:     "missing variant payload denies",
			id:       student,
			event:    models.Event{EventType: models.EventTypeRso},
			variant:  &models.Variant{},
			memberOf: map[uuid.UUID]bool{rsoID: true},
			want:     false,
		},
		{
			name:  "nil variant denies public",
			id:    student,
			event: models.Event{EventType: models.EventTypePublic},
			want:  false,
		},
		{
			name:    "unknown event type denies",
			id:      student,
			event:   models.Event{EventType: models.EventType("mystery")},
			variant: &models.Variant{},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanView(tt.id, &tt.event, tt.variant, tt.memberOf)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanMutate(t *testing.T) {
	creatorID := uuid.New()
	rsoAdminID := uuid.New()
	strangerID := uuid.New()

	tests := []struct {
		name            string
		id              models.Identity
		event           models.Event
		hostingRsoAdmin *uuid.UUID
		want            bool
	}{
		{
			name:  "creator may mutate",
			id:    models.Identity{UserID: creatorID, Role: models.RoleStudent},
			event: models.Event{EventType: models.EventTypePublic, CreatedBy: creatorID},
			want:  true,
		},
		{
			name:  "super admin may mutate anything",
			id:    models.Identity{UserID: strangerID, Role: models.RoleSuperAdmin},
			event: models.Event{EventType: models.EventTypePrivate, CreatedBy: creatorID},
			want:  true,
		},
		{
			name:  "stranger may not mutate",
			id:    models.Identity{UserID: strangerID, Role: models.RoleStudent},
			event: models.Event{EventType: models.EventTypePublic, CreatedBy: creatorID},
			want:  false,
		},
		{
			name:            "hosting rso admin may mutate rso event",
			id:              models.Identity{UserID: rsoAdminID, Role: models.RoleAdmin},
			event:           models.Event{EventType: models.EventTypeRso, CreatedBy: creatorID},
			hostingRsoAdmin: &rsoAdminID,
			want:            true,
		},
		{
			name:            "rso admin privilege does not cross event types",
			id:              models.Identity{UserID: rsoAdminID, Role: models.RoleAdmin},
			event:           models.Event{EventType: models.EventTypePublic, CreatedBy: creatorID},
			hostingRsoAdmin: &rsoAdminID,
			want:            false,
		},
		{
			name:  "rso event with missing hosting admin falls back to creator only",
			id:    models.Identity{UserID: rsoAdminID, Role: models.RoleAdmin},
			event: models.Event{EventType: models.EventTypeRso, CreatedBy: creatorID},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanMutate(tt.id, &tt.event, tt.hostingRsoAdmin)
			assert.Equal(t, tt.want, got)
		})
	}
}
