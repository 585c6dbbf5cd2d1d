package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType discriminates the variant record attached to an event.
type EventType string

const (
	EventTypePublic  EventType = "public"
	EventTypePrivate EventType = "private"
	EventTypeRso     EventType = "rso"
)

// Event is the base event record. Exactly one variant row with the same ID
// exists in the side table matching EventType.
type Event struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Time         string    `json:"time"`
	LocationID   uuid.UUID `json:"location_id"`
	CollegeID    uuid.UUID `json:"college_id"`
	CreatedBy    uuid.UUID `json:"created_by"`
	EventType    EventType `json:"event_type"`
	ContactPhone string    `json:"contact_phone"`
	ContactEmail string    `json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicEvent is the variant payload for public events. Unapproved public
// events are invisible to everyone except super admins.
type PublicEvent struct {
	EventID    uuid.UUID  `json:"event_id"`
	Approved   bool       `json:"approved"`
	ApprovedBy *uuid.UUID `json:"approved_by,omitempty"`
}

// PrivateEvent is the variant payload for college-scoped events.
type PrivateEvent struct {
	EventID uuid.UUID `json:"event_id"`
	AdminID uuid.UUID `json:"admin_id"`
}

// RsoEvent is the variant payload for RSO-scoped events.
type RsoEvent struct {
	EventID uuid.UUID `json:"event_id"`
	RsoID   uuid.UUID `json:"rso_id"`
}

// Variant is the tagged union of event payloads. Exactly one field is non-nil
// for a well-formed event; policy code treats an empty variant as deny.
type Variant struct {
	Public  *PublicEvent  `json:"public,omitempty"`
	Private *PrivateEvent `json:"private,omitempty"`
	Rso     *RsoEvent     `json:"rso,omitempty"`
}
