package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a user comment on an event.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rating is a user's 1-5 score for an event. The (UserID, EventID) pair is
// unique; re-rating overwrites the previous value.
type Rating struct {
	UserID    uuid.UUID `json:"user_id"`
	EventID   uuid.UUID `json:"event_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingSummary is the per-event aggregate returned with event responses.
type RatingSummary struct {
	EventID uuid.UUID `json:"event_id"`
	Average float64   `json:"average"`
	Count   int       `json:"count"`
}
