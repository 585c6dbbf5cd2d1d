package models

import (
	"time"

	"github.com/google/uuid"
)

// RsoStatus represents the lifecycle state of an RSO.
type RsoStatus string

const (
	RsoStatusActive   RsoStatus = "active"
	RsoStatusInactive RsoStatus = "inactive"
)

// Rso is a registered student organization, owned by exactly one college and
// administered by one user.
type Rso struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CollegeID   uuid.UUID `json:"college_id"`
	AdminID     uuid.UUID `json:"admin_id"`
	Status      RsoStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RsoMembership links a user to an RSO. The (UserID, RsoID) pair is unique;
// the RSO admin is always a member.
type RsoMembership struct {
	UserID   uuid.UUID `json:"user_id"`
	RsoID    uuid.UUID `json:"rso_id"`
	JoinedAt time.Time `json:"joined_at"`
}
