package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role on the platform.
type Role string

const (
	RoleStudent    Role = "student"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// User represents a platform user. CollegeID is nil when the user has no
// college affiliation (e.g. after their college was deleted).
type User struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      Role       `json:"role"`
	CollegeID *uuid.UUID `json:"college_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UserPublic is User without sensitive fields for API responses.
type UserPublic struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      Role       `json:"role"`
	CollegeID *uuid.UUID `json:"college_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		CollegeID: u.CollegeID,
		CreatedAt: u.CreatedAt,
	}
}

// Identity is the authenticated caller of an operation. Every policy and
// orchestration function takes it explicitly; there is no ambient current-user
// lookup.
type Identity struct {
	UserID    uuid.UUID
	Role      Role
	CollegeID *uuid.UUID
}

// IsSuperAdmin reports whether the identity holds the super_admin role.
func (i Identity) IsSuperAdmin() bool { return i.Role == RoleSuperAdmin }

// Identity returns the user's identity for policy checks.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Role: u.Role, CollegeID: u.CollegeID}
}
