package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campus-events/backend/internal/models"
)

// UserLoader fetches the current user record. College affiliation is read
// from the database rather than the token so a detached user loses private
// event access immediately.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CurrentUserID returns the authenticated user ID from the gin context.
func CurrentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet(ContextUserID).(uuid.UUID)
}

// CurrentIdentity loads the caller's identity from the user store.
func CurrentIdentity(c *gin.Context, users UserLoader) (models.Identity, error) {
	u, err := users.GetByID(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		return models.Identity{}, err
	}
	return u.Identity(), nil
}
