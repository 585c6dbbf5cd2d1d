package ratings

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campus-events/backend/internal/events"
	"github.com/campus-events/backend/internal/middleware"
	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/response"
)

// RateRequest is the body for POST /events/:id/ratings.
type RateRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// Handler handles rating HTTP endpoints.
type Handler struct {
	svc       *Service
	eventRepo *events.Repository
	access    *events.Access
	users     middleware.UserLoader
}

// NewHandler creates a ratings handler.
func NewHandler(svc *Service, eventRepo *events.Repository, access *events.Access, users middleware.UserLoader) *Handler {
	return &Handler{svc: svc, eventRepo: eventRepo, access: access, users: users}
}

func (h *Handler) viewableEvent(c *gin.Context) (*models.Event, models.Identity, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return nil, models.Identity{}, false
	}
	identity, err := middleware.CurrentIdentity(c, h.users)
	if err != nil {
		response.Error(c, err, "failed to load user")
		return nil, models.Identity{}, false
	}
	e, err := h.eventRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load event")
		return nil, models.Identity{}, false
	}
	ok, err := h.access.CanView(c.Request.Context(), identity, e)
	if err != nil {
		response.Error(c, err, "failed to check access")
		return nil, models.Identity{}, false
	}
	if !ok {
		response.Forbidden(c, "you do not have permission to view this event")
		return nil, models.Identity{}, false
	}
	return e, identity, true
}

// Rate handles POST /events/:id/ratings. Re-rating overwrites the previous
// value.
func (h *Handler) Rate(c *gin.Context) {
	e, identity, ok := h.viewableEvent(c)
	if !ok {
		return
	}
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	rating := &models.Rating{
		UserID:  identity.UserID,
		EventID: e.ID,
		Value:   req.Rating,
	}
	if err := h.svc.Rate(c.Request.Context(), rating); err != nil {
		response.Error(c, err, "failed to save rating")
		return
	}
	summary, err := h.svc.Summary(c.Request.Context(), e.ID)
	if err != nil {
		response.Internal(c, "failed to load rating summary")
		return
	}
	response.OK(c, summary)
}

// Summary handles GET /events/:id/ratings.
func (h *Handler) Summary(c *gin.Context) {
	e, _, ok := h.viewableEvent(c)
	if !ok {
		return
	}
	summary, err := h.svc.Summary(c.Request.Context(), e.ID)
	if err != nil {
		response.Internal(c, "failed to load rating summary")
		return
	}
	response.OK(c, summary)
}
