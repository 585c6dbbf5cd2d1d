package comments

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campus-events/backend/internal/events"
	"github.com/campus-events/backend/internal/middleware"
	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/response"
)

// Request is the body for comment create and update.
type Request struct {
	Content string `json:"content" binding:"required"`
}

// Handler handles comment HTTP endpoints. Commenting and reading comments
// require visibility of the event itself.
type Handler struct {
	repo      *Repository
	eventRepo *events.Repository
	access    *events.Access
	users     middleware.UserLoader
}

// NewHandler creates a comments handler.
func NewHandler(repo *Repository, eventRepo *events.Repository, access *events.Access, users middleware.UserLoader) *Handler {
	return &Handler{repo: repo, eventRepo: eventRepo, access: access, users: users}
}

// viewableEvent loads the event from :id and checks the caller may see it.
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

// Create handles POST /events/:id/comments.
func (h *Handler) Create(c *gin.Context) {
	e, identity, ok := h.viewableEvent(c)
	if !ok {
		return
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	cm := &models.Comment{
		EventID: e.ID,
		UserID:  identity.UserID,
		Content: req.Content,
	}
	if err := h.repo.Create(c.Request.Context(), cm); err != nil {
		response.Internal(c, "failed to create comment")
		return
	}
	response.Created(c, cm)
}

// ListByEvent handles GET /events/:id/comments.
func (h *Handler) ListByEvent(c *gin.Context) {
	e, _, ok := h.viewableEvent(c)
	if !ok {
		return
	}
	list, err := h.repo.ListByEvent(c.Request.Context(), e.ID)
	if err != nil {
		response.Internal(c, "failed to list comments")
		return
	}
	response.OK(c, list)
}

// Update handles PUT /comments/:id (comment owner or super admin).
func (h *Handler) Update(c *gin.Context) {
	cm, ok := h.loadOwned(c)
	if !ok {
		return
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.repo.Update(c.Request.Context(), cm.ID, req.Content); err != nil {
		response.Error(c, err, "failed to update comment")
		return
	}
	updated, err := h.repo.GetByID(c.Request.Context(), cm.ID)
	if err != nil {
		response.Error(c, err, "failed to load comment")
		return
	}
	response.OK(c, updated)
}

// Delete handles DELETE /comments/:id (comment owner or super admin).
func (h *Handler) Delete(c *gin.Context) {
	cm, ok := h.loadOwned(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), cm.ID); err != nil {
		response.Error(c, err, "failed to delete comment")
		return
	}
	response.NoContent(c)
}

func (h *Handler) loadOwned(c *gin.Context) (*models.Comment, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return nil, false
	}
	cm, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load comment")
		return nil, false
	}
	role, _ := c.MustGet(middleware.ContextUserRole).(string)
	if cm.UserID != middleware.CurrentUserID(c) && role != string(models.RoleSuperAdmin) {
		response.Forbidden(c, "you do not have permission to modify this comment")
		return nil, false
	}
	return cm, true
}
