package rsos

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/cascade"
	"github.com/campus-events/backend/internal/middleware"
	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/response"
)

// CreateRequest is the body for POST /rsos.
type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	CollegeID   string `json:"college_id" binding:"required,uuid"`
}

// UpdateRequest is the body for PUT /rsos/:id. An empty status keeps the
// current one.
type UpdateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Handler handles RSO HTTP endpoints.
type Handler struct {
	repo    *Repository
	cascade *cascade.Coordinator
	logger  *zap.Logger
}

// NewHandler creates an RSO handler.
func NewHandler(repo *Repository, cascade *cascade.Coordinator, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, cascade: cascade, logger: logger}
}

// List handles GET /rsos.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context(), nil)
	if err != nil {
		response.Internal(c, "failed to list rsos")
		return
	}
	response.OK(c, list)
}

// ListMine handles GET /rsos/mine (RSOs administered by the current user).
func (h *Handler) ListMine(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	list, err := h.repo.List(c.Request.Context(), &userID)
	if err != nil {
		response.Internal(c, "failed to list rsos")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /rsos/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rso id")
		return
	}
	rso, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load rso")
		return
	}
	response.OK(c, rso)
}

// Members handles GET /rsos/:id/members.
func (h *Handler) Members(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rso id")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		response.Error(c, err, "failed to load rso")
		return
	}
	members, err := h.repo.Members(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to list members")
		return
	}
	response.OK(c, members)
}

// Create handles POST /rsos (admin role required). The creator becomes
// the RSO admin and its first member.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	collegeID, err := uuid.Parse(req.CollegeID)
	if err != nil {
		response.BadRequest(c, "invalid college_id")
		return
	}

	rso := &models.Rso{
		Name:        req.Name,
		Description: req.Description,
		CollegeID:   collegeID,
		AdminID:     middleware.CurrentUserID(c),
		Status:      models.RsoStatusActive,
	}
	if err := h.repo.Create(c.Request.Context(), rso); err != nil {
		h.logger.Error("create rso", zap.Error(err))
		response.Error(c, err, "failed to create rso")
		return
	}
	response.Created(c, rso)
}

// Update handles PUT /rsos/:id (RSO admin only).
func (h *Handler) Update(c *gin.Context) {
	rso, ok := h.loadOwned(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	status := rso.Status
	if req.Status != "" {
		switch models.RsoStatus(req.Status) {
		case models.RsoStatusActive, models.RsoStatusInactive:
			status = models.RsoStatus(req.Status)
		default:
			response.BadRequest(c, "unknown status")
			return
		}
	}
	if err := h.repo.Update(c.Request.Context(), rso.ID, req.Name, req.Description, status); err != nil {
		response.Error(c, err, "failed to update rso")
		return
	}
	updated, err := h.repo.GetByID(c.Request.Context(), rso.ID)
	if err != nil {
		response.Error(c, err, "failed to load rso")
		return
	}
	response.OK(c, updated)
}

// Delete handles DELETE /rsos/:id (RSO admin or super admin). The
// cascade removes the RSO's events, their comments and ratings, and all
// memberships in one transaction.
func (h *Handler) Delete(c *gin.Context) {
	rso, ok := h.loadOwned(c)
	if !ok {
		return
	}
	if err := h.cascade.DeleteRso(c.Request.Context(), rso.ID); err != nil {
		response.Error(c, err, "failed to delete rso")
		return
	}
	response.NoContent(c)
}

// Join handles POST /rsos/:id/join.
func (h *Handler) Join(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rso id")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		response.Error(c, err, "failed to load rso")
		return
	}
	m, err := h.repo.Join(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		response.Error(c, err, "failed to join rso")
		return
	}
	response.Created(c, m)
}

// Leave handles DELETE /rsos/:id/leave.
func (h *Handler) Leave(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rso id")
		return
	}
	rso, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load rso")
		return
	}
	if err := h.repo.Leave(c.Request.Context(), middleware.CurrentUserID(c), rso); err != nil {
		response.Error(c, err, "failed to leave rso")
		return
	}
	response.NoContent(c)
}

// loadOwned loads the RSO from the path and checks the caller administers it
// (super admins pass). Writes the error response itself on failure.
func (h *Handler) loadOwned(c *gin.Context) (*models.Rso, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rso id")
		return nil, false
	}
	rso, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load rso")
		return nil, false
	}
	role, _ := c.MustGet(middleware.ContextUserRole).(string)
	if rso.AdminID != middleware.CurrentUserID(c) && role != string(models.RoleSuperAdmin) {
		response.Forbidden(c, "only the rso admin can manage this rso")
		return nil, false
	}
	return rso, true
}
