package colleges

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/cascade"
	"github.com/campus-events/backend/internal/middleware"
	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/response"
)

// Request is the body for college create and update.
type Request struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Handler handles college HTTP endpoints. Create/update/delete are mounted
// behind the super_admin role gate.
type Handler struct {
	repo    *Repository
	cascade *cascade.Coordinator
	logger  *zap.Logger
}

// NewHandler creates a college handler.
func NewHandler(repo *Repository, cascade *cascade.Coordinator, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, cascade: cascade, logger: logger}
}

// List handles GET /colleges.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list colleges")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /colleges/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid college id")
		return
	}
	col, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load college")
		return
	}
	response.OK(c, col)
}

// Create handles POST /colleges (super admin).
func (h *Handler) Create(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	col := &models.College{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		CreatedBy:   middleware.CurrentUserID(c),
	}
	if err := h.repo.Create(c.Request.Context(), col); err != nil {
		h.logger.Error("create college", zap.Error(err))
		response.Internal(c, "failed to create college")
		return
	}
	response.Created(c, col)
}

// Update handles PUT /colleges/:id (super admin).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid college id")
		return
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.repo.Update(c.Request.Context(), id, req.Name, req.Location, req.Description); err != nil {
		response.Error(c, err, "failed to update college")
		return
	}
	col, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load college")
		return
	}
	response.OK(c, col)
}

// Delete handles DELETE /colleges/:id (super admin). The cascade removes every
// RSO, event, comment, rating, and membership under the college, and
// detaches affiliated users.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid college id")
		return
	}
	if err := h.cascade.DeleteCollege(c.Request.Context(), id); err != nil {
		response.Error(c, err, "failed to delete college")
		return
	}
	response.NoContent(c)
}
