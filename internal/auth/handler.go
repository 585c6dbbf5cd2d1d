package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/response"
)

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=6"`
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Role      string  `json:"role"`       // optional, defaults to student
	CollegeID *string `json:"college_id"` // optional college affiliation
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo   *Repository
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, jwt *JWTService, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, jwt: jwt, logger: logger}
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	role := models.RoleStudent
	switch models.Role(req.Role) {
	case models.RoleAdmin:
		role = models.RoleAdmin
	case models.RoleSuperAdmin:
		role = models.RoleSuperAdmin
	case models.RoleStudent, "":
	default:
		response.BadRequest(c, "unknown role")
		return
	}

	var collegeID *uuid.UUID
	if req.CollegeID != nil && *req.CollegeID != "" {
		id, err := uuid.Parse(*req.CollegeID)
		if err != nil {
			response.BadRequest(c, "invalid college_id")
			return
		}
		collegeID = &id
	}

	exists, err := h.repo.EmailExists(c.Request.Context(), req.Email)
	if err != nil {
		response.Internal(c, "failed to register")
		return
	}
	if exists {
		response.Conflict(c, "email already registered")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to register")
		return
	}

	u, err := h.repo.Create(c.Request.Context(), req.Email, hash, req.FirstName, req.LastName, role, collegeID)
	if err != nil {
		h.logger.Error("create user", zap.Error(err))
		response.Internal(c, "failed to register")
		return
	}

	token, err := h.jwt.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		response.Internal(c, "failed to issue token")
		return
	}
	response.Created(c, TokenResponse{Token: token, User: u.ToPublic()})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	u, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !CheckPassword(req.Password, u.Password) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	token, err := h.jwt.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		response.Internal(c, "failed to issue token")
		return
	}
	response.OK(c, TokenResponse{Token: token, User: u.ToPublic()})
}

// Search handles GET /users/search?email= for looking up users by email.
func (h *Handler) Search(c *gin.Context) {
	fragment := c.Query("email")
	if fragment == "" {
		response.BadRequest(c, "email query parameter required")
		return
	}
	list, err := h.repo.SearchByEmail(c.Request.Context(), fragment)
	if err != nil {
		response.Internal(c, "failed to search users")
		return
	}
	response.OK(c, list)
}
