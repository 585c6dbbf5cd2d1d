package events

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/cascade"
	"github.com/campus-events/backend/internal/middleware"
	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/apperr"
	"github.com/campus-events/backend/pkg/response"
)

const dateLayout = "2006-01-02"

// LocationSource supplies venue details for event responses.
type LocationSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
}

// CollegeSource validates college references on creation.
type CollegeSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.College, error)
}

// CommentCounter supplies per-event comment counts.
type CommentCounter interface {
	CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error)
}

// RatingSource supplies per-event rating aggregates.
type RatingSource interface {
	Summary(ctx context.Context, eventID uuid.UUID) (*models.RatingSummary, error)
}

// MembershipChecker gates RSO event creation on membership.
type MembershipChecker interface {
	Exists(ctx context.Context, userID, rsoID uuid.UUID) (bool, error)
}

// CreateRequest is the body for POST /events.
type CreateRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Date         string  `json:"date" binding:"required"`
	Time         string  `json:"time" binding:"required"`
	LocationID   string  `json:"location_id" binding:"required,uuid"`
	CollegeID    string  `json:"college_id" binding:"required,uuid"`
	EventType    string  `json:"event_type" binding:"required"`
	ContactPhone string  `json:"contact_phone"`
	ContactEmail string  `json:"contact_email"`
	RsoID        *string `json:"rso_id"` // required when event_type is rso
}

// UpdateRequest is the body for PUT /events/:id. Nil fields are unchanged.
type UpdateRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Date         *string `json:"date"`
	Time         *string `json:"time"`
	LocationID   *string `json:"location_id"`
	ContactPhone *string `json:"contact_phone"`
	ContactEmail *string `json:"contact_email"`
}

// Response is an event enriched with its venue, aggregates, and approval
// state (public events only).
type Response struct {
	models.Event
	Location      *models.Location `json:"location,omitempty"`
	AverageRating float64          `json:"average_rating"`
	CommentCount  int              `json:"comment_count"`
	Approved      *bool            `json:"approved,omitempty"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo        *Repository
	access      *Access
	cascade     *cascade.Coordinator
	users       middleware.UserLoader
	locations   LocationSource
	colleges    CollegeSource
	comments    CommentCounter
	ratings     RatingSource
	memberships MembershipChecker
	logger      *zap.Logger
}

// NewHandler creates an events handler.
func NewHandler(repo *Repository, access *Access, cascade *cascade.Coordinator, users middleware.UserLoader,
	locations LocationSource, colleges CollegeSource, comments CommentCounter, ratings RatingSource,
	memberships MembershipChecker, logger *zap.Logger) *Handler {
	return &Handler{
		repo:        repo,
		access:      access,
		cascade:     cascade,
		users:       users,
		locations:   locations,
		colleges:    colleges,
		comments:    comments,
		ratings:     ratings,
		memberships: memberships,
		logger:      logger,
	}
}

func (h *Handler) toResponse(ctx context.Context, e *models.Event) (*Response, error) {
	resp := &Response{Event: *e}
	loc, err := h.locations.GetByID(ctx, e.LocationID)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	resp.Location = loc
	summary, err := h.ratings.Summary(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	resp.AverageRating = summary.Average
	count, err := h.comments.CountByEvent(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	resp.CommentCount = count
	if e.EventType == models.EventTypePublic {
		v, err := h.repo.GetVariant(ctx, e)
		if err != nil {
			return nil, err
		}
		if v.Public != nil {
			resp.Approved = &v.Public.Approved
		}
	}
	return resp, nil
}

func (h *Handler) toResponses(ctx context.Context, list []models.Event) ([]Response, error) {
	out := make([]Response, 0, len(list))
	for i := range list {
		r, err := h.toResponse(ctx, &list[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// Create handles POST /events. The base row and its variant are persisted as
// one transaction; RSO events additionally require the creator to be a member
// of the hosting RSO.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	eventType := models.EventType(req.EventType)
	switch eventType {
	case models.EventTypePublic, models.EventTypePrivate, models.EventTypeRso:
	default:
		response.BadRequest(c, "unknown event type")
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		response.BadRequest(c, "invalid date, expected YYYY-MM-DD")
		return
	}
	locationID, _ := uuid.Parse(req.LocationID)
	collegeID, _ := uuid.Parse(req.CollegeID)

	ctx := c.Request.Context()
	identity, err := middleware.CurrentIdentity(c, h.users)
	if err != nil {
		response.Error(c, err, "failed to load user")
		return
	}
	if _, err := h.colleges.GetByID(ctx, collegeID); err != nil {
		response.Error(c, err, "failed to resolve college")
		return
	}
	if _, err := h.locations.GetByID(ctx, locationID); err != nil {
		response.Error(c, err, "failed to resolve location")
		return
	}

	var rsoID *uuid.UUID
	if eventType == models.EventTypeRso {
		if req.RsoID == nil {
			response.BadRequest(c, "rso_id is required for rso events")
			return
		}
		id, err := uuid.Parse(*req.RsoID)
		if err != nil {
			response.BadRequest(c, "invalid rso_id")
			return
		}
		member, err := h.memberships.Exists(ctx, identity.UserID, id)
		if err != nil {
			response.Internal(c, "failed to check membership")
			return
		}
		if !member && !identity.IsSuperAdmin() {
			response.Forbidden(c, "only rso members can create rso events")
			return
		}
		rsoID = &id
	}

	e := &models.Event{
		Name:         req.Name,
		Description:  req.Description,
		Date:         date,
		Time:         req.Time,
		LocationID:   locationID,
		CollegeID:    collegeID,
		CreatedBy:    identity.UserID,
		EventType:    eventType,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
	}
	if err := h.repo.Create(ctx, e, rsoID, identity); err != nil {
		h.logger.Error("create event", zap.Error(err))
		response.Error(c, err, "failed to create event")
		return
	}
	resp, err := h.toResponse(ctx, e)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	response.Created(c, resp)
}

// GetByID handles GET /events/:id. Denied visibility is a 403, not a 404:
// event IDs are not secret, their contents are.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	ctx := c.Request.Context()
	identity, err := middleware.CurrentIdentity(c, h.users)
	if err != nil {
		response.Error(c, err, "failed to load user")
		return
	}
	e, err := h.repo.GetByID(ctx, id)
	if err != nil {
		response.Error(c, err, "failed to load event")
		return
	}
	ok, err := h.access.CanView(ctx, identity, e)
	if err != nil {
		response.Error(c, err, "failed to check access")
		return
	}
	if !ok {
		response.Forbidden(c, "you do not have permission to view this event")
		return
	}
	resp, err := h.toResponse(ctx, e)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	response.OK(c, resp)
}

// List handles GET /events with optional type, college_id, rso_id, from, and
// to query filters. Results are visibility-filtered for the caller.
func (h *Handler) List(c *gin.Context) {
	var f Filter
	if t := c.Query("type"); t != "" {
		f.Type = models.EventType(t)
	}
	if s := c.Query("college_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "invalid college_id")
			return
		}
		f.CollegeID = &id
	}
	if s := c.Query("rso_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "invalid rso_id")
			return
		}
		f.RsoID = &id
	}
	for _, q := range []struct {
		name string
		dest **time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		if s := c.Query(q.name); s != "" {
			t, err := time.Parse(dateLayout, s)
			if err != nil {
				response.BadRequest(c, "invalid "+q.name+" date, expected YYYY-MM-DD")
				return
			}
			*q.dest = &t
		}
	}

	ctx := c.Request.Context()
	identity, err := middleware.CurrentIdentity(c, h.users)
	if err != nil {
		response.Error(c, err, "failed to load user")
		return
	}
	list, err := h.repo.List(ctx, f)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	visible, err := h.access.FilterViewable(ctx, identity, list)
	if err != nil {
		response.Internal(c, "failed to filter events")
		return
	}
	out, err := h.toResponses(ctx, visible)
	if err != nil {
		response.Internal(c, "failed to load events")
		return
	}
	response.OK(c, out)
}

// Update handles PUT /events/:id (creator, super admin, or hosting RSO
// admin).
func (h *Handler) Update(c *gin.Context) {
	e, _, ok := h.mutableEvent(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ctx := c.Request.Context()

	var date *time.Time
	if req.Date != nil {
		t, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			response.BadRequest(c, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = &t
	}
	var locationID *uuid.UUID
	if req.LocationID != nil {
		id, err := uuid.Parse(*req.LocationID)
		if err != nil {
			response.BadRequest(c, "invalid location_id")
			return
		}
		if _, err := h.locations.GetByID(ctx, id); err != nil {
			response.Error(c, err, "failed to resolve location")
			return
		}
		locationID = &id
	}

	if err := h.repo.Update(ctx, e.ID, req.Name, req.Description, req.Time, req.ContactPhone, req.ContactEmail, date, locationID); err != nil {
		response.Error(c, err, "failed to update event")
		return
	}
	updated, err := h.repo.GetByID(ctx, e.ID)
	if err != nil {
		response.Error(c, err, "failed to load event")
		return
	}
	resp, err := h.toResponse(ctx, updated)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	response.OK(c, resp)
}

// Delete handles DELETE /events/:id (creator, super admin, or hosting RSO
// admin). The cascade removes the variant row, comments, and ratings with
// the event.
func (h *Handler) Delete(c *gin.Context) {
	e, _, ok := h.mutableEvent(c)
	if !ok {
		return
	}
	if err := h.cascade.DeleteEvent(c.Request.Context(), e.ID); err != nil {
		response.Error(c, err, "failed to delete event")
		return
	}
	response.NoContent(c)
}

// PendingPublic handles GET /superadmin/public-events/pending. This is the
// reviewers' queue, so it skips the per-event visibility check.
func (h *Handler) PendingPublic(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := h.repo.PendingPublic(ctx)
	if err != nil {
		response.Internal(c, "failed to list pending events")
		return
	}
	out, err := h.toResponses(ctx, list)
	if err != nil {
		response.Internal(c, "failed to load events")
		return
	}
	response.OK(c, out)
}

// Approve handles PUT /superadmin/public-events/:id/approve. Approving an
// already-approved event re-stamps the approver without error.
func (h *Handler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	ctx := c.Request.Context()
	if err := h.repo.Approve(ctx, id, middleware.CurrentUserID(c)); err != nil {
		response.Error(c, err, "failed to approve event")
		return
	}
	e, err := h.repo.GetByID(ctx, id)
	if err != nil {
		response.Error(c, err, "failed to load event")
		return
	}
	resp, err := h.toResponse(ctx, e)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	response.OK(c, resp)
}

// Reject handles DELETE /superadmin/public-events/:id/reject. Rejection is
// terminal: the event and its variant are removed, along with any dependents,
// through the cascade.
func (h *Handler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	ctx := c.Request.Context()
	e, err := h.repo.GetByID(ctx, id)
	if err != nil {
		response.Error(c, err, "failed to load event")
		return
	}
	if e.EventType != models.EventTypePublic {
		response.Conflict(c, "only public events go through approval")
		return
	}
	v, err := h.repo.GetVariant(ctx, e)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	if v.Public != nil && v.Public.Approved {
		response.Conflict(c, "event is already approved")
		return
	}
	if err := h.cascade.DeleteEvent(ctx, id); err != nil {
		response.Error(c, err, "failed to reject event")
		return
	}
	response.NoContent(c)
}

// mutableEvent loads the event from :id and checks the caller may mutate it.
func (h *Handler) mutableEvent(c *gin.Context) (*models.Event, models.Identity, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return nil, models.Identity{}, false
	}
	ctx := c.Request.Context()
	identity, err := middleware.CurrentIdentity(c, h.users)
	if err != nil {
		response.Error(c, err, "failed to load user")
		return nil, models.Identity{}, false
	}
	e, err := h.repo.GetByID(ctx, id)
	if err != nil {
		response.Error(c, err, "failed to load event")
		return nil, models.Identity{}, false
	}
	ok, err := h.access.CanMutate(ctx, identity, e)
	if err != nil {
		response.Error(c, err, "failed to check access")
		return nil, models.Identity{}, false
	}
	if !ok {
		response.Forbidden(c, "you do not have permission to modify this event")
		return nil, models.Identity{}, false
	}
	return e, identity, true
}
