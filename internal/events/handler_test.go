package events

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/apperr"
)

type fakeLocations struct {
	loc *models.Location
	err error
}

func (f *fakeLocations) GetByID(context.Context, uuid.UUID) (*models.Location, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.loc, nil
}

type fakeCounter struct{ n int }

func (f *fakeCounter) CountByEvent(context.Context, uuid.UUID) (int, error) { return f.n, nil }

type fakeRatings struct{ avg float64 }

func (f *fakeRatings) Summary(_ context.Context, eventID uuid.UUID) (*models.RatingSummary, error) {
	return &models.RatingSummary{EventID: eventID, Average: f.avg, Count: 1}, nil
}

func TestToResponseHydrates(t *testing.T) {
	loc := &models.Location{ID: uuid.New(), Name: "Student Union"}
	h := &Handler{
		locations: &fakeLocations{loc: loc},
		comments:  &fakeCounter{n: 4},
		ratings:   &fakeRatings{avg: 3.5},
	}
	e := &models.Event{ID: uuid.New(), EventType: models.EventTypePrivate, LocationID: loc.ID}

	resp, err := h.toResponse(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, loc, resp.Location)
	assert.Equal(t, 3.5, resp.AverageRating)
	assert.Equal(t, 4, resp.CommentCount)
	assert.Nil(t, resp.Approved)
}

func TestToResponseMissingLocation(t *testing.T) {
	h := &Handler{
		locations: &fakeLocations{err: apperr.NotFound("location")},
		comments:  &fakeCounter{},
		ratings:   &fakeRatings{},
	}
	e := &models.Event{ID: uuid.New(), EventType: models.EventTypePrivate, LocationID: uuid.New()}

	resp, err := h.toResponse(context.Background(), e)
	require.NoError(t, err)
	assert.Nil(t, resp.Location)
}

func TestToResponsePropagatesLocationFailure(t *testing.T) {
	boom := errors.New("connection refused")
	h := &Handler{
		locations: &fakeLocations{err: boom},
		comments:  &fakeCounter{},
		ratings:   &fakeRatings{},
	}
	e := &models.Event{ID: uuid.New(), EventType: models.EventTypePrivate, LocationID: uuid.New()}

	_, err := h.toResponse(context.Background(), e)
	assert.ErrorIs(t, err, boom)
}
