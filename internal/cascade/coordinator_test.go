package cascade

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/apperr"
)

type fakeEvent struct {
	collegeID uuid.UUID
	typ       models.EventType
	rsoID     uuid.UUID // zero unless typ is rso
}

// fakeState is an in-memory snapshot of every table the cascade touches.
type fakeState struct {
	colleges       map[uuid.UUID]bool
	rsos           map[uuid.UUID]uuid.UUID // rso -> college
	memberships    map[uuid.UUID]int       // rso -> member count
	events         map[uuid.UUID]fakeEvent
	variants       map[uuid.UUID]models.EventType
	comments       map[uuid.UUID]int // event -> comment count
	ratings        map[uuid.UUID]int // event -> rating count
	usersByCollege map[uuid.UUID]int
}

func newFakeState() *fakeState {
	return &fakeState{
		colleges:       map[uuid.UUID]bool{},
		rsos:           map[uuid.UUID]uuid.UUID{},
		memberships:    map[uuid.UUID]int{},
		events:         map[uuid.UUID]fakeEvent{},
		variants:       map[uuid.UUID]models.EventType{},
		comments:       map[uuid.UUID]int{},
		ratings:        map[uuid.UUID]int{},
		usersByCollege: map[uuid.UUID]int{},
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	for k, v := range s.colleges {
		c.colleges[k] = v
	}
	for k, v := range s.rsos {
		c.rsos[k] = v
	}
	for k, v := range s.memberships {
		c.memberships[k] = v
	}
	for k, v := range s.events {
		c.events[k] = v
	}
	for k, v := range s.variants {
		c.variants[k] = v
	}
	for k, v := range s.comments {
		c.comments[k] = v
	}
	for k, v := range s.ratings {
		c.ratings[k] = v
	}
	for k, v := range s.usersByCollege {
		c.usersByCollege[k] = v
	}
	return c
}

// fakeStore mutates a fakeState and records every write in order. failOn
// makes the named operation fail, to exercise rollback.
type fakeStore struct {
	state  *fakeState
	log    *[]string
	failOn string
}

var errBoom = errors.New("boom")

func (f *fakeStore) step(op string) error {
	*f.log = append(*f.log, op)
	if op == f.failOn {
		return errBoom
	}
	return nil
}

func (f *fakeStore) CollegeExists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.state.colleges[id], nil
}

func (f *fakeStore) RsoIDsByCollege(_ context.Context, collegeID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for rsoID, cID := range f.state.rsos {
		if cID == collegeID {
			ids = append(ids, rsoID)
		}
	}
	return ids, nil
}

func (f *fakeStore) RsoExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.state.rsos[id]
	return ok, nil
}

func (f *fakeStore) EventIDsByRso(_ context.Context, rsoID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for eventID, e := range f.state.events {
		if e.typ == models.EventTypeRso && e.rsoID == rsoID {
			ids = append(ids, eventID)
		}
	}
	return ids, nil
}

func (f *fakeStore) EventTypesByCollege(_ context.Context, collegeID uuid.UUID) (map[uuid.UUID]models.EventType, error) {
	types := map[uuid.UUID]models.EventType{}
	for eventID, e := range f.state.events {
		if e.collegeID == collegeID {
			types[eventID] = e.typ
		}
	}
	return types, nil
}

func (f *fakeStore) EventTypeOf(_ context.Context, eventID uuid.UUID) (models.EventType, bool, error) {
	e, ok := f.state.events[eventID]
	return e.typ, ok, nil
}

func (f *fakeStore) DeleteCommentsByEvent(_ context.Context, eventID uuid.UUID) error {
	delete(f.state.comments, eventID)
	return f.step("comments:" + eventID.String())
}

func (f *fakeStore) DeleteRatingsByEvent(_ context.Context, eventID uuid.UUID) error {
	delete(f.state.ratings, eventID)
	return f.step("ratings:" + eventID.String())
}

func (f *fakeStore) DeleteVariant(_ context.Context, eventID uuid.UUID, _ models.EventType) error {
	delete(f.state.variants, eventID)
	return f.step("variant:" + eventID.String())
}

func (f *fakeStore) DeleteEvent(_ context.Context, eventID uuid.UUID) error {
	delete(f.state.events, eventID)
	return f.step("event:" + eventID.String())
}

func (f *fakeStore) DeleteMembershipsByRso(_ context.Context, rsoID uuid.UUID) error {
	delete(f.state.memberships, rsoID)
	return f.step("memberships:" + rsoID.String())
}

func (f *fakeStore) DeleteRso(_ context.Context, rsoID uuid.UUID) error {
	delete(f.state.rsos, rsoID)
	return f.step("rso:" + rsoID.String())
}

func (f *fakeStore) DetachUsersFromCollege(_ context.Context, collegeID uuid.UUID) error {
	delete(f.state.usersByCollege, collegeID)
	return f.step("detach:" + collegeID.String())
}

func (f *fakeStore) DeleteCollege(_ context.Context, collegeID uuid.UUID) error {
	delete(f.state.colleges, collegeID)
	return f.step("college:" + collegeID.String())
}

// fakeRunner applies fn to a working copy and commits it only on success,
// mirroring transactional rollback.
type fakeRunner struct {
	state  *fakeState
	log    []string
	failOn string
}

func (r *fakeRunner) InTx(_ context.Context, fn func(Store) error) error {
	working := r.state.clone()
	r.log = nil
	err := fn(&fakeStore{state: working, log: &r.log, failOn: r.failOn})
	if err != nil {
		return err
	}
	r.state = working
	return nil
}

func indexOf(log []string, entry string) int {
	for i, e := range log {
		if e == entry {
			return i
		}
	}
	return -1
}

type fixture struct {
	collegeID    uuid.UUID
	rsoID        uuid.UUID
	rsoEventID   uuid.UUID
	publicID     uuid.UUID
	privateID    uuid.UUID
	otherEventID uuid.UUID // event under another college, must survive
	state        *fakeState
}

// newFixture builds a college with one RSO (which hosts one event), one
// public and one private event, affiliated users, and an unrelated college
// with its own event.
func newFixture() fixture {
	f := fixture{
		collegeID:    uuid.New(),
		rsoID:        uuid.New(),
		rsoEventID:   uuid.New(),
		publicID:     uuid.New(),
		privateID:    uuid.New(),
		otherEventID: uuid.New(),
		state:        newFakeState(),
	}
	otherCollegeID := uuid.New()

	f.state.colleges[f.collegeID] = true
	f.state.colleges[otherCollegeID] = true
	f.state.rsos[f.rsoID] = f.collegeID
	f.state.memberships[f.rsoID] = 2
	f.state.usersByCollege[f.collegeID] = 3

	f.state.events[f.rsoEventID] = fakeEvent{collegeID: f.collegeID, typ: models.EventTypeRso, rsoID: f.rsoID}
	f.state.events[f.publicID] = fakeEvent{collegeID: f.collegeID, typ: models.EventTypePublic}
	f.state.events[f.privateID] = fakeEvent{collegeID: f.collegeID, typ: models.EventTypePrivate}
	f.state.events[f.otherEventID] = fakeEvent{collegeID: otherCollegeID, typ: models.EventTypePublic}
	for id := range f.state.events {
		f.state.variants[id] = f.state.events[id].typ
		f.state.comments[id] = 2
		f.state.ratings[id] = 2
	}
	return f
}

func TestDeleteEvent(t *testing.T) {
	f := newFixture()
	runner := &fakeRunner{state: f.state}
	c := NewCoordinator(runner, zap.NewNop())

	err := c.DeleteEvent(context.Background(), f.publicID)
	require.NoError(t, err)

	st := runner.state
	assert.NotContains(t, st.events, f.publicID)
	assert.NotContains(t, st.variants, f.publicID)
	assert.NotContains(t, st.comments, f.publicID)
	assert.NotContains(t, st.ratings, f.publicID)
	assert.Contains(t, st.events, f.rsoEventID, "other events must survive")

	// Dependents go before the event row.
	log := runner.log
	assert.Less(t, indexOf(log, "comments:"+f.publicID.String()), indexOf(log, "event:"+f.publicID.String()))
	assert.Less(t, indexOf(log, "ratings:"+f.publicID.String()), indexOf(log, "event:"+f.publicID.String()))
	assert.Less(t, indexOf(log, "variant:"+f.publicID.String()), indexOf(log, "event:"+f.publicID.String()))
}

func TestDeleteEventNotFound(t *testing.T) {
	f := newFixture()
	c := NewCoordinator(&fakeRunner{state: f.state}, zap.NewNop())

	err := c.DeleteEvent(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteRso(t *testing.T) {
	f := newFixture()
	runner := &fakeRunner{state: f.state}
	c := NewCoordinator(runner, zap.NewNop())

	err := c.DeleteRso(context.Background(), f.rsoID)
	require.NoError(t, err)

	st := runner.state
	assert.NotContains(t, st.rsos, f.rsoID)
	assert.NotContains(t, st.memberships, f.rsoID)
	assert.NotContains(t, st.events, f.rsoEventID)
	assert.Contains(t, st.events, f.publicID, "college events outside the rso must survive")

	// Hosted events and memberships go before the RSO row.
	log := runner.log
	assert.Less(t, indexOf(log, "event:"+f.rsoEventID.String()), indexOf(log, "rso:"+f.rsoID.String()))
	assert.Less(t, indexOf(log, "memberships:"+f.rsoID.String()), indexOf(log, "rso:"+f.rsoID.String()))
}

func TestDeleteRsoNotFound(t *testing.T) {
	f := newFixture()
	c := NewCoordinator(&fakeRunner{state: f.state}, zap.NewNop())

	err := c.DeleteRso(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteCollege(t *testing.T) {
	f := newFixture()
	runner := &fakeRunner{state: f.state}
	c := NewCoordinator(runner, zap.NewNop())

	err := c.DeleteCollege(context.Background(), f.collegeID)
	require.NoError(t, err)

	st := runner.state
	assert.NotContains(t, st.colleges, f.collegeID)
	assert.NotContains(t, st.rsos, f.rsoID)
	assert.NotContains(t, st.memberships, f.rsoID)
	for _, eventID := range []uuid.UUID{f.rsoEventID, f.publicID, f.privateID} {
		assert.NotContains(t, st.events, eventID)
		assert.NotContains(t, st.variants, eventID)
		assert.NotContains(t, st.comments, eventID)
		assert.NotContains(t, st.ratings, eventID)
	}
	assert.NotContains(t, st.usersByCollege, f.collegeID, "users detach from the college")
	assert.Contains(t, st.events, f.otherEventID, "other colleges are untouched")

	// RSO subtree first, then direct events, then detach, then the college.
	log := runner.log
	collegeIdx := indexOf(log, "college:"+f.collegeID.String())
	assert.Less(t, indexOf(log, "rso:"+f.rsoID.String()), collegeIdx)
	assert.Less(t, indexOf(log, "event:"+f.publicID.String()), collegeIdx)
	assert.Less(t, indexOf(log, "event:"+f.privateID.String()), collegeIdx)
	assert.Less(t, indexOf(log, "detach:"+f.collegeID.String()), collegeIdx)
	assert.Equal(t, collegeIdx, len(log)-1, "college row goes last")
}

func TestDeleteCollegeNotFound(t *testing.T) {
	f := newFixture()
	c := NewCoordinator(&fakeRunner{state: f.state}, zap.NewNop())

	err := c.DeleteCollege(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteCollegeRollsBackOnFailure(t *testing.T) {
	f := newFixture()
	runner := &fakeRunner{state: f.state, failOn: "memberships:" + f.rsoID.String()}
	c := NewCoordinator(runner, zap.NewNop())

	err := c.DeleteCollege(context.Background(), f.collegeID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindIntegrity))
	assert.ErrorIs(t, err, errBoom)

	// Nothing is half-deleted after rollback.
	st := runner.state
	assert.Contains(t, st.colleges, f.collegeID)
	assert.Contains(t, st.rsos, f.rsoID)
	assert.Contains(t, st.events, f.rsoEventID)
	assert.Contains(t, st.comments, f.rsoEventID)
	assert.Equal(t, 3, st.usersByCollege[f.collegeID])
}
