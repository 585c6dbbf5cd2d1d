package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("event")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("nope")))
	assert.Equal(t, KindConflict, KindOf(Conflict("taken")))
	assert.Equal(t, KindIntegrity, KindOf(Integrity("delete college", errors.New("boom"))))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(0), KindOf(nil))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("loading event: %w", NotFound("event"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindConflict))
}

func TestIntegrityUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Integrity("delete rso", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "delete rso")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "rso not found", NotFound("rso").Error())
}
