// Package apperr defines the typed failures the core returns to callers.
// None of these are transient: they are deterministic outcomes of policy or
// missing data and must never be retried automatically.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the HTTP edge to map to a status code.
type Kind int

const (
	// KindNotFound means a referenced entity is absent.
	KindNotFound Kind = iota + 1
	// KindForbidden means a visibility or mutation check failed.
	KindForbidden
	// KindConflict means a uniqueness or membership precondition failed.
	KindConflict
	// KindIntegrity means a cascade step failed partway; the whole unit of
	// work must roll back and the failure is an invariant-violation candidate.
	KindIntegrity
)

// Error is a typed application failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound returns a not-found failure for the named entity.
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Msg: entity + " not found"}
}

// Forbidden returns a policy-denial failure.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

// Conflict returns a precondition-conflict failure.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// Integrity wraps a cascade step failure.
func Integrity(step string, err error) *Error {
	return &Error{Kind: KindIntegrity, Msg: fmt.Sprintf("integrity: %s", step), Err: err}
}

// KindOf returns the Kind of err, or 0 if err is not an application error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

// Is reports whether err is an application error of the given kind.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }
