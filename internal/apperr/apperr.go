// Package apperr defines the typed errors returned by the session engine and
// its collaborators.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can branch on the failure class
// without matching message strings.
type Kind string

const (
	// KindInvalidTransition marks an illegal edge for the session's
	// current state.
	KindInvalidTransition Kind = "invalid_state_transition"
	// KindAlreadyTerminal marks a stop or cancel attempted on a session
	// that is already COMPLETED or CANCELLED.
	KindAlreadyTerminal Kind = "already_terminal"
	// KindNotConvertible marks a conversion attempted outside COMPLETED.
	KindNotConvertible Kind = "not_convertible"
	// KindUnauthorized marks an operation by a principal that does not own
	// the session or lacks permission.
	KindUnauthorized Kind = "unauthorized"
	// KindNotFound marks a session or work log id that does not resolve.
	KindNotFound Kind = "not_found"
	// KindStorage marks a persistence-layer failure. It is the only class
	// eligible for caller-side retry.
	KindStorage Kind = "storage"
	// KindValidation marks rejected input, such as a classification
	// category that is not defined for the target project.
	KindValidation Kind = "validation"
)

// Error is an application error with a stable kind and a human-readable
// message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports kind equality so that errors.Is works against the package-level
// sentinel values each package declares.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return e.Kind == t.Kind
}

// Fmt returns a copy of the error with its message arguments applied.
func (e *Error) Fmt(args ...any) *Error {
	return &Error{
		Kind:    e.Kind,
		Message: fmt.Sprintf(e.Message, args...),
		Cause:   e.Cause,
	}
}

// Wrap returns a copy of the error with the underlying cause attached.
func (e *Error) Wrap(cause error) *Error {
	return &Error{
		Kind:    e.Kind,
		Message: e.Message,
		Cause:   cause,
	}
}

// KindOf extracts the kind from err, or the empty string if err is not an
// application error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}
