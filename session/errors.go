package session

import "github.com/ryz3006/alignzo/internal/apperr"

var (
	errInvalidTransition = &apperr.Error{
		Kind:    apperr.KindInvalidTransition,
		Message: "cannot %s a %s session",
	}

	errAlreadyTerminal = &apperr.Error{
		Kind:    apperr.KindAlreadyTerminal,
		Message: "session is already %s",
	}

	errUnauthorized = &apperr.Error{
		Kind:    apperr.KindUnauthorized,
		Message: "user %s is not permitted to modify this session",
	}

	errPermissionDenied = &apperr.Error{
		Kind:    apperr.KindUnauthorized,
		Message: "user %s lacks the %s permission on %s",
	}

	errUnknownCategory = &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "%s %q is not defined for project %s",
	}
)
