package mauflow

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := delegator.Accept(ctx, id, user)
//	if errors.Is(err, mauflow.ErrInvalidTransition) {
//	    // Delegation was not in a state that allows accepting
//	}
var (
	// ErrInvalidInput indicates a comment, delegation, or configuration
	// failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition indicates a delegation state change that the
	// lifecycle does not permit.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrNotRecipient indicates a user other than the delegation recipient
	// attempted to resolve it.
	ErrNotRecipient = errors.New("only the delegation recipient may resolve it")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method
	// is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return ExitInputError
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNotRecipient):
		return ExitTransitionError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	}

	// Connection failures often surface as wrapped pgx errors
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
