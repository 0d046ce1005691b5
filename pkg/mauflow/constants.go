package mauflow

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Operation completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to connect to database
	ExitInputError      = 12 // Comment or delegation failed validation
	ExitTransitionError = 13 // Delegation lifecycle violation
	ExitNotFound        = 14 // Task, delegation, or notification not found
)

const (
	// DefaultMaxRetries is the default total number of attempts permitted by
	// the retry executor (the first try counts as attempt 1).
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default base delay before the first retry.
	DefaultRetryDelay = 1 * time.Second

	// DefaultBackoffMultiplier is the default factor by which the retry
	// delay grows between attempts.
	DefaultBackoffMultiplier = 2.0

	// DefaultRetryMaxDelay caps the backoff delay for database connection
	// retries.
	DefaultRetryMaxDelay = 1 * time.Minute

	// MaxCommentLength is the maximum number of characters in a comment body.
	MaxCommentLength = 2000

	// MaxDelegationNoteLength is the maximum number of characters in a
	// delegation note.
	MaxDelegationNoteLength = 500
)
