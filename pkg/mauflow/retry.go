package mauflow

import "time"

// RetryState is the externally observable progress of a retry executor.
// It is a snapshot: reading it never blocks an in-flight attempt.
type RetryState struct {
	// IsRetrying is true while a delayed retry is scheduled and has neither
	// fired nor been cancelled.
	IsRetrying bool

	// RetryCount is the 1-based index of the most recently failed attempt,
	// or 0 after success or reset. Never exceeds the configured maximum
	// number of attempts.
	RetryCount int

	// LastError is the most recent attempt failure, or nil.
	LastError error
}

// BackoffStrategy calculates the delay before a retry attempt.
type BackoffStrategy interface {
	// Delay returns the duration to wait before the next attempt.
	// attempt is 1-based: Delay(1) is the wait after the first failure.
	Delay(attempt int) time.Duration
}

// RetryStateReader exposes retry progress to UI layers (spinners, status
// lines) without granting them control over the executor.
type RetryStateReader interface {
	State() RetryState
}
