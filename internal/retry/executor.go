package retry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mauflow/mauflow/pkg/mauflow"
)

// ErrRetryAborted is returned by Execute when Reset cancels its pending
// scheduled retry. The attempt that was waiting never runs again.
var ErrRetryAborted = errors.New("retry aborted by reset")

// settings collects executor configuration before construction.
type settings struct {
	maxRetries  int
	retryDelay  time.Duration
	multiplier  float64
	maxDelay    time.Duration
	jitter      float64
	strategy    mauflow.BackoffStrategy
	onRetry     func(attempt int, err error)
	onExhausted func(err error)
	retryIf     func(err error) bool
}

// Option is a functional option for configuring an Executor.
type Option func(*settings)

// WithMaxRetries sets the total number of attempts permitted.
// The first try counts as attempt 1; WithMaxRetries(3) allows two retries.
func WithMaxRetries(n int) Option {
	return func(s *settings) { s.maxRetries = n }
}

// WithRetryDelay sets the base delay before the first retry.
func WithRetryDelay(d time.Duration) Option {
	return func(s *settings) { s.retryDelay = d }
}

// WithBackoffMultiplier sets the factor by which the delay grows between
// retries: the wait before retry n is retryDelay * multiplier^(n-1).
func WithBackoffMultiplier(m float64) Option {
	return func(s *settings) { s.multiplier = m }
}

// WithMaxDelay caps the backoff delay. Zero means no cap.
func WithMaxDelay(d time.Duration) Option {
	return func(s *settings) { s.maxDelay = d }
}

// WithJitter sets the jitter factor (0.0-1.0) applied to backoff delays.
func WithJitter(j float64) Option {
	return func(s *settings) { s.jitter = j }
}

// WithOnRetry sets a callback invoked synchronously right before each retry
// is scheduled. attempt is the 1-based index of the attempt that just failed.
func WithOnRetry(fn func(attempt int, err error)) Option {
	return func(s *settings) { s.onRetry = fn }
}

// WithOnExhausted sets a callback invoked once when the final permitted
// attempt fails.
func WithOnExhausted(fn func(err error)) Option {
	return func(s *settings) { s.onExhausted = fn }
}

// WithRetryIf sets a predicate deciding whether a failure is retried.
// By default every failure is retried until the budget is exhausted.
func WithRetryIf(fn func(err error) bool) Option {
	return func(s *settings) { s.retryIf = fn }
}

// WithBackoff replaces the default exponential strategy entirely.
// When set, WithRetryDelay, WithBackoffMultiplier, WithMaxDelay, and
// WithJitter are ignored.
func WithBackoff(strategy mauflow.BackoffStrategy) Option {
	return func(s *settings) { s.strategy = strategy }
}

// Executor runs operations with retry, exposing live progress via State().
//
// The executor never blocks a goroutine it does not own: backoff waits use a
// timer select, and Reset or context cancellation interrupts them. State
// mutations complete under the lock before any wait begins, so State() never
// observes a partially updated record.
type Executor struct {
	maxRetries  int
	strategy    mauflow.BackoffStrategy
	onRetry     func(attempt int, err error)
	onExhausted func(err error)
	retryIf     func(err error) bool

	// newTimer is replaced in tests to make backoff deterministic.
	newTimer func(d time.Duration) *time.Timer

	mu         sync.Mutex
	isRetrying bool
	retryCount int
	lastErr    error
	pending    chan struct{} // closed by Reset to cancel the scheduled retry
	generation uint64        // bumped by Reset; stale chains stop retrying
}

// NewExecutor creates an Executor with the given options.
// Defaults: 3 total attempts, 1s base delay, multiplier 2, no cap, no jitter.
func NewExecutor(opts ...Option) *Executor {
	s := settings{
		maxRetries: mauflow.DefaultMaxRetries,
		retryDelay: mauflow.DefaultRetryDelay,
		multiplier: mauflow.DefaultBackoffMultiplier,
	}
	for _, opt := range opts {
		opt(&s)
	}

	if s.maxRetries < 1 {
		s.maxRetries = 1
	}

	strategy := s.strategy
	if strategy == nil {
		strategy = NewExponentialBackoff(
			WithInitialDelay(s.retryDelay),
			WithMultiplier(s.multiplier),
			WithCap(s.maxDelay),
			WithJitterFactor(s.jitter),
		)
	}

	return &Executor{
		maxRetries:  s.maxRetries,
		strategy:    strategy,
		onRetry:     s.onRetry,
		onExhausted: s.onExhausted,
		retryIf:     s.retryIf,
		newTimer:    time.NewTimer,
	}
}

// Execute runs the operation, retrying failures with backoff until it
// succeeds, the attempt budget is exhausted, the context is cancelled, or
// Reset cancels the pending retry.
//
// Attempts within one call are strictly sequential: attempt k+1 is scheduled
// only after attempt k's failure is observed. A panic inside the operation
// is recovered and normalized to an error carrying the panic value's text,
// so LastError and the returned error are always error-shaped.
func (e *Executor) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	for attempt := 1; ; attempt++ {
		e.mu.Lock()
		gen := e.generation
		e.mu.Unlock()

		err := runAttempt(ctx, op)
		if err == nil {
			e.mu.Lock()
			e.isRetrying = false
			e.retryCount = 0
			e.lastErr = nil
			e.mu.Unlock()
			return nil
		}

		e.mu.Lock()
		// Reset may have fired while the attempt was running; a stale chain
		// must not write state or schedule retries over the zeroed record.
		if gen != e.generation {
			e.mu.Unlock()
			return ErrRetryAborted
		}
		e.lastErr = err

		if attempt >= e.maxRetries {
			e.isRetrying = false
			e.mu.Unlock()
			if e.onExhausted != nil {
				e.onExhausted(err)
			}
			return err
		}
		if e.retryIf != nil && !e.retryIf(err) {
			e.isRetrying = false
			e.mu.Unlock()
			return err
		}

		e.retryCount = attempt
		e.isRetrying = true
		cancel := make(chan struct{})
		e.pending = cancel // replaced, not accumulated
		e.mu.Unlock()

		if e.onRetry != nil {
			e.onRetry(attempt, err)
		}

		timer := e.newTimer(e.strategy.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			e.clearPending(cancel)
			return ctx.Err()
		case <-cancel:
			timer.Stop()
			return ErrRetryAborted
		case <-timer.C:
		}

		// Reset may have fired between the timer elapsing and this check;
		// a stale chain must not resurrect cancelled retries.
		e.mu.Lock()
		stale := gen != e.generation
		if !stale {
			// The scheduled retry has fired: no timer is outstanding and
			// IsRetrying drops until the next failure schedules one.
			if e.pending == cancel {
				e.pending = nil
			}
			e.isRetrying = false
		}
		e.mu.Unlock()
		if stale {
			return ErrRetryAborted
		}
	}
}

// Reset cancels any pending scheduled retry and restores the initial state.
// Idempotent: safe to call when no retry is pending. An attempt already in
// flight is not interrupted, but it will not schedule further retries.
func (e *Executor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.generation++
	if e.pending != nil {
		close(e.pending)
		e.pending = nil
	}
	e.isRetrying = false
	e.retryCount = 0
	e.lastErr = nil
}

// State returns a snapshot of the observable retry state.
func (e *Executor) State() mauflow.RetryState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return mauflow.RetryState{
		IsRetrying: e.isRetrying,
		RetryCount: e.retryCount,
		LastError:  e.lastErr,
	}
}

// clearPending drops the pending handle if it still belongs to this chain,
// so Reset after a context cancellation does not close a dead channel twice.
func (e *Executor) clearPending(own chan struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == own {
		e.pending = nil
	}
	e.isRetrying = false
}

// runAttempt invokes the operation, converting panics into errors. A panic
// value that is not an error becomes an error whose message is the value's
// text, preserving the original value for the caller.
func runAttempt(ctx context.Context, op func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = fmt.Errorf("operation panicked: %w", rerr)
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	return op(ctx)
}

// Do runs a typed operation through the executor, returning its result.
// The closure reuses the same captured arguments on every attempt.
func Do[T any](ctx context.Context, e *Executor, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := e.Execute(ctx, func(ctx context.Context) error {
		v, opErr := op(ctx)
		if opErr != nil {
			return opErr
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
