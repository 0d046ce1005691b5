package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// flakyOperation fails a fixed number of times before succeeding.
type flakyOperation struct {
	invocations int
	failures    int
	err         error
}

func (f *flakyOperation) execute(ctx context.Context) error {
	f.invocations++
	if f.invocations <= f.failures {
		if f.err != nil {
			return f.err
		}
		return errors.New("transient failure")
	}
	return nil
}

// recordDelays replaces the executor's timer with one that fires immediately
// while recording the requested durations.
func recordDelays(e *Executor) *[]time.Duration {
	var delays []time.Duration
	e.newTimer = func(d time.Duration) *time.Timer {
		delays = append(delays, d)
		return time.NewTimer(0)
	}
	return &delays
}

func TestExecutor_SuccessOnFirstAttempt(t *testing.T) {
	executor := NewExecutor()
	op := &flakyOperation{failures: 0}

	err := executor.Execute(context.Background(), op.execute)

	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}
	if op.invocations != 1 {
		t.Errorf("Expected 1 invocation, got %d", op.invocations)
	}

	state := executor.State()
	if state.IsRetrying || state.RetryCount != 0 || state.LastError != nil {
		t.Errorf("Expected zero state after success, got %+v", state)
	}
}

func TestExecutor_SuccessAfterRetries(t *testing.T) {
	executor := NewExecutor(
		WithMaxRetries(5),
		WithRetryDelay(1*time.Millisecond),
	)
	op := &flakyOperation{failures: 2}

	err := executor.Execute(context.Background(), op.execute)

	if err != nil {
		t.Fatalf("Expected success after retries, got error: %v", err)
	}
	if op.invocations != 3 {
		t.Errorf("Expected 3 invocations, got %d", op.invocations)
	}

	state := executor.State()
	if state.RetryCount != 0 {
		t.Errorf("Expected RetryCount 0 after success, got %d", state.RetryCount)
	}
	if state.LastError != nil {
		t.Errorf("Expected nil LastError after success, got %v", state.LastError)
	}
}

func TestExecutor_ExhaustedRetries(t *testing.T) {
	persistentErr := errors.New("persistent failure")

	var exhaustedCalls int
	var exhaustedErr error
	executor := NewExecutor(
		WithMaxRetries(3),
		WithRetryDelay(1*time.Millisecond),
		WithOnExhausted(func(err error) {
			exhaustedCalls++
			exhaustedErr = err
		}),
	)

	op := &flakyOperation{failures: 999, err: persistentErr}

	err := executor.Execute(context.Background(), op.execute)

	if !errors.Is(err, persistentErr) {
		t.Fatalf("Expected persistent failure, got %v", err)
	}
	if op.invocations != 3 {
		t.Errorf("Expected exactly 3 invocations, got %d", op.invocations)
	}
	if exhaustedCalls != 1 {
		t.Errorf("Expected OnExhausted called once, got %d", exhaustedCalls)
	}
	if !errors.Is(exhaustedErr, persistentErr) {
		t.Errorf("Expected OnExhausted to receive the last error, got %v", exhaustedErr)
	}

	state := executor.State()
	if state.IsRetrying {
		t.Error("Expected IsRetrying false after exhaustion")
	}
	if !errors.Is(state.LastError, persistentErr) {
		t.Errorf("Expected LastError to hold the final failure, got %v", state.LastError)
	}
}

func TestExecutor_BackoffDelays(t *testing.T) {
	executor := NewExecutor(
		WithMaxRetries(4),
		WithRetryDelay(100*time.Millisecond),
		WithBackoffMultiplier(2),
	)
	delays := recordDelays(executor)

	op := &flakyOperation{failures: 999}
	_ = executor.Execute(context.Background(), op.execute)

	expected := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
	}
	if len(*delays) != len(expected) {
		t.Fatalf("Expected %d scheduled delays, got %d", len(expected), len(*delays))
	}
	for i, want := range expected {
		if (*delays)[i] != want {
			t.Errorf("Delay %d: expected %v, got %v", i, want, (*delays)[i])
		}
	}
}

func TestExecutor_OnRetryCallback(t *testing.T) {
	var attempts []int
	var retryErrors []error

	executor := NewExecutor(
		WithMaxRetries(5),
		WithRetryDelay(1*time.Millisecond),
		WithOnRetry(func(attempt int, err error) {
			attempts = append(attempts, attempt)
			retryErrors = append(retryErrors, err)
		}),
	)

	op := &flakyOperation{failures: 3}
	if err := executor.Execute(context.Background(), op.execute); err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}

	// One callback per failed-but-retriable attempt, 1-based
	expected := []int{1, 2, 3}
	if len(attempts) != len(expected) {
		t.Fatalf("Expected %d retry callbacks, got %d", len(expected), len(attempts))
	}
	for i, want := range expected {
		if attempts[i] != want {
			t.Errorf("Callback %d: expected attempt %d, got %d", i, want, attempts[i])
		}
		if retryErrors[i] == nil {
			t.Errorf("Callback %d: expected error, got nil", i)
		}
	}
}

func TestExecutor_ResetCancelsPendingRetry(t *testing.T) {
	var executor *Executor
	executor = NewExecutor(
		WithMaxRetries(3),
		WithRetryDelay(1*time.Hour), // would hang without cancellation
		WithOnRetry(func(attempt int, err error) {
			// The retry is scheduled at this point; cancel it.
			executor.Reset()
		}),
	)

	op := &flakyOperation{failures: 999}
	err := executor.Execute(context.Background(), op.execute)

	if !errors.Is(err, ErrRetryAborted) {
		t.Fatalf("Expected ErrRetryAborted, got %v", err)
	}
	if op.invocations != 1 {
		t.Errorf("Expected the cancelled retry not to run (1 invocation), got %d", op.invocations)
	}

	state := executor.State()
	if state.IsRetrying || state.RetryCount != 0 || state.LastError != nil {
		t.Errorf("Expected zero state after reset, got %+v", state)
	}
}

func TestExecutor_ResetDuringInFlightAttempt(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	executor := NewExecutor(
		WithMaxRetries(3),
		WithRetryDelay(1*time.Millisecond),
	)

	invocations := 0
	done := make(chan error, 1)
	go func() {
		done <- executor.Execute(context.Background(), func(ctx context.Context) error {
			invocations++
			if invocations == 1 {
				close(started)
				<-release
			}
			return errors.New("transient failure")
		})
	}()

	// Reset lands while attempt 1 is still running; its failure must not
	// resurrect the zeroed state or schedule attempt 2.
	<-started
	executor.Reset()
	close(release)

	if err := <-done; !errors.Is(err, ErrRetryAborted) {
		t.Fatalf("Expected ErrRetryAborted, got %v", err)
	}
	if invocations != 1 {
		t.Errorf("Expected the reset chain not to retry (1 invocation), got %d", invocations)
	}

	state := executor.State()
	if state.IsRetrying || state.RetryCount != 0 || state.LastError != nil {
		t.Errorf("Expected zero state after reset, got %+v", state)
	}
}

func TestExecutor_ResetIdempotent(t *testing.T) {
	executor := NewExecutor()
	executor.Reset()
	executor.Reset() // no pending timer either time

	state := executor.State()
	if state.IsRetrying || state.RetryCount != 0 || state.LastError != nil {
		t.Errorf("Expected zero state, got %+v", state)
	}
}

func TestExecutor_StateWhileRetryPending(t *testing.T) {
	retryScheduled := make(chan struct{})
	executor := NewExecutor(
		WithMaxRetries(2),
		WithRetryDelay(1*time.Hour),
		WithOnRetry(func(attempt int, err error) {
			close(retryScheduled)
		}),
	)

	done := make(chan error, 1)
	op := &flakyOperation{failures: 999}
	go func() {
		done <- executor.Execute(context.Background(), op.execute)
	}()

	<-retryScheduled

	state := executor.State()
	if !state.IsRetrying {
		t.Error("Expected IsRetrying true while retry is pending")
	}
	if state.RetryCount != 1 {
		t.Errorf("Expected RetryCount 1, got %d", state.RetryCount)
	}
	if state.LastError == nil {
		t.Error("Expected LastError set while retry is pending")
	}

	executor.Reset()
	if err := <-done; !errors.Is(err, ErrRetryAborted) {
		t.Fatalf("Expected ErrRetryAborted after reset, got %v", err)
	}
}

func TestExecutor_PanicNormalizedToError(t *testing.T) {
	executor := NewExecutor(WithMaxRetries(1))

	err := executor.Execute(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})

	if err == nil {
		t.Fatal("Expected error from panicking operation, got nil")
	}
	if err.Error() != "boom" {
		t.Errorf("Expected panic value preserved as message, got %q", err.Error())
	}

	state := executor.State()
	if state.LastError == nil || state.LastError.Error() != "boom" {
		t.Errorf("Expected LastError message %q, got %v", "boom", state.LastError)
	}
}

func TestExecutor_PanicWithErrorValueWrapped(t *testing.T) {
	executor := NewExecutor(WithMaxRetries(1))
	cause := errors.New("underlying")

	err := executor.Execute(context.Background(), func(ctx context.Context) error {
		panic(cause)
	})

	if !errors.Is(err, cause) {
		t.Errorf("Expected wrapped panic error, got %v", err)
	}
}

func TestExecutor_RetryIfStopsFatalErrors(t *testing.T) {
	fatal := errors.New("fatal")

	var exhaustedCalls int
	executor := NewExecutor(
		WithMaxRetries(5),
		WithRetryDelay(1*time.Millisecond),
		WithRetryIf(func(err error) bool { return false }),
		WithOnExhausted(func(err error) { exhaustedCalls++ }),
	)

	op := &flakyOperation{failures: 999, err: fatal}
	err := executor.Execute(context.Background(), op.execute)

	if !errors.Is(err, fatal) {
		t.Fatalf("Expected fatal error, got %v", err)
	}
	if op.invocations != 1 {
		t.Errorf("Expected 1 invocation (no retries for fatal error), got %d", op.invocations)
	}
	if exhaustedCalls != 0 {
		t.Errorf("Expected OnExhausted not called (budget not exhausted), got %d calls", exhaustedCalls)
	}
}

func TestExecutor_ContextCancellationDuringBackoff(t *testing.T) {
	executor := NewExecutor(
		WithMaxRetries(10),
		WithRetryDelay(1*time.Hour),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	op := &flakyOperation{failures: 999}
	err := executor.Execute(ctx, op.execute)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if op.invocations != 1 {
		t.Errorf("Expected 1 invocation before cancellation, got %d", op.invocations)
	}
}

func TestDo_TwoFailuresThenSuccess(t *testing.T) {
	executor := NewExecutor(
		WithMaxRetries(3),
		WithRetryDelay(100*time.Millisecond),
		WithBackoffMultiplier(2),
	)
	delays := recordDelays(executor)

	invocations := 0
	result, err := Do(context.Background(), executor, func(ctx context.Context) (string, error) {
		invocations++
		if invocations <= 2 {
			return "", errors.New("transient failure")
		}
		return "success", nil
	})

	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}
	if result != "success" {
		t.Errorf("Expected result %q, got %q", "success", result)
	}
	if invocations != 3 {
		t.Errorf("Expected 3 invocations, got %d", invocations)
	}

	// Two retries scheduled: 100ms then 200ms
	expected := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	if len(*delays) != len(expected) {
		t.Fatalf("Expected %d delays, got %d", len(expected), len(*delays))
	}
	for i, want := range expected {
		if (*delays)[i] != want {
			t.Errorf("Delay %d: expected %v, got %v", i, want, (*delays)[i])
		}
	}
}

func TestDo_PersistentFailure(t *testing.T) {
	persistentErr := errors.New("Persistent failure")

	var exhaustedCalls int
	executor := NewExecutor(
		WithMaxRetries(2),
		WithRetryDelay(1*time.Millisecond),
		WithOnExhausted(func(err error) { exhaustedCalls++ }),
	)

	invocations := 0
	result, err := Do(context.Background(), executor, func(ctx context.Context) (string, error) {
		invocations++
		return "ignored", persistentErr
	})

	if !errors.Is(err, persistentErr) {
		t.Fatalf("Expected persistent failure, got %v", err)
	}
	if result != "" {
		t.Errorf("Expected zero value result on failure, got %q", result)
	}
	if invocations != 2 {
		t.Errorf("Expected exactly 2 invocations, got %d", invocations)
	}
	if exhaustedCalls != 1 {
		t.Errorf("Expected OnExhausted called once, got %d", exhaustedCalls)
	}
}
