// Package retry provides an executor that runs fallible operations with
// exponential backoff and externally observable retry progress.
//
// # Example Usage
//
//	executor := retry.NewExecutor(
//	    retry.WithMaxRetries(3),
//	    retry.WithRetryDelay(100*time.Millisecond),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return store.CreateTask(ctx, task)
//	})
//
// Typed results go through the generic helper:
//
//	task, err := retry.Do(ctx, executor, func(ctx context.Context) (*mauflow.Task, error) {
//	    return store.GetTask(ctx, id)
//	})
//
// # Observable State
//
// While a retry is pending, State() reports IsRetrying=true, the index of
// the attempt that just failed, and its error. UI layers poll this to render
// progress indicators. Reset() cancels a pending retry and zeroes the state.
//
// # Concurrency
//
// Execute is safe to call from multiple goroutines; each call runs its own
// strictly sequential attempt chain. The observable state record is shared
// across calls with last-write-wins semantics: the executor is built for a
// single in-flight logical operation, and concurrent use is supported at the
// result level only.
package retry
