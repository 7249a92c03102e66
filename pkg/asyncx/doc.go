// Package asyncx provides the concurrency primitives the rest of asynckit is
// built on: futures, cancellable delays, deadlines, retries, bounded
// concurrency and call-rate limiters, all with first-class context support.
//
// Every unit of work is a [Task]: a func(ctx) (T, error). The context is the
// cancellation signal; tasks are expected to return once it is done.
//
// # Futures
//
// [Run] starts a task in a goroutine and returns a [Future]. [Future.Await]
// blocks until the task settles or the caller's context ends, and is safe to
// call from many goroutines. [NewPromise] returns an unsettled Future plus
// the function that settles it exactly once.
//
//	fut := asyncx.Run(ctx, func(ctx context.Context) (*User, error) {
//	    return repo.GetByID(ctx, id)
//	})
//
//	user, err := fut.Await(ctx)
//
// # Delay and Timeout
//
// [Delay] sleeps for a duration unless the context ends first.
//
// [WithTimeout] races a task against a deadline. When the deadline wins it
// returns an error for which [IsTimeout] is true; the task's context is
// cancelled and its eventual outcome is discarded.
//
//	data, err := asyncx.WithTimeout(ctx, 2*time.Second, func(ctx context.Context) (*Data, error) {
//	    return slowClient.Fetch(ctx)
//	})
//	if asyncx.IsTimeout(err) {
//	    // ...
//	}
//
// # Retry
//
// [Retry] calls a task up to n times with a wait between attempts and returns
// the first success. When every attempt fails the error satisfies
// [IsRetryExhausted] and wraps only the last failure.
//
//	data, err := asyncx.Retry(ctx, 3, 100*time.Millisecond, fetch,
//	    asyncx.WithBackoff(asyncx.ExponentialBackoff(100*time.Millisecond)),
//	    asyncx.WithMaxDelay(2*time.Second),
//	)
//
// [RetryWithBackoff] is shorthand for doubling waits.
//
// # Bounded Concurrency
//
// [RunConcurrent] runs a list of tasks with at most limit in flight and
// collects one [Result] per task, in input order. A failure never cancels
// siblings. [RunConcurrentFailFast] is the variant that stops at the first
// error. [Pool], [All], [AllSettled], [Map], [ForEach] and [Race] are
// shorthands built on the two runners.
//
//	results := asyncx.RunConcurrent(ctx, 4, tasks)
//	for i, r := range results {
//	    if !r.OK() {
//	        log.Printf("task %d: %v", i, r.Err)
//	    }
//	}
//
// [Slots] is the admission primitive behind the runners; queuex uses it too.
//
// # Rate Limiters
//
// A [Debouncer] delays a call until calls stop arriving for a quiet window
// and then runs it once with the last arguments. A [Throttler] runs the first
// call immediately and at most one trailing call per interval after that.
// [Debounce], [Throttle], [Debounced] and [Throttled] return plain functions.
//
//	save := asyncx.Debounce(500*time.Millisecond, func(doc Document) {
//	    index.Put(doc)
//	})
//
// # Panics
//
// A panicking task never crashes the process. [SafeCall] turns the panic into
// an error for which [IsPanic] is true.
package asyncx
