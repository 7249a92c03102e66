package asyncx

import (
	"context"
	"time"
)

// WithTimeout runs task with a deadline of d.
//
// If task settles first its outcome is returned. Otherwise WithTimeout returns
// an ErrTimeout error once d elapses; the task is orphaned: its context is
// cancelled and whatever it eventually returns is discarded. If ctx itself
// ends first, ctx.Err() is returned instead of a timeout. A non-positive d
// times out without starting the task.
func WithTimeout[T any](ctx context.Context, d time.Duration, task Task[T]) (T, error) {
	var zero T
	if d <= 0 {
		return zero, timeoutError(d)
	}

	tctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so an orphaned task can always deliver and exit.
	ch := make(chan Result[T], 1)
	go func() {
		v, err := SafeCall(tctx, task)
		ch <- Result[T]{Value: v, Err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case r := <-ch:
		return r.Value, r.Err
	case <-timer.C:
		return zero, timeoutError(d)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func timeoutError(d time.Duration) error {
	return asyncxErrors.New(ErrTimeout).WithDetail("timeout", d.String())
}
