package asyncx

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
)

// Task is a unit of asynchronous work. The context carries cancellation;
// well-behaved tasks return promptly once it is done.
type Task[T any] = func(ctx context.Context) (T, error)

// Result holds the outcome of a single settled task.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the result carries no error.
func (r Result[T]) OK() bool { return r.Err == nil }

// SafeCall invokes task, converting a panic into an ErrTaskPanicked error.
func SafeCall[T any](ctx context.Context, task Task[T]) (v T, err error) {
	if task == nil {
		return v, asyncxErrors.New(ErrInvalidTask)
	}
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v = zero
			err = asyncxErrors.New(ErrTaskPanicked).
				WithDetail("panic", fmt.Sprint(r)).
				WithDetail("stack", string(debug.Stack()))
		}
	}()
	return task(ctx)
}

// Future is a value that becomes available once, later.
// Create one with Run or NewPromise and read it with Await.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	res  Result[T]
}

// NewPromise returns an unsettled Future and the function that settles it.
// Only the first call to settle has an effect; it reports whether it won.
func NewPromise[T any]() (*Future[T], func(T, error) bool) {
	f := &Future[T]{done: make(chan struct{})}
	return f, f.settle
}

func (f *Future[T]) settle(v T, err error) bool {
	won := false
	f.once.Do(func() {
		f.res = Result[T]{Value: v, Err: err}
		close(f.done)
		won = true
	})
	return won
}

// Run executes task in a goroutine and returns a Future for its outcome.
func Run[T any](ctx context.Context, task Task[T]) *Future[T] {
	f, settle := NewPromise[T]()
	go func() {
		settle(SafeCall(ctx, task))
	}()
	return f
}

// Await blocks until the Future settles or ctx is done.
// Safe to call from many goroutines and any number of times.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.res.Value, f.res.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel closed when the Future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result returns the outcome without blocking; ok is false while unsettled.
func (f *Future[T]) Result() (Result[T], bool) {
	select {
	case <-f.done:
		return f.res, true
	default:
		return Result[T]{}, false
	}
}
