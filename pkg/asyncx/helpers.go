package asyncx

import (
	"context"
	"sync"

	"github.com/Abraxas-365/asynckit/pkg/logx"
)

// Map applies fn to every item concurrently and returns the results in the
// original order. The first error cancels the rest and is returned.
func Map[T any, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	return Pool(ctx, len(items), items, fn)
}

// ForEach is Map without results.
func ForEach[T any](ctx context.Context, items []T, fn func(context.Context, T) error) error {
	_, err := Map(ctx, items, func(ctx context.Context, item T) (struct{}, error) {
		return struct{}{}, fn(ctx, item)
	})
	return err
}

// Do runs fn in a goroutine without tracking it. A panic is logged and
// swallowed.
func Do(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logx.WithField("panic", r).Error("asyncx: fire-and-forget task panicked")
			}
		}()
		fn()
	}()
}

// DoCtx is Do for context-aware work; it does not start fn when ctx is
// already done.
func DoCtx(ctx context.Context, fn func(context.Context)) {
	if ctx.Err() != nil {
		return
	}
	Do(func() { fn(ctx) })
}

// Once wraps fn so it runs at most once; every caller gets the same outcome.
func Once[T any](fn func() (T, error)) func() (T, error) {
	var (
		once sync.Once
		val  T
		err  error
	)
	return func() (T, error) {
		once.Do(func() {
			val, err = SafeCall(context.Background(), func(context.Context) (T, error) {
				return fn()
			})
		})
		return val, err
	}
}
