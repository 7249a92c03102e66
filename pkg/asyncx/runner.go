package asyncx

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// RunConcurrent runs tasks with at most limit in flight and returns one
// Result per task, in input order regardless of completion order.
//
// This is the collect-all runner and the default: a failing task never
// cancels its siblings. Tasks start in input order as slots free up. If ctx
// is done before a task is admitted, that task and every later one is not
// started and their results carry ctx.Err(). A limit < 1 is treated as 1.
func RunConcurrent[T any](ctx context.Context, limit int, tasks []Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))
	if len(tasks) == 0 {
		return results
	}

	slots := NewSlots(min(max(limit, 1), len(tasks)))

	var wg sync.WaitGroup
	for i, task := range tasks {
		permit, err := slots.Acquire(ctx)
		if err != nil {
			for j := i; j < len(tasks); j++ {
				results[j] = Result[T]{Err: err}
			}
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer permit.Release()
			v, err := SafeCall(ctx, task)
			results[i] = Result[T]{Value: v, Err: err}
		}()
	}
	wg.Wait()

	return results
}

// RunConcurrentFailFast runs tasks with at most limit in flight and returns
// their values in input order. The first failure cancels the context handed
// to the remaining tasks, stops admitting new ones and is returned.
func RunConcurrentFailFast[T any](ctx context.Context, limit int, tasks []Task[T]) ([]T, error) {
	values := make([]T, len(tasks))
	if len(tasks) == 0 {
		return values, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(max(limit, 1), len(tasks)))

	started := 0
	for i, task := range tasks {
		if gctx.Err() != nil {
			break
		}
		started++
		g.Go(func() error {
			v, err := SafeCall(gctx, task)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if started < len(tasks) {
		return nil, ctx.Err()
	}
	return values, nil
}

// Pool processes items using at most workers goroutines and returns results
// in the original order. Fails fast on the first error.
func Pool[T any, R any](
	ctx context.Context,
	workers int,
	items []T,
	fn func(context.Context, T) (R, error),
) ([]R, error) {
	tasks := make([]Task[R], len(items))
	for i, item := range items {
		tasks[i] = func(ctx context.Context) (R, error) {
			return fn(ctx, item)
		}
	}
	return RunConcurrentFailFast(ctx, workers, tasks)
}

// All runs every task at once and returns their values in order.
// The first error cancels the others and is returned.
func All[T any](ctx context.Context, tasks ...Task[T]) ([]T, error) {
	return RunConcurrentFailFast(ctx, len(tasks), tasks)
}

// AllSettled runs every task at once and never short-circuits:
// it returns one Result per task.
func AllSettled[T any](ctx context.Context, tasks ...Task[T]) []Result[T] {
	return RunConcurrent(ctx, len(tasks), tasks)
}

// Race runs every task at once and returns the first outcome to arrive,
// success or failure. The losers' context is cancelled and their outcomes
// are discarded.
func Race[T any](ctx context.Context, tasks ...Task[T]) (T, error) {
	if len(tasks) == 0 {
		var zero T
		return zero, asyncxErrors.New(ErrInvalidTask).WithDetail("reason", "no tasks to race")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan Result[T], len(tasks))
	for _, task := range tasks {
		go func() {
			v, err := SafeCall(ctx, task)
			ch <- Result[T]{Value: v, Err: err}
		}()
	}

	r := <-ch
	return r.Value, r.Err
}
