package asyncx_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Abraxas-365/asynckit/pkg/asyncx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tracker records how many tasks run at once.
type tracker struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (tr *tracker) task(v int, d time.Duration, err error) asyncx.Task[int] {
	return func(ctx context.Context) (int, error) {
		n := tr.inFlight.Add(1)
		defer tr.inFlight.Add(-1)
		for {
			p := tr.peak.Load()
			if n <= p || tr.peak.CompareAndSwap(p, n) {
				break
			}
		}
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
		return v, err
	}
}

func TestRunConcurrent_RespectsLimitAndOrder(t *testing.T) {
	tr := &tracker{}
	tasks := make([]asyncx.Task[int], 8)
	for i := range tasks {
		// Later tasks finish first.
		tasks[i] = tr.task(i, time.Duration(8-i)*3*time.Millisecond, nil)
	}

	results := asyncx.RunConcurrent(context.Background(), 3, tasks)

	require.Len(t, results, 8)
	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, i, r.Value)
	}
	assert.LessOrEqual(t, tr.peak.Load(), int32(3))
	assert.Equal(t, int32(3), tr.peak.Load())
}

func TestRunConcurrent_FailureDoesNotCancelSiblings(t *testing.T) {
	tr := &tracker{}
	boom := errors.New("boom")

	results := asyncx.RunConcurrent(context.Background(), 2, []asyncx.Task[int]{
		tr.task(1, time.Millisecond, boom),
		tr.task(2, 20*time.Millisecond, nil),
		tr.task(3, time.Millisecond, nil),
	})

	assert.ErrorIs(t, results[0].Err, boom)
	assert.Equal(t, 2, results[1].Value)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, 3, results[2].Value)
}

func TestRunConcurrent_PanicSettlesAsError(t *testing.T) {
	results := asyncx.RunConcurrent(context.Background(), 2, []asyncx.Task[int]{
		func(ctx context.Context) (int, error) { panic("bad task") },
		func(ctx context.Context) (int, error) { return 2, nil },
	})

	assert.True(t, asyncx.IsPanic(results[0].Err))
	assert.Equal(t, 2, results[1].Value)
}

func TestRunConcurrent_LimitClamped(t *testing.T) {
	tr := &tracker{}
	tasks := []asyncx.Task[int]{
		tr.task(0, 5*time.Millisecond, nil),
		tr.task(1, 5*time.Millisecond, nil),
	}

	asyncx.RunConcurrent(context.Background(), 0, tasks)
	assert.Equal(t, int32(1), tr.peak.Load())

	tr2 := &tracker{}
	results := asyncx.RunConcurrent(context.Background(), 100, []asyncx.Task[int]{
		tr2.task(0, 5*time.Millisecond, nil),
		tr2.task(1, 5*time.Millisecond, nil),
	})
	assert.Len(t, results, 2)
	assert.Equal(t, int32(2), tr2.peak.Load())
}

func TestRunConcurrent_Empty(t *testing.T) {
	assert.Empty(t, asyncx.RunConcurrent[int](context.Background(), 3, nil))
}

func TestRunConcurrent_CancelledBeforeAdmission(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var started atomic.Int32

	tasks := make([]asyncx.Task[int], 5)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) (int, error) {
			started.Add(1)
			if i == 0 {
				cancel()
			}
			<-ctx.Done()
			return 0, ctx.Err()
		}
	}

	results := asyncx.RunConcurrent(ctx, 1, tasks)

	assert.EqualValues(t, 1, started.Load())
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestRunConcurrentFailFast_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	var started atomic.Int32

	tasks := make([]asyncx.Task[int], 10)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) (int, error) {
			started.Add(1)
			if i == 0 {
				return 0, boom
			}
			select {
			case <-time.After(50 * time.Millisecond):
				return i, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}
	}

	_, err := asyncx.RunConcurrentFailFast(context.Background(), 2, tasks)

	assert.ErrorIs(t, err, boom)
	assert.Less(t, started.Load(), int32(10))
}

func TestRunConcurrentFailFast_AllSucceed(t *testing.T) {
	tr := &tracker{}
	tasks := make([]asyncx.Task[int], 6)
	for i := range tasks {
		tasks[i] = tr.task(i*10, 2*time.Millisecond, nil)
	}

	values, err := asyncx.RunConcurrentFailFast(context.Background(), 2, tasks)

	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 20, 30, 40, 50}, values)
	assert.LessOrEqual(t, tr.peak.Load(), int32(2))
}

func TestPoolAndMap(t *testing.T) {
	double := func(ctx context.Context, n int) (string, error) {
		return fmt.Sprint(n * 2), nil
	}

	got, err := asyncx.Pool(context.Background(), 2, []int{1, 2, 3}, double)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "6"}, got)

	got, err = asyncx.Map(context.Background(), []int{4, 5}, double)
	require.NoError(t, err)
	assert.Equal(t, []string{"8", "10"}, got)
}

func TestForEach_ReturnsError(t *testing.T) {
	boom := errors.New("boom")
	err := asyncx.ForEach(context.Background(), []int{1, 2, 3}, func(ctx context.Context, n int) error {
		if n == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestAllAndAllSettled(t *testing.T) {
	one := func(ctx context.Context) (int, error) { return 1, nil }
	bad := func(ctx context.Context) (int, error) { return 0, errors.New("bad") }

	values, err := asyncx.All(context.Background(), one, one)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, values)

	_, err = asyncx.All(context.Background(), one, bad)
	assert.EqualError(t, err, "bad")

	settled := asyncx.AllSettled(context.Background(), bad, one)
	assert.False(t, settled[0].OK())
	assert.True(t, settled[1].OK())
}

func TestRace_FirstOutcomeWins(t *testing.T) {
	slowCancelled := make(chan struct{})

	v, err := asyncx.Race(context.Background(),
		func(ctx context.Context) (string, error) {
			<-ctx.Done()
			close(slowCancelled)
			return "", ctx.Err()
		},
		func(ctx context.Context) (string, error) {
			return "fast", nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, "fast", v)

	select {
	case <-slowCancelled:
	case <-time.After(time.Second):
		t.Fatal("losing task was not cancelled")
	}
}

func TestRace_NoTasks(t *testing.T) {
	_, err := asyncx.Race[int](context.Background())
	assert.Error(t, err)
}

func TestSlots(t *testing.T) {
	s := asyncx.NewSlots(2)
	assert.Equal(t, 2, s.Limit())

	p1, ok := s.TryAcquire()
	require.True(t, ok)
	p2, err := s.Acquire(context.Background())
	require.NoError(t, err)

	_, ok = s.TryAcquire()
	assert.False(t, ok)
	assert.Equal(t, 2, s.InUse())

	assert.True(t, p1.Release())
	assert.False(t, p1.Release())
	assert.Equal(t, 1, s.InUse())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	p2.Release()
	assert.Equal(t, 0, s.InUse())
	assert.Equal(t, 2, s.Peak())
	assert.Equal(t, 1, asyncx.NewSlots(-3).Limit())
}

func TestOnce(t *testing.T) {
	var calls atomic.Int32
	load := asyncx.Once(func() (int, error) {
		return int(calls.Add(1)), nil
	})

	done := make(chan int, 5)
	for range 5 {
		go func() {
			v, _ := load()
			done <- v
		}()
	}
	for range 5 {
		assert.Equal(t, 1, <-done)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestDoCtx_SkipsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := make(chan struct{}, 1)
	asyncx.DoCtx(ctx, func(context.Context) { ran <- struct{}{} })

	select {
	case <-ran:
		t.Fatal("DoCtx ran with a cancelled context")
	case <-time.After(20 * time.Millisecond):
	}

	asyncx.Do(func() { ran <- struct{}{} })
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("Do did not run")
	}
}
