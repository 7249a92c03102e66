package asyncx_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/asynckit/pkg/asyncx"
	"github.com/Abraxas-365/asynckit/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelay_Elapses(t *testing.T) {
	start := time.Now()
	require.NoError(t, asyncx.Delay(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDelay_ZeroReturnsImmediately(t *testing.T) {
	assert.NoError(t, asyncx.Delay(context.Background(), 0))
	assert.NoError(t, asyncx.Delay(context.Background(), -time.Second))
}

func TestDelay_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := asyncx.Delay(ctx, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestWithTimeout_TaskWins(t *testing.T) {
	v, err := asyncx.WithTimeout(context.Background(), time.Second, func(ctx context.Context) (string, error) {
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", v)
}

func TestWithTimeout_TaskErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	_, err := asyncx.WithTimeout(context.Background(), time.Second, func(ctx context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, asyncx.IsTimeout(err))
}

func TestWithTimeout_DeadlineWinsAndCancelsTask(t *testing.T) {
	orphaned := make(chan error, 1)

	start := time.Now()
	_, err := asyncx.WithTimeout(context.Background(), 20*time.Millisecond, func(ctx context.Context) (int, error) {
		select {
		case <-ctx.Done():
			orphaned <- ctx.Err()
			return 0, ctx.Err()
		case <-time.After(time.Second):
			orphaned <- nil
			return 1, nil
		}
	})

	require.Error(t, err)
	assert.True(t, asyncx.IsTimeout(err))
	assert.ErrorIs(t, err, asyncx.ErrTimeout.Error())
	assert.Equal(t, errx.TypeTimeout, errx.TypeOf(err))
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	select {
	case cause := <-orphaned:
		assert.ErrorIs(t, cause, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("orphaned task was not cancelled")
	}
}

func TestWithTimeout_NonPositiveDeadline(t *testing.T) {
	called := false
	_, err := asyncx.WithTimeout(context.Background(), 0, func(ctx context.Context) (int, error) {
		called = true
		return 1, nil
	})
	assert.True(t, asyncx.IsTimeout(err))
	assert.False(t, called)
}

func TestWithTimeout_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := asyncx.WithTimeout(ctx, time.Second, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, asyncx.IsTimeout(err))
}

func TestFuture_AwaitFromManyGoroutines(t *testing.T) {
	release := make(chan struct{})
	fut := asyncx.Run(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		return 42, nil
	})

	_, ok := fut.Result()
	assert.False(t, ok)

	got := make(chan int, 3)
	for range 3 {
		go func() {
			v, _ := fut.Await(context.Background())
			got <- v
		}()
	}
	close(release)

	for range 3 {
		assert.Equal(t, 42, <-got)
	}
	r, ok := fut.Result()
	assert.True(t, ok)
	assert.True(t, r.OK())
}

func TestFuture_AwaitRespectsContext(t *testing.T) {
	fut, _ := asyncx.NewPromise[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := fut.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPromise_SettlesOnce(t *testing.T) {
	fut, settle := asyncx.NewPromise[string]()
	assert.True(t, settle("first", nil))
	assert.False(t, settle("second", errors.New("late")))

	v, err := fut.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestSafeCall_RecoversPanic(t *testing.T) {
	_, err := asyncx.SafeCall(context.Background(), func(ctx context.Context) (int, error) {
		panic("kaboom")
	})
	require.Error(t, err)
	assert.True(t, asyncx.IsPanic(err))

	var e *errx.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "kaboom", e.Details["panic"])
}

func TestSafeCall_NilTask(t *testing.T) {
	_, err := asyncx.SafeCall[int](context.Background(), nil)
	assert.True(t, errx.IsCode(err, asyncx.ErrInvalidTask))
}
