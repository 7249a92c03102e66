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

func failingTask(calls *atomic.Int32, succeedOn int32) asyncx.Task[string] {
	return func(ctx context.Context) (string, error) {
		n := calls.Add(1)
		if succeedOn > 0 && n >= succeedOn {
			return "ok", nil
		}
		return "", fmt.Errorf("E%d", n)
	}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	var calls atomic.Int32
	start := time.Now()

	v, err := asyncx.Retry(context.Background(), 3, 10*time.Millisecond, failingTask(&calls, 3))

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.EqualValues(t, 3, calls.Load())
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestRetry_ExhaustedWrapsLastErrorOnly(t *testing.T) {
	var calls atomic.Int32

	_, err := asyncx.Retry(context.Background(), 3, time.Millisecond, failingTask(&calls, 0))

	require.Error(t, err)
	assert.EqualValues(t, 3, calls.Load())
	assert.True(t, asyncx.IsRetryExhausted(err))

	cause := errors.Unwrap(err)
	require.NotNil(t, cause)
	assert.Equal(t, "E3", cause.Error())
	assert.NotContains(t, err.Error(), "E1")
	assert.NotContains(t, err.Error(), "E2")
}

func TestRetry_ErrorHistory(t *testing.T) {
	var calls atomic.Int32

	_, err := asyncx.Retry(context.Background(), 3, time.Millisecond, failingTask(&calls, 0),
		asyncx.WithErrorHistory())

	require.Error(t, err)
	assert.True(t, asyncx.IsRetryExhausted(err))
	for _, msg := range []string{"E1", "E2", "E3"} {
		assert.Contains(t, err.Error(), msg)
	}
}

func TestRetry_NoWaitAfterLastAttempt(t *testing.T) {
	var calls atomic.Int32
	start := time.Now()

	_, err := asyncx.Retry(context.Background(), 1, time.Second, failingTask(&calls, 0))

	require.Error(t, err)
	assert.EqualValues(t, 1, calls.Load())
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestRetry_RetryIfStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	var calls atomic.Int32

	_, err := asyncx.Retry(context.Background(), 5, time.Millisecond,
		func(ctx context.Context) (int, error) {
			calls.Add(1)
			return 0, permanent
		},
		asyncx.WithRetryIf(func(err error) bool { return !errors.Is(err, permanent) }),
	)

	assert.ErrorIs(t, err, permanent)
	assert.False(t, asyncx.IsRetryExhausted(err))
	assert.EqualValues(t, 1, calls.Load())
}

func TestRetry_OnRetryAndBackoff(t *testing.T) {
	var waits []time.Duration
	var calls atomic.Int32

	_, err := asyncx.Retry(context.Background(), 4, time.Millisecond, failingTask(&calls, 0),
		asyncx.WithBackoff(asyncx.ExponentialBackoff(time.Millisecond)),
		asyncx.WithMaxDelay(3*time.Millisecond),
		asyncx.WithOnRetry(func(attempt int, err error, next time.Duration) {
			waits = append(waits, next)
		}),
	)

	require.Error(t, err)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}, waits)
}

func TestRetry_CancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := asyncx.Retry(ctx, 5, time.Second, failingTask(&calls, 0))
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 1, calls.Load())
}

func TestRetry_RecoversPanickingAttempt(t *testing.T) {
	var calls atomic.Int32

	v, err := asyncx.Retry(context.Background(), 2, time.Millisecond, func(ctx context.Context) (int, error) {
		if calls.Add(1) == 1 {
			panic("first attempt")
		}
		return 7, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestBackoffs(t *testing.T) {
	assert.Equal(t, 5*time.Millisecond, asyncx.ConstantBackoff(5*time.Millisecond)(3))
	assert.Equal(t, 15*time.Millisecond, asyncx.LinearBackoff(5*time.Millisecond)(3))
	assert.Equal(t, 20*time.Millisecond, asyncx.ExponentialBackoff(5*time.Millisecond)(3))
	assert.Positive(t, asyncx.ExponentialBackoff(time.Second)(200))
}

func TestRetryWithBackoff(t *testing.T) {
	var calls atomic.Int32
	v, err := asyncx.RetryWithBackoff(context.Background(), 3, time.Millisecond, failingTask(&calls, 2))
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.EqualValues(t, 2, calls.Load())
}
