package asyncx

import (
	"context"
	"errors"
	"math"
	"time"
)

// Backoff returns the wait before the next attempt, given how many attempts
// have failed so far (1 after the first failure).
type Backoff func(failures int) time.Duration

// ConstantBackoff waits d between every attempt.
func ConstantBackoff(d time.Duration) Backoff {
	return func(int) time.Duration { return d }
}

// LinearBackoff waits d, 2d, 3d, ...
func LinearBackoff(d time.Duration) Backoff {
	return func(failures int) time.Duration {
		return d * time.Duration(failures)
	}
}

// ExponentialBackoff waits initial, 2*initial, 4*initial, ...
func ExponentialBackoff(initial time.Duration) Backoff {
	return func(failures int) time.Duration {
		mult := math.Pow(2, float64(failures-1))
		if mult > float64(math.MaxInt64)/float64(initial+1) {
			return time.Duration(math.MaxInt64)
		}
		return time.Duration(float64(initial) * mult)
	}
}

type retryOptions struct {
	backoff  Backoff
	maxDelay time.Duration
	retryIf  func(error) bool
	onRetry  func(attempt int, err error, next time.Duration)
	history  bool
}

// RetryOption customizes Retry.
type RetryOption func(*retryOptions)

// WithBackoff replaces the fixed delay with a backoff strategy.
func WithBackoff(b Backoff) RetryOption {
	return func(o *retryOptions) {
		if b != nil {
			o.backoff = b
		}
	}
}

// WithMaxDelay caps every computed wait at d.
func WithMaxDelay(d time.Duration) RetryOption {
	return func(o *retryOptions) {
		o.maxDelay = d
	}
}

// WithRetryIf limits retries to errors for which fn returns true.
// Other errors are returned as-is, without further attempts.
func WithRetryIf(fn func(error) bool) RetryOption {
	return func(o *retryOptions) {
		o.retryIf = fn
	}
}

// WithOnRetry registers a hook called after each failed attempt that will
// be retried, with the wait before the next one.
func WithOnRetry(fn func(attempt int, err error, next time.Duration)) RetryOption {
	return func(o *retryOptions) {
		o.onRetry = fn
	}
}

// WithErrorHistory makes the exhausted error wrap every attempt's failure
// (errors.Join, in attempt order) instead of only the last one.
func WithErrorHistory() RetryOption {
	return func(o *retryOptions) {
		o.history = true
	}
}

// Retry calls task up to attempts times, waiting delay between attempts but
// not after the last, and returns the first success.
//
// When every attempt fails the returned error is ErrRetryExhausted wrapping
// only the last failure; earlier failures are dropped unless
// WithErrorHistory is given. A cancelled ctx stops retrying with ctx.Err().
func Retry[T any](
	ctx context.Context,
	attempts int,
	delay time.Duration,
	task Task[T],
	opts ...RetryOption,
) (T, error) {
	o := retryOptions{backoff: ConstantBackoff(delay)}
	for _, opt := range opts {
		opt(&o)
	}
	if attempts < 1 {
		attempts = 1
	}

	var (
		zero T
		errs []error
		last error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		val, err := SafeCall(ctx, task)
		if err == nil {
			return val, nil
		}
		if o.retryIf != nil && !o.retryIf(err) {
			return zero, err
		}

		last = err
		if o.history {
			errs = append(errs, err)
		}
		if attempt == attempts {
			break
		}

		wait := o.backoff(attempt)
		if o.maxDelay > 0 && wait > o.maxDelay {
			wait = o.maxDelay
		}
		if o.onRetry != nil {
			o.onRetry(attempt, err, wait)
		}
		if err := Delay(ctx, wait); err != nil {
			return zero, err
		}
	}

	cause := last
	if o.history {
		cause = errors.Join(errs...)
	}
	return zero, asyncxErrors.NewWithCause(ErrRetryExhausted, cause).WithDetail("attempts", attempts)
}

// RetryWithBackoff retries with a wait that starts at initialDelay and
// doubles after each failed attempt.
func RetryWithBackoff[T any](
	ctx context.Context,
	attempts int,
	initialDelay time.Duration,
	task Task[T],
) (T, error) {
	return Retry(ctx, attempts, initialDelay, task, WithBackoff(ExponentialBackoff(initialDelay)))
}
