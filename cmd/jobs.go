package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Abraxas-365/asynckit/pkg/asyncx"
	"github.com/Abraxas-365/asynckit/pkg/errx"
)

var adminErrors = errx.NewRegistry("ADMIN")

var (
	ErrQueueNotFound = adminErrors.Register("QUEUE_NOT_FOUND", errx.TypeNotFound, "Queue not found")
	ErrInvalidJob    = adminErrors.Register("INVALID_JOB", errx.TypeValidation, "Invalid job definition")
	ErrJobFailed     = adminErrors.Register("JOB_FAILED", errx.TypeInternal, "Job failed on request")
	ErrQueueLimit    = adminErrors.Register("QUEUE_LIMIT", errx.TypeExhausted, "Queue limit reached")
)

// jobRequest is the body of POST /queues/:name/jobs. It describes a
// simulated unit of work.
type jobRequest struct {
	SleepMS   int             `json:"sleep_ms"`
	Fail      bool            `json:"fail"`
	Payload   json.RawMessage `json:"payload"`
	TimeoutMS int             `json:"timeout_ms"`
	Attempts  int             `json:"attempts"`
	CacheKey  string          `json:"cache_key"`
}

// task builds the queue task for r. Each attempt runs under the timeout and
// failed attempts are retried per the retry config. Requests with a cache
// key go through the shared results memo.
func (c *Container) task(r jobRequest) asyncx.Task[json.RawMessage] {
	if r.CacheKey != "" {
		return func(ctx context.Context) (json.RawMessage, error) {
			return c.Results.Get(ctx, r)
		}
	}
	return func(ctx context.Context) (json.RawMessage, error) {
		return c.runJob(ctx, r)
	}
}

func (c *Container) runJob(ctx context.Context, r jobRequest) (json.RawMessage, error) {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = c.Config.Retry.Attempts
	}

	return asyncx.Retry(ctx, attempts, c.Config.Retry.Delay, func(ctx context.Context) (json.RawMessage, error) {
		if r.TimeoutMS <= 0 {
			return simulate(ctx, r)
		}
		return asyncx.WithTimeout(ctx, time.Duration(r.TimeoutMS)*time.Millisecond, func(ctx context.Context) (json.RawMessage, error) {
			return simulate(ctx, r)
		})
	}, c.Config.Retry.Options()...)
}

func simulate(ctx context.Context, r jobRequest) (json.RawMessage, error) {
	if err := asyncx.Delay(ctx, time.Duration(r.SleepMS)*time.Millisecond); err != nil {
		return nil, err
	}
	if r.Fail {
		return nil, adminErrors.New(ErrJobFailed)
	}
	if len(r.Payload) == 0 {
		return json.RawMessage("null"), nil
	}
	return r.Payload, nil
}
