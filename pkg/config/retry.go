package config

import (
	"time"

	"github.com/Abraxas-365/asynckit/pkg/asyncx"
)

// RetryConfig configures retries of queued jobs.
type RetryConfig struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
}

func loadRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts: getEnvInt("ASYNCX_RETRY_ATTEMPTS", 3),
		Delay:    getEnvDuration("ASYNCX_RETRY_DELAY", 100*time.Millisecond),
		MaxDelay: getEnvDuration("ASYNCX_RETRY_MAX_DELAY", 5*time.Second),
	}
}

// Options returns exponential backoff from Delay capped at MaxDelay.
func (c RetryConfig) Options() []asyncx.RetryOption {
	return []asyncx.RetryOption{
		asyncx.WithBackoff(asyncx.ExponentialBackoff(c.Delay)),
		asyncx.WithMaxDelay(c.MaxDelay),
	}
}
