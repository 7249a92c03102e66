package config

import (
	"github.com/Abraxas-365/asynckit/pkg/errx"
)

var configErrors = errx.NewRegistry("CONFIG")

var ErrInvalid = configErrors.Register("INVALID", errx.TypeValidation, "Invalid configuration")

// Config is the full runtime configuration, loaded from the environment.
type Config struct {
	Queue  QueueConfig
	Retry  RetryConfig
	Memo   MemoConfig
	Server ServerConfig
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Queue:  loadQueueConfig(),
		Retry:  loadRetryConfig(),
		Memo:   loadMemoConfig(),
		Server: loadServerConfig(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Queue.Concurrency < 1:
		return invalid("QUEUEX_CONCURRENCY", "must be at least 1", c.Queue.Concurrency)
	case c.Queue.MaxQueues < 1:
		return invalid("QUEUEX_MAX_QUEUES", "must be at least 1", c.Queue.MaxQueues)
	case c.Retry.Attempts < 1:
		return invalid("ASYNCX_RETRY_ATTEMPTS", "must be at least 1", c.Retry.Attempts)
	case c.Retry.Delay < 0:
		return invalid("ASYNCX_RETRY_DELAY", "must not be negative", c.Retry.Delay.String())
	case c.Retry.MaxDelay < 0:
		return invalid("ASYNCX_RETRY_MAX_DELAY", "must not be negative", c.Retry.MaxDelay.String())
	case c.Memo.TTL < 0:
		return invalid("MEMOX_TTL", "must not be negative", c.Memo.TTL.String())
	case c.Memo.ErrorTTL < 0:
		return invalid("MEMOX_ERROR_TTL", "must not be negative", c.Memo.ErrorTTL.String())
	case c.Server.Port == "":
		return invalid("PORT", "must not be empty", c.Server.Port)
	}
	return nil
}

func invalid(key, reason string, value any) error {
	return configErrors.New(ErrInvalid).WithDetails(map[string]any{
		"key":    key,
		"reason": reason,
		"value":  value,
	})
}
