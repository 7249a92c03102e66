package config

import (
	"time"

	"github.com/Abraxas-365/asynckit/pkg/memox"
)

// MemoConfig configures memoized lookups.
type MemoConfig struct {
	TTL      time.Duration
	ErrorTTL time.Duration
}

func loadMemoConfig() MemoConfig {
	return MemoConfig{
		TTL:      getEnvDuration("MEMOX_TTL", memox.DefaultTTL),
		ErrorTTL: getEnvDuration("MEMOX_ERROR_TTL", 0),
	}
}

// Options translates the config into memox options.
func (c MemoConfig) Options() []memox.Option {
	return []memox.Option{
		memox.WithTTL(c.TTL),
		memox.WithErrorTTL(c.ErrorTTL),
	}
}
