package config

import "github.com/Abraxas-365/asynckit/pkg/queuex"

// QueueConfig configures the task queues.
type QueueConfig struct {
	Concurrency int
	StartPaused bool
	// MaxQueues caps how many named queues the admin server will create.
	MaxQueues int
}

func loadQueueConfig() QueueConfig {
	return QueueConfig{
		Concurrency: getEnvInt("QUEUEX_CONCURRENCY", 4),
		StartPaused: getEnvBool("QUEUEX_START_PAUSED", false),
		MaxQueues:   getEnvInt("QUEUEX_MAX_QUEUES", 16),
	}
}

// Options translates the config into queuex options.
func (c QueueConfig) Options() []queuex.Option {
	opts := []queuex.Option{queuex.WithConcurrency(c.Concurrency)}
	if c.StartPaused {
		opts = append(opts, queuex.WithStartPaused())
	}
	return opts
}
