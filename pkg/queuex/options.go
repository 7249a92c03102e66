package queuex

import (
	"context"

	"github.com/Abraxas-365/asynckit/pkg/logx"
)

// Options configures a Queue.
type Options struct {
	Name        string
	Concurrency int
	StartPaused bool
	Logger      *logx.Logger
	Metrics     Metrics
	Context     context.Context
}

func defaultOptions() Options {
	return Options{
		Name:        "default",
		Concurrency: 1,
		Logger:      logx.Nop(),
		Metrics:     NopMetrics{},
		Context:     context.Background(),
	}
}

// Option is a functional option for configuring the queue.
type Option func(*Options)

// WithName sets the name used in logs and metrics.
func WithName(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.Name = name
		}
	}
}

// WithConcurrency sets how many tasks may run at once.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithStartPaused creates the queue paused; nothing runs until Resume.
func WithStartPaused() Option {
	return func(o *Options) {
		o.StartPaused = true
	}
}

// WithLogger sets the logger. Queues are silent by default.
func WithLogger(l *logx.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *Options) {
		if m != nil {
			o.Metrics = m
		}
	}
}

// WithContext sets the parent of every task context. Cancelling it cancels
// running tasks cooperatively.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Context = ctx
		}
	}
}
