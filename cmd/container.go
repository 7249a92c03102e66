// cmd/container.go
//
// Composition root. Owns configuration, metrics and the named task queues
// the admin API operates on.
package main

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/VictoriaMetrics/metrics"

	"github.com/Abraxas-365/asynckit/pkg/config"
	"github.com/Abraxas-365/asynckit/pkg/logx"
	"github.com/Abraxas-365/asynckit/pkg/memox"
	"github.com/Abraxas-365/asynckit/pkg/queuex"
	"github.com/Abraxas-365/asynckit/pkg/queuex/queuexvm"
)

// JobQueue is the queue type exposed over HTTP. Jobs produce raw JSON.
type JobQueue = queuex.Queue[json.RawMessage]

// Container holds shared infrastructure and the queue registry.
type Container struct {
	Config *config.Config
	Logger *logx.Logger

	MetricsSet *metrics.Set
	Metrics    *queuexvm.Collector

	// Results shares and caches the output of jobs that carry a cache key.
	Results *memox.Memo[jobRequest, json.RawMessage]

	mu     sync.RWMutex
	queues map[string]*JobQueue
}

func NewContainer(cfg *config.Config, logger *logx.Logger) *Container {
	logx.Info("🔧 Initializing application container...")

	c := &Container{
		Config: cfg,
		Logger: logger,
		queues: make(map[string]*JobQueue),
	}

	c.initMetrics()
	c.initModules()

	logx.Info("✅ Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Infrastructure: metrics
// ---------------------------------------------------------------------------

func (c *Container) initMetrics() {
	c.MetricsSet = metrics.NewSet()
	c.Metrics = queuexvm.New(
		queuexvm.WithMetricsSet(c.MetricsSet),
		queuexvm.WithPrefix(c.Config.Server.MetricsPrefix+"_queue"),
	)
	logx.Infof("  ✅ Metrics configured (prefix: %s)", c.Config.Server.MetricsPrefix)
}

// ---------------------------------------------------------------------------
// Module composition
// ---------------------------------------------------------------------------

func (c *Container) initModules() {
	logx.Info("📦 Initializing modules...")

	opts := append(c.Config.Memo.Options(),
		memox.WithKeyFunc(func(r jobRequest) (string, error) { return r.CacheKey, nil }),
		memox.WithLogger(c.Logger),
	)
	c.Results = memox.New[jobRequest, json.RawMessage](c.runJob, opts...)

	if _, err := c.Queue("default"); err != nil {
		logx.Fatalf("Failed to create default queue: %v", err)
	}
	logx.Infof("  ✅ Default queue ready (concurrency: %d)", c.Config.Queue.Concurrency)
}

// Queue returns the named queue, creating it on first use. Creation fails
// once the registry holds Config.Queue.MaxQueues queues.
func (c *Container) Queue(name string) (*JobQueue, error) {
	c.mu.RLock()
	q, ok := c.queues[name]
	c.mu.RUnlock()
	if ok {
		return q, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if q, ok := c.queues[name]; ok {
		return q, nil
	}
	if len(c.queues) >= c.Config.Queue.MaxQueues {
		return nil, adminErrors.New(ErrQueueLimit).WithDetails(map[string]any{
			"queue": name,
			"limit": c.Config.Queue.MaxQueues,
		})
	}

	// Request params alias fasthttp buffers that are reused after the
	// handler returns; the registry keeps its own copy.
	name = strings.Clone(name)

	opts := append(c.Config.Queue.Options(),
		queuex.WithName(name),
		queuex.WithLogger(c.Logger),
		queuex.WithMetrics(c.Metrics),
	)
	q = queuex.New[json.RawMessage](opts...)
	c.Metrics.Watch(q)
	c.queues[name] = q
	return q, nil
}

// Lookup returns an existing queue.
func (c *Container) Lookup(name string) (*JobQueue, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.queues[name]
	return q, ok
}

// Names returns the registered queue names, sorted.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.queues))
	for name := range c.queues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Shutdown drains every queue, interrupting tasks still running when ctx ends.
func (c *Container) Shutdown(ctx context.Context) {
	logx.Info("🧹 Draining queues...")

	var wg sync.WaitGroup
	for _, name := range c.Names() {
		q, _ := c.Lookup(name)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := q.Shutdown(ctx); err != nil {
				logx.WithError(err).Warnf("Queue %s did not drain in time", name)
				return
			}
			logx.Infof("  ✅ Queue %s drained", name)
		}()
	}
	wg.Wait()

	logx.Info("✅ Cleanup complete")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
