// Package queuexvm exports queuex metrics with github.com/VictoriaMetrics/metrics.
//
// Metrics provided, all labelled with queue="<name>":
//   - {prefix}_enqueued_total - Counter of accepted entries
//   - {prefix}_cancelled_total - Counter of entries cancelled or cleared before starting
//   - {prefix}_settled_total{status} - Counter of settled runs (fulfilled, rejected)
//   - {prefix}_wait_seconds - Histogram of time spent queued
//   - {prefix}_run_seconds - Histogram of task run time
//
// Queues passed to Watch additionally get gauges read on every scrape:
//   - {prefix}_queued, {prefix}_running, {prefix}_concurrency, {prefix}_paused
package queuexvm

import (
	"fmt"
	"io"

	"github.com/VictoriaMetrics/metrics"

	"github.com/Abraxas-365/asynckit/pkg/queuex"
)

// Option configures a Collector.
type Option func(*Collector)

// WithPrefix sets the metric name prefix.
//
// Default: "queuex"
func WithPrefix(prefix string) Option {
	return func(c *Collector) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithMetricsSet sets the metrics set to use. The caller is then responsible
// for exposing it.
func WithMetricsSet(set *metrics.Set) Option {
	return func(c *Collector) {
		c.set = set
	}
}

// Collector implements queuex.Metrics using VictoriaMetrics.
// Thread-safe for concurrent use.
type Collector struct {
	set    *metrics.Set
	prefix string
}

var _ queuex.Metrics = (*Collector)(nil)

// New creates a Collector. Without WithMetricsSet a new set is created and
// registered globally.
func New(opts ...Option) *Collector {
	c := &Collector{prefix: "queuex"}
	for _, opt := range opts {
		opt(c)
	}

	if c.set == nil {
		c.set = metrics.NewSet()
		metrics.RegisterSet(c.set)
	}
	return c
}

// StatsSource is anything that reports queue stats, such as *queuex.Queue.
type StatsSource interface {
	Stats() queuex.Stats
}

// Watch registers scrape-time gauges for q under its current name.
func (c *Collector) Watch(q StatsSource) {
	name := q.Stats().Name
	gauge := func(metric string, read func(queuex.Stats) float64) {
		c.set.GetOrCreateGauge(c.name(metric, name), func() float64 {
			return read(q.Stats())
		})
	}

	gauge("queued", func(s queuex.Stats) float64 { return float64(s.Queued) })
	gauge("running", func(s queuex.Stats) float64 { return float64(s.Running) })
	gauge("concurrency", func(s queuex.Stats) float64 { return float64(s.Concurrency) })
	gauge("paused", func(s queuex.Stats) float64 {
		if s.Paused {
			return 1
		}
		return 0
	})
}

func (c *Collector) name(metric, queue string, labels ...string) string {
	l := fmt.Sprintf("queue=%q", queue)
	for i := 0; i+1 < len(labels); i += 2 {
		l += fmt.Sprintf(",%s=%q", labels[i], labels[i+1])
	}
	return fmt.Sprintf("%s_%s{%s}", c.prefix, metric, l)
}

// IncEnqueued increments the accepted entries counter.
func (c *Collector) IncEnqueued(queue string) {
	c.set.GetOrCreateCounter(c.name("enqueued_total", queue)).Inc()
}

// ObserveWait records how long an entry was queued, in seconds.
func (c *Collector) ObserveWait(queue string, seconds float64) {
	c.set.GetOrCreateHistogram(c.name("wait_seconds", queue)).Update(seconds)
}

// ObserveRun records a settled run and its duration in seconds.
func (c *Collector) ObserveRun(queue string, status queuex.Status, seconds float64) {
	c.set.GetOrCreateCounter(c.name("settled_total", queue, "status", string(status))).Inc()
	c.set.GetOrCreateHistogram(c.name("run_seconds", queue)).Update(seconds)
}

// IncCancelled adds n cancelled entries.
func (c *Collector) IncCancelled(queue string, n int) {
	c.set.GetOrCreateCounter(c.name("cancelled_total", queue)).Add(n)
}

// WritePrometheus writes all metrics in Prometheus format to w.
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}
