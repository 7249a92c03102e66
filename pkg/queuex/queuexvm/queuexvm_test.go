package queuexvm_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Abraxas-365/asynckit/pkg/queuex"
	"github.com/Abraxas-365/asynckit/pkg/queuex/queuexvm"
	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ExportsQueueMetrics(t *testing.T) {
	c := queuexvm.New(queuexvm.WithMetricsSet(metrics.NewSet()), queuexvm.WithPrefix("test"))
	q := queuex.New[int](queuex.WithName("emails"), queuex.WithMetrics(c), queuex.WithConcurrency(2))
	c.Watch(q)

	_, err := q.Enqueue(func(ctx context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)
	_, err = q.Enqueue(func(ctx context.Context) (int, error) { return 0, errors.New("bad") })
	require.NoError(t, err)
	require.NoError(t, q.OnIdle(context.Background()))

	q.Pause()
	_, err = q.Enqueue(func(ctx context.Context) (int, error) { return 2, nil })
	require.NoError(t, err)
	assert.Equal(t, 1, q.Clear())

	var buf bytes.Buffer
	c.WritePrometheus(&buf)
	out := buf.String()

	assert.Contains(t, out, `test_enqueued_total{queue="emails"} 3`)
	assert.Contains(t, out, `test_settled_total{queue="emails",status="fulfilled"} 1`)
	assert.Contains(t, out, `test_settled_total{queue="emails",status="rejected"} 1`)
	assert.Contains(t, out, `test_cancelled_total{queue="emails"} 1`)
	assert.Contains(t, out, `test_queued{queue="emails"} 0`)
	assert.Contains(t, out, `test_paused{queue="emails"} 1`)
	assert.Contains(t, out, `test_concurrency{queue="emails"} 2`)
	assert.Contains(t, out, `test_run_seconds_bucket{queue="emails"`)
}
