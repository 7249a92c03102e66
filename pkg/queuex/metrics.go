package queuex

// Metrics receives queue events. Every event is recorded before the state
// change it describes can release an OnIdle waiter. All methods except
// ObserveRun are called with the queue's lock held, so implementations must
// be safe for concurrent use, must not block and must not call back into the
// queue. See queuexvm for a VictoriaMetrics one.
type Metrics interface {
	IncEnqueued(queue string)
	ObserveWait(queue string, seconds float64)
	ObserveRun(queue string, status Status, seconds float64)
	IncCancelled(queue string, n int)
}

// NopMetrics discards every event.
type NopMetrics struct{}

func (NopMetrics) IncEnqueued(string) {}

func (NopMetrics) ObserveWait(string, float64) {}

func (NopMetrics) ObserveRun(string, Status, float64) {}

func (NopMetrics) IncCancelled(string, int) {}
