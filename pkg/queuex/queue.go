// Package queuex is an in-process task queue with bounded concurrency.
//
// Entries start in FIFO order while fewer than the concurrency limit are
// running and the queue is not paused. The queue can be paused, resumed,
// cleared and inspected at any time. Running tasks are never forcibly
// stopped; cancellation only reaches them through their context.
package queuex

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Abraxas-365/asynckit/pkg/asyncx"
	"github.com/Abraxas-365/asynckit/pkg/logx"
)

// Queue runs tasks producing T. It is safe for concurrent use.
type Queue[T any] struct {
	opts  Options
	slots *asyncx.Slots
	log   *logx.Entry

	mu        sync.Mutex
	pending   []*Handle[T]
	nextSeq   uint64
	running   map[*Handle[T]]struct{}
	fulfilled int
	rejected  int
	cancelled int
	paused    bool
	closed    bool
	idle      chan struct{}
}

// New creates a queue. It starts processing immediately unless
// WithStartPaused is given.
func New[T any](options ...Option) *Queue[T] {
	opts := defaultOptions()
	for _, o := range options {
		o(&opts)
	}

	idle := make(chan struct{})
	close(idle)

	q := &Queue[T]{
		opts:    opts,
		slots:   asyncx.NewSlots(opts.Concurrency),
		log:     opts.Logger.Named("queuex").WithField("queue", opts.Name),
		running: make(map[*Handle[T]]struct{}),
		paused:  opts.StartPaused,
		idle:    idle,
	}
	return q
}

// Name returns the queue's name.
func (q *Queue[T]) Name() string { return q.opts.Name }

// Enqueue appends task and returns its handle.
func (q *Queue[T]) Enqueue(task asyncx.Task[T]) (*Handle[T], error) {
	if task == nil {
		return nil, queuexErrors.New(ErrInvalidTask)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, queuexErrors.New(ErrClosed).WithDetail("queue", q.opts.Name)
	}

	q.nextSeq++
	future, settle := asyncx.NewPromise[T]()
	h := &Handle[T]{
		q:          q,
		seq:        q.nextSeq,
		id:         uuid.New(),
		task:       task,
		enqueuedAt: time.Now(),
		future:     future,
		settle:     settle,
		status:     StatusQueued,
	}
	q.pending = append(q.pending, h)
	q.markBusyLocked()

	q.log.WithFields(logx.Fields{"seq": h.seq, "id": h.id.String()}).Debug("enqueued")
	q.opts.Metrics.IncEnqueued(q.opts.Name)

	q.dispatchLocked()
	return h, nil
}

// dispatchLocked starts queued entries, oldest first, while slots are free.
func (q *Queue[T]) dispatchLocked() {
	for !q.paused && len(q.pending) > 0 {
		permit, ok := q.slots.TryAcquire()
		if !ok {
			return
		}

		h := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.startLocked(h, permit)
	}
}

func (q *Queue[T]) startLocked(h *Handle[T], permit *asyncx.Permit) {
	ctx, cancel := context.WithCancel(q.opts.Context)
	h.status = StatusRunning
	h.cancel = cancel
	q.running[h] = struct{}{}

	wait := time.Since(h.enqueuedAt)
	q.log.WithFields(logx.Fields{"seq": h.seq, "wait": wait.String()}).Debug("started")
	q.opts.Metrics.ObserveWait(q.opts.Name, wait.Seconds())

	go q.run(ctx, h, permit)
}

func (q *Queue[T]) run(ctx context.Context, h *Handle[T], permit *asyncx.Permit) {
	start := time.Now()
	v, err := asyncx.SafeCall(ctx, h.task)
	h.cancel()
	elapsed := time.Since(start)

	status := StatusFulfilled
	if err != nil {
		status = StatusRejected
		if asyncx.IsPanic(err) {
			err = queuexErrors.NewWithCause(ErrTaskPanicked, err).WithDetail("seq", h.seq)
			q.log.WithField("seq", h.seq).WithError(err).Error("task panicked")
		} else {
			q.log.WithField("seq", h.seq).WithError(err).Warn("task failed")
		}
	}

	q.log.WithFields(logx.Fields{"seq": h.seq, "status": string(status), "elapsed": elapsed.String()}).Debug("settled")
	q.opts.Metrics.ObserveRun(q.opts.Name, status, elapsed.Seconds())

	q.mu.Lock()
	defer q.mu.Unlock()

	h.status = status
	h.settle(v, err)
	delete(q.running, h)
	if status == StatusFulfilled {
		q.fulfilled++
	} else {
		q.rejected++
	}
	permit.Release()
	q.dispatchLocked()
	q.checkIdleLocked()
}

func (q *Queue[T]) cancelEntry(h *Handle[T]) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch h.status {
	case StatusQueued:
		q.pending = slices.DeleteFunc(q.pending, func(p *Handle[T]) bool { return p == h })
		q.cancelLocked(h)
		q.opts.Metrics.IncCancelled(q.opts.Name, 1)
		q.checkIdleLocked()
		return true
	case StatusRunning:
		h.cancel()
		q.log.WithField("seq", h.seq).Debug("interrupt requested")
		return true
	default:
		return false
	}
}

func (q *Queue[T]) cancelLocked(h *Handle[T]) {
	var zero T
	h.status = StatusCancelled
	h.settle(zero, queuexErrors.New(ErrCancelled).WithDetail("seq", h.seq))
	q.cancelled++
}

// Pause stops new entries from starting. Running tasks are unaffected.
func (q *Queue[T]) Pause() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.paused {
		q.paused = true
		q.log.Debug("paused")
	}
}

// Resume lets queued entries start again.
func (q *Queue[T]) Resume() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.paused {
		q.paused = false
		q.log.Debug("resumed")
		q.dispatchLocked()
	}
}

// Clear cancels every queued entry and returns how many there were.
// Running tasks are unaffected.
func (q *Queue[T]) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.pending)
	for _, h := range q.pending {
		q.cancelLocked(h)
	}
	q.pending = nil

	if n > 0 {
		q.log.WithField("count", n).Debug("cleared")
		q.opts.Metrics.IncCancelled(q.opts.Name, n)
	}
	q.checkIdleLocked()
	return n
}

// Stats returns a snapshot of the queue's counters.
func (q *Queue[T]) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	return Stats{
		Name:        q.opts.Name,
		Queued:      len(q.pending),
		Running:     len(q.running),
		Fulfilled:   q.fulfilled,
		Rejected:    q.rejected,
		Cancelled:   q.cancelled,
		Enqueued:    q.nextSeq,
		Concurrency: q.slots.Limit(),
		Paused:      q.paused,
		Closed:      q.closed,
	}
}

// Len returns how many entries are waiting to start.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Running returns how many tasks are executing.
func (q *Queue[T]) Running() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.running)
}

// IsPaused reports whether the queue is paused.
func (q *Queue[T]) IsPaused() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.paused
}

// OnIdle blocks until nothing is queued or running, or ctx is done.
// A paused queue with queued entries is not idle.
func (q *Queue[T]) OnIdle(ctx context.Context) error {
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close rejects further Enqueue calls. Entries already queued still run.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		q.log.Debug("closed")
	}
}

// Shutdown closes the queue, clears queued entries and waits for running
// tasks. If ctx ends first, running tasks have their context cancelled and
// ctx.Err() is returned.
func (q *Queue[T]) Shutdown(ctx context.Context) error {
	q.Close()
	q.Clear()

	if err := q.OnIdle(ctx); err != nil {
		q.mu.Lock()
		for h := range q.running {
			h.cancel()
		}
		n := len(q.running)
		q.mu.Unlock()

		q.log.WithField("running", n).Warn("shutdown timed out, interrupting running tasks")
		return err
	}
	return nil
}

func (q *Queue[T]) markBusyLocked() {
	select {
	case <-q.idle:
		q.idle = make(chan struct{})
	default:
	}
}

func (q *Queue[T]) checkIdleLocked() {
	if len(q.pending) > 0 || len(q.running) > 0 {
		return
	}
	select {
	case <-q.idle:
	default:
		close(q.idle)
	}
}
