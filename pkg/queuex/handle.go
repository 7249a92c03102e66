package queuex

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Abraxas-365/asynckit/pkg/asyncx"
)

// Handle tracks one enqueued task.
type Handle[T any] struct {
	q          *Queue[T]
	seq        uint64
	id         uuid.UUID
	task       asyncx.Task[T]
	enqueuedAt time.Time

	future *asyncx.Future[T]
	settle func(T, error) bool

	// guarded by q.mu
	status Status
	cancel context.CancelFunc
}

// Seq is the entry's insertion order, starting at 1.
func (h *Handle[T]) Seq() uint64 { return h.seq }

// ID is the entry's unique identifier.
func (h *Handle[T]) ID() uuid.UUID { return h.id }

// EnqueuedAt is when the entry was accepted.
func (h *Handle[T]) EnqueuedAt() time.Time { return h.enqueuedAt }

// Status returns the entry's current state.
func (h *Handle[T]) Status() Status {
	h.q.mu.Lock()
	defer h.q.mu.Unlock()
	return h.status
}

// Await blocks until the entry settles or ctx is done. A cancelled entry
// returns an error for which IsCancelled is true.
func (h *Handle[T]) Await(ctx context.Context) (T, error) {
	return h.future.Await(ctx)
}

// Done is closed once the entry reaches a terminal state.
func (h *Handle[T]) Done() <-chan struct{} {
	return h.future.Done()
}

// Cancel removes a queued entry, or cancels the context of a running one.
// A running task that ignores its context still settles with its own
// outcome. Cancel reports false when the entry had already settled.
func (h *Handle[T]) Cancel() bool {
	return h.q.cancelEntry(h)
}
