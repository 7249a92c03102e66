package asyncx

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Slots caps how many tasks may be in flight. Waiters are served in FIFO
// order. Both RunConcurrent and queuex admit work through Slots.
type Slots struct {
	sem   *semaphore.Weighted
	limit int
	inUse atomic.Int64
	peak  atomic.Int64
}

// NewSlots returns a pool of limit permits; limit < 1 is treated as 1.
func NewSlots(limit int) *Slots {
	if limit < 1 {
		limit = 1
	}
	return &Slots{
		sem:   semaphore.NewWeighted(int64(limit)),
		limit: limit,
	}
}

// Permit is one acquired slot. Release returns it exactly once.
type Permit struct {
	slots    *Slots
	released atomic.Bool
}

// Acquire blocks until a slot is free or ctx is done.
func (s *Slots) Acquire(ctx context.Context) (*Permit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return s.grant(), nil
}

// TryAcquire takes a slot without blocking; ok is false when none is free.
func (s *Slots) TryAcquire() (*Permit, bool) {
	if !s.sem.TryAcquire(1) {
		return nil, false
	}
	return s.grant(), true
}

func (s *Slots) grant() *Permit {
	n := s.inUse.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return &Permit{slots: s}
}

// Release frees the slot. Only the first call has an effect; it reports
// whether this call released it.
func (p *Permit) Release() bool {
	if p == nil || !p.released.CompareAndSwap(false, true) {
		return false
	}
	p.slots.inUse.Add(-1)
	p.slots.sem.Release(1)
	return true
}

// Limit returns the number of permits.
func (s *Slots) Limit() int { return s.limit }

// InUse returns how many permits are currently held.
func (s *Slots) InUse() int { return int(s.inUse.Load()) }

// Peak returns the highest InUse ever observed.
func (s *Slots) Peak() int { return int(s.peak.Load()) }
