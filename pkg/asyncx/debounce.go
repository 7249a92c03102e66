package asyncx

import (
	"sync"
	"time"
)

// Debouncer delays calls to fn until wait has passed without a new Call.
// Only the last arguments are delivered.
type Debouncer[A any] struct {
	wait time.Duration
	fn   func(A)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	args    A
	pending bool
}

// NewDebouncer wraps fn so that bursts of calls collapse into one.
func NewDebouncer[A any](wait time.Duration, fn func(A)) *Debouncer[A] {
	return &Debouncer[A]{wait: wait, fn: fn}
}

// Call records a and restarts the quiet window.
func (d *Debouncer[A]) Call(a A) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.args = a
	d.pending = true
	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen) })
}

func (d *Debouncer[A]) fire(gen uint64) {
	a, ok := d.take(gen)
	if ok {
		d.fn(a)
	}
}

// take claims the pending arguments if gen is still current.
func (d *Debouncer[A]) take(gen uint64) (A, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero A
	if !d.pending || gen != d.gen {
		return zero, false
	}
	a := d.args
	d.args = zero
	d.pending = false
	return a, true
}

// Cancel drops the pending call, if any.
func (d *Debouncer[A]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero A
	d.args = zero
	d.pending = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
}

// Flush runs the pending call now instead of waiting for the quiet window.
// It does nothing when no call is pending.
func (d *Debouncer[A]) Flush() {
	d.mu.Lock()
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	d.fire(gen)
}

// Pending reports whether a call is waiting for its window to close.
func (d *Debouncer[A]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Debounce returns a function with fn's signature that debounces it.
func Debounce[A any](wait time.Duration, fn func(A)) func(A) {
	return NewDebouncer(wait, fn).Call
}

// Debounced is Debounce for functions without arguments.
func Debounced(wait time.Duration, fn func()) func() {
	d := NewDebouncer(wait, func(struct{}) { fn() })
	return func() { d.Call(struct{}{}) }
}
