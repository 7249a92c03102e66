package asyncx

import (
	"sync"
	"time"
)

// Throttler runs fn at most once per interval.
//
// The first call in an idle period runs immediately on the caller's
// goroutine and opens a window. Calls inside the window only record their
// arguments; when the window closes the latest recorded call runs once and
// opens a new window. With nothing recorded the throttler goes idle again.
type Throttler[A any] struct {
	interval time.Duration
	fn       func(A)

	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64
	open     bool
	trailing bool
	args     A
}

// NewThrottler wraps fn so that it runs at most once per interval.
func NewThrottler[A any](interval time.Duration, fn func(A)) *Throttler[A] {
	return &Throttler[A]{interval: interval, fn: fn}
}

// Call runs fn now when idle, or records a for the trailing edge.
func (t *Throttler[A]) Call(a A) {
	t.mu.Lock()
	if t.open {
		t.args = a
		t.trailing = true
		t.mu.Unlock()
		return
	}
	t.openWindow()
	t.mu.Unlock()

	t.fn(a)
}

// openWindow must be called with mu held.
func (t *Throttler[A]) openWindow() {
	t.open = true
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(t.interval, func() { t.closeWindow(gen) })
}

func (t *Throttler[A]) closeWindow(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	if !t.trailing {
		t.open = false
		t.mu.Unlock()
		return
	}

	var zero A
	a := t.args
	t.args = zero
	t.trailing = false
	t.openWindow()
	t.mu.Unlock()

	t.fn(a)
}

// Cancel drops any recorded trailing call and returns the throttler to idle.
func (t *Throttler[A]) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero A
	t.args = zero
	t.trailing = false
	t.open = false
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
	}
}

// Throttle returns a function with fn's signature that throttles it.
func Throttle[A any](interval time.Duration, fn func(A)) func(A) {
	return NewThrottler(interval, fn).Call
}

// Throttled is Throttle for functions without arguments.
func Throttled(interval time.Duration, fn func()) func() {
	t := NewThrottler(interval, func(struct{}) { fn() })
	return func() { t.Call(struct{}{}) }
}
