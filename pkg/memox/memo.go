// Package memox caches the outcome of an async function per argument.
//
// A live entry is returned without calling the function. Concurrent misses
// on the same key share one in-flight call, and failures are not cached
// unless WithErrorTTL says otherwise.
package memox

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Abraxas-365/asynckit/pkg/asyncx"
	"github.com/Abraxas-365/asynckit/pkg/logx"
)

// Func is the shape of a memoizable function.
type Func[A any, T any] func(ctx context.Context, arg A) (T, error)

type entry[T any] struct {
	res     asyncx.Result[T]
	expires time.Time
}

// Stats counts how calls were served.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Shared  int64 `json:"shared"`
	Entries int   `json:"entries"`
}

// Memo is a memoized Func. It is safe for concurrent use.
type Memo[A any, T any] struct {
	fn   Func[A, T]
	key  KeyFunc[A]
	opts options
	log  *logx.Entry

	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]entry[T]
	epoch   uint64

	hits   atomic.Int64
	misses atomic.Int64
	shared atomic.Int64
}

// New wraps fn. It panics if fn is nil or WithKeyFunc was given a function
// for a different argument type.
func New[A any, T any](fn Func[A, T], opts ...Option) *Memo[A, T] {
	if fn == nil {
		panic("memox: nil function")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	key := KeyFunc[A](HashKey[A])
	if o.keyFunc != nil {
		kf, ok := o.keyFunc.(KeyFunc[A])
		if !ok {
			panic(fmt.Sprintf("memox: key function %T does not accept %T", o.keyFunc, *new(A)))
		}
		key = kf
	}

	return &Memo[A, T]{
		fn:      fn,
		key:     key,
		opts:    o,
		log:     o.logger.Named("memox"),
		entries: make(map[string]entry[T]),
	}
}

// Memoize is New returning the bare function.
func Memoize[A any, T any](fn Func[A, T], opts ...Option) Func[A, T] {
	return New(fn, opts...).Get
}

// Get returns the cached outcome for arg, or calls the function.
//
// The shared call runs detached from any single caller's cancellation; a
// caller whose ctx ends first gets ctx.Err() while the call carries on for
// the others.
func (m *Memo[A, T]) Get(ctx context.Context, arg A) (T, error) {
	var zero T

	key, err := m.key(arg)
	if err != nil {
		return zero, err
	}

	res, epoch, ok := m.lookup(key)
	if ok {
		m.hits.Add(1)
		return res.Value, res.Err
	}
	m.misses.Add(1)

	// Flights are keyed per epoch so callers arriving after an
	// invalidation never join a call that started before it.
	flightCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(strconv.FormatUint(epoch, 10)+"/"+key, func() (any, error) {
		if res, _, ok := m.lookup(key); ok {
			return res, nil
		}

		v, err := asyncx.SafeCall(flightCtx, func(ctx context.Context) (T, error) {
			return m.fn(ctx, arg)
		})
		res := asyncx.Result[T]{Value: v, Err: err}
		m.store(key, epoch, res)
		return res, nil
	})

	select {
	case r := <-ch:
		if r.Shared {
			m.shared.Add(1)
			m.log.WithField("key", key).Debug("shared in-flight call")
		}
		res = r.Val.(asyncx.Result[T])
		return res.Value, res.Err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// lookup returns the live entry for key along with the current epoch.
func (m *Memo[A, T]) lookup(key string) (asyncx.Result[T], uint64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || !m.opts.now().Before(e.expires) {
		return asyncx.Result[T]{}, m.epoch, false
	}
	return e.res, m.epoch, true
}

// store writes res unless the cache was invalidated since the call started.
func (m *Memo[A, T]) store(key string, epoch uint64, res asyncx.Result[T]) {
	ttl := m.opts.ttl
	if res.Err != nil {
		ttl = m.opts.errorTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if epoch != m.epoch {
		return
	}
	if ttl <= 0 {
		delete(m.entries, key)
		return
	}
	m.entries[key] = entry[T]{res: res, expires: m.opts.now().Add(ttl)}
}

// Invalidate drops the entry for arg. A call already in flight for it is
// not cached when it completes.
func (m *Memo[A, T]) Invalidate(arg A) error {
	key, err := m.key(arg)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	m.epoch++
	return nil
}

// Purge drops every entry.
func (m *Memo[A, T]) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]entry[T])
	m.epoch++
}

// Len returns the number of live entries.
func (m *Memo[A, T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.opts.now()
	n := 0
	for _, e := range m.entries {
		if now.Before(e.expires) {
			n++
		}
	}
	return n
}

// Stats returns the hit, miss and shared-flight counters.
func (m *Memo[A, T]) Stats() Stats {
	return Stats{
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		Shared:  m.shared.Load(),
		Entries: m.Len(),
	}
}
