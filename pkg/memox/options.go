package memox

import (
	"time"

	"github.com/Abraxas-365/asynckit/pkg/logx"
)

const DefaultTTL = time.Minute

type options struct {
	ttl      time.Duration
	errorTTL time.Duration
	keyFunc  any
	now      func() time.Time
	logger   *logx.Logger
}

func defaultOptions() options {
	return options{
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: logx.Nop(),
	}
}

// Option configures a Memo.
type Option func(*options)

// WithTTL sets how long a successful outcome stays cached. A non-positive
// TTL disables caching but keeps in-flight sharing.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		o.ttl = d
	}
}

// WithErrorTTL caches failures for d. The default of 0 never caches them.
func WithErrorTTL(d time.Duration) Option {
	return func(o *options) {
		o.errorTTL = d
	}
}

// WithKeyFunc replaces HashKey. Its argument type must match the Memo's.
func WithKeyFunc[A any](fn func(A) (string, error)) Option {
	return func(o *options) {
		if fn != nil {
			o.keyFunc = KeyFunc[A](fn)
		}
	}
}

// WithClock sets the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger. Memos are silent by default.
func WithLogger(l *logx.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
