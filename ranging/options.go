package ranging

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine logs to l. A nil logger is ignored.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithWaiter replaces the wall-clock waiter, for example with a simulated
// stream that advances time as it is waited on.
func WithWaiter(w Waiter) Option {
	return func(e *Engine) {
		if w != nil {
			e.waiter = w
		}
	}
}

// WithClock sets the time source used to stamp results.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.sessionID = id
		}
	}
}

// WithResultBuffer sets the result channel capacity.
func WithResultBuffer(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.resultBuffer = n
		}
	}
}

func applyOptions(e *Engine, opts []Option) {
	e.log = logrus.StandardLogger()
	e.waiter = TimerWaiter{}
	e.now = time.Now
	e.sessionID = uuid.NewString()
	e.resultBuffer = 8

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	if fl, ok := e.log.(logrus.FieldLogger); ok {
		e.log = fl.WithField("session", e.sessionID)
	}
}
