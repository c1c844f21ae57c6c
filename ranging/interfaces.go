package ranging

import (
	"context"
	"time"
)

// CaptureStream is an open microphone stream.
//
// The sink passed to Attach is called from the stream's delivery goroutine
// (typically a real-time audio thread) with mono samples in [-1, 1]. The
// sink does not retain the chunk, never blocks and never allocates.
type CaptureStream interface {
	SampleRate() float64
	Attach(sink func(chunk []float64)) error
	Detach() error
	Close() error
}

// PlaybackSink emits samples through a speaker. Play queues samples scaled by
// gain and returns once they are scheduled; it may be called concurrently.
type PlaybackSink interface {
	Play(ctx context.Context, samples []float64, gain float64) error
	Close() error
}

// Waiter blocks for a duration of stream time. Implementations return
// ctx.Err() when ctx ends first.
type Waiter interface {
	Wait(ctx context.Context, d time.Duration) error
}

// Logger is the logging surface the engine needs. *logrus.Logger and
// *logrus.Entry satisfy it.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// TimerWaiter waits on the wall clock.
type TimerWaiter struct{}

// Wait sleeps for d or until ctx is done.
func (TimerWaiter) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
