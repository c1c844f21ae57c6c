package device

import (
	"context"
	"sync/atomic"
)

// NullSink discards playback. It stands in for a speaker when replaying a
// recording.
type NullSink struct {
	plays  atomic.Int64
	closed atomic.Bool
}

// Play counts and discards samples.
func (n *NullSink) Play(ctx context.Context, _ []float64, _ float64) error {
	if n.closed.Load() {
		return ErrClosed
	}

	n.plays.Add(1)

	return ctx.Err()
}

// Plays returns how many Play calls succeeded.
func (n *NullSink) Plays() int {
	return int(n.plays.Load())
}

// Close marks the sink closed.
func (n *NullSink) Close() error {
	n.closed.Store(true)
	return nil
}
