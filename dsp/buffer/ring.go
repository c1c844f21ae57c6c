package buffer

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrInvalidCapacity is returned by NewRing for a non-positive capacity.
var ErrInvalidCapacity = errors.New("buffer: ring capacity must be positive")

// Ring is a fixed-capacity circular sample buffer for one writer and one
// reader. The oldest samples are silently overwritten.
type Ring struct {
	data    []float64
	cursor  atomic.Int64 // next write position, always in [0, len(data))
	written atomic.Uint64
}

// NewRing allocates a zero-filled ring holding capacity samples.
func NewRing(capacity int) (*Ring, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	return &Ring{data: make([]float64, capacity)}, nil
}

// Cap returns the fixed capacity in samples.
func (r *Ring) Cap() int {
	return len(r.data)
}

// Cursor returns the published write position.
func (r *Ring) Cursor() int {
	return int(r.cursor.Load())
}

// Written returns the total number of samples ever written.
func (r *Ring) Written() uint64 {
	return r.written.Load()
}

// Write appends chunk at the cursor. A chunk that straddles the end of the
// storage is split into a tail and a head copy. When chunk is longer than the
// capacity only its last Cap() samples are kept.
//
// Write must only be called from the single producer. It never allocates.
func (r *Ring) Write(chunk []float64) {
	n := len(chunk)
	if n == 0 {
		return
	}

	size := len(r.data)
	if n > size {
		chunk = chunk[n-size:]
	}

	pos := int(r.cursor.Load())
	first := copy(r.data[pos:], chunk)
	if first < len(chunk) {
		copy(r.data, chunk[first:])
	}

	r.cursor.Store(int64((pos + len(chunk)) % size))
	r.written.Add(uint64(n))
}

// SnapshotInto fills dst with the len(dst) most recent samples, oldest
// first, and returns the number of samples copied. Requests longer than the
// capacity are clamped. Positions never written read as zero.
func (r *Ring) SnapshotInto(dst []float64) int {
	size := len(r.data)

	n := len(dst)
	if n > size {
		n = size
	}
	if n == 0 {
		return 0
	}

	end := int(r.cursor.Load())
	start := (end - n + size) % size

	if start+n <= size {
		copy(dst[:n], r.data[start:start+n])
		return n
	}

	first := copy(dst[:n], r.data[start:])
	copy(dst[first:n], r.data[:n-first])

	return n
}

// Snapshot returns a newly allocated copy of the n most recent samples.
func (r *Ring) Snapshot(n int) []float64 {
	if n < 0 {
		n = 0
	}
	if n > len(r.data) {
		n = len(r.data)
	}

	out := make([]float64, n)
	r.SnapshotInto(out)

	return out
}
