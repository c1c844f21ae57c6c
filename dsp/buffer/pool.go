package buffer

import "sync"

// Pool recycles capture windows of one fixed length so the scan loop does
// not allocate a snapshot per cycle.
type Pool struct {
	window int
	pool   sync.Pool
}

// NewPool returns a Pool of window-sized buffers. Negative windows are
// treated as 0.
func NewPool(window int) *Pool {
	window = max(0, window)

	return &Pool{
		window: window,
		pool: sync.Pool{
			New: func() any {
				return New(window)
			},
		},
	}
}

// Window returns the length of every buffer handed out by Get.
func (p *Pool) Window() int {
	return p.window
}

// Get returns a zeroed window-sized Buffer. Callers must return it via Put
// when done.
func (p *Pool) Get() *Buffer {
	b := p.pool.Get().(*Buffer)
	b.Resize(p.window)
	b.Zero()

	return b
}

// Snapshot returns a pooled Buffer holding the most recent window samples
// of r, oldest first.
func (p *Pool) Snapshot(r *Ring) *Buffer {
	b := p.Get()
	r.SnapshotInto(b.Samples())

	return b
}

// Put returns a Buffer to the pool. Buffers whose capacity cannot hold a
// window are dropped. The caller must not use the buffer afterwards.
func (p *Pool) Put(b *Buffer) {
	if b == nil || cap(b.samples) < p.window {
		return
	}

	p.pool.Put(b)
}
