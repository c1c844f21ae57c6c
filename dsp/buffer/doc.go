// Package buffer provides the capture ring used between an audio callback
// and an analysis loop, plus a pool of reusable sample buffers.
//
// Ring is a single-producer single-consumer circular buffer. The producer
// (typically an audio device callback) writes chunks without allocating,
// locking or blocking; the consumer copies the most recent window out with
// SnapshotInto. The write cursor is published atomically so the consumer
// always sees a consistent end position.
package buffer
