package device

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-sonar/ranging"
)

// ReadWav decodes a PCM WAV file into mono samples in [-1, 1]. Multichannel
// files are averaged down to one channel.
func ReadWav(path string) ([]float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("device: %s is not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("device: decode %s: %w", path, err)
	}

	channels := max(1, int(decoder.NumChans))
	scale := float64(int(1) << (uint(decoder.BitDepth) - 1))

	frames := len(buf.Data) / channels
	out := make([]float64, frames)
	for i := range out {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += buf.Data[i*channels+c]
		}
		out[i] = float64(sum) / float64(channels) / scale
	}

	return out, float64(decoder.SampleRate), nil
}

// WriteWav encodes mono samples as 16-bit PCM. Samples are clipped to
// [-1, 1].
func WriteWav(path string, samples []float64, sampleRate int) (err error) {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be > 0", ErrInvalid)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	data := make([]int, len(samples))
	for i, v := range samples {
		v = math.Max(-1, math.Min(1, v))
		data[i] = int(math.Round(v * math.MaxInt16))
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("device: encode %s: %w", path, err)
	}

	return enc.Close()
}

// WavSource replays a recording as a capture stream. Like Room it is also
// the engine's Waiter: waiting advances through the file.
type WavSource struct {
	sampleRate float64
	chunk      int

	mu      sync.Mutex
	samples []float64
	pos     int
	sink    func([]float64)
	closed  bool
}

var (
	_ ranging.CaptureStream = (*WavSource)(nil)
	_ ranging.Waiter        = (*WavSource)(nil)
)

// OpenWav loads path into a WavSource.
func OpenWav(path string, chunk int) (*WavSource, error) {
	samples, sr, err := ReadWav(path)
	if err != nil {
		return nil, err
	}

	return NewWavSource(samples, sr, chunk), nil
}

// NewWavSource replays samples at sampleRate, delivering at most chunk
// samples per sink call.
func NewWavSource(samples []float64, sampleRate float64, chunk int) *WavSource {
	if chunk <= 0 {
		chunk = 512
	}

	return &WavSource{
		sampleRate: sampleRate,
		chunk:      chunk,
		samples:    samples,
	}
}

// SampleRate returns the file's sample rate.
func (w *WavSource) SampleRate() float64 {
	return w.sampleRate
}

// Len returns the total number of samples.
func (w *WavSource) Len() int {
	return len(w.samples)
}

// Remaining returns the number of samples not yet delivered.
func (w *WavSource) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.samples) - w.pos
}

// Attach sets the sink.
func (w *WavSource) Attach(sink func(chunk []float64)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	w.sink = sink

	return nil
}

// Detach removes the sink.
func (w *WavSource) Detach() error {
	w.mu.Lock()
	w.sink = nil
	w.mu.Unlock()

	return nil
}

// Wait delivers the next d worth of samples. When the file runs out it
// delivers what is left and returns ErrEndOfStream.
func (w *WavSource) Wait(ctx context.Context, d time.Duration) error {
	n := int(math.Round(d.Seconds() * w.sampleRate))

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	for n > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		if w.pos >= len(w.samples) {
			return ErrEndOfStream
		}

		size := min(n, w.chunk, len(w.samples)-w.pos)
		if w.sink != nil {
			w.sink(w.samples[w.pos : w.pos+size])
		}

		w.pos += size
		n -= size
	}

	return ctx.Err()
}

// Close releases the samples. It is idempotent.
func (w *WavSource) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	w.sink = nil

	return nil
}
