package device

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cwbudde/algo-sonar/dsp/delay"
	"github.com/cwbudde/algo-sonar/dsp/signal"
	"github.com/cwbudde/algo-sonar/ranging"
)

// RoomConfig describes a simulated acoustic path between speaker and
// microphone.
type RoomConfig struct {
	SampleRate float64 `yaml:"sample_rate"`
	// DistanceM places a single reflector this far away.
	DistanceM float64 `yaml:"distance_m"`
	// Gain scales the echo relative to the emitted signal.
	Gain float64 `yaml:"gain"`
	// Leak scales the direct speaker-to-microphone path.
	Leak float64 `yaml:"leak"`
	// Noise is the amplitude of uniform background noise.
	Noise float64 `yaml:"noise"`
	Seed  int64   `yaml:"seed"`
	// ChunkSize is the nominal capture delivery size; deliveries vary
	// around it.
	ChunkSize int `yaml:"chunk_size"`
}

// DefaultRoomConfig returns a quiet room with a wall one meter away.
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		SampleRate: 48000,
		DistanceM:  1,
		Gain:       0.5,
		Seed:       1,
		ChunkSize:  512,
	}
}

type voice struct {
	samples []float64
	gain    float64
	pos     int
}

// Room simulates a speaker, a reflector and a microphone. It implements
// ranging.CaptureStream, ranging.PlaybackSink and ranging.Waiter: waiting on
// the room synthesizes exactly that much microphone signal and delivers it to
// the attached sink, so a scan runs as fast as it computes and every run is
// reproducible.
type Room struct {
	cfg   RoomConfig
	delay float64

	mu      sync.Mutex
	sink    func([]float64)
	voices  []*voice
	line    *delay.Line
	noise   *signal.Noise
	scratch []float64
	sizes   [3]int
	chunkNo int
	elapsed int64
	closed  bool
}

var (
	_ ranging.CaptureStream = (*Room)(nil)
	_ ranging.PlaybackSink  = (*Room)(nil)
	_ ranging.Waiter        = (*Room)(nil)
)

// NewRoom builds a room from cfg.
func NewRoom(cfg RoomConfig) (*Room, error) {
	switch {
	case !(cfg.SampleRate > 0):
		return nil, fmt.Errorf("%w: room sample rate must be > 0", ErrInvalid)
	case cfg.DistanceM < 0 || math.IsNaN(cfg.DistanceM):
		return nil, fmt.Errorf("%w: room distance must be >= 0", ErrInvalid)
	case cfg.Gain < 0 || cfg.Leak < 0 || cfg.Noise < 0:
		return nil, fmt.Errorf("%w: room gain, leak and noise must be >= 0", ErrInvalid)
	case cfg.ChunkSize <= 0:
		return nil, fmt.Errorf("%w: room chunk size must be > 0", ErrInvalid)
	}

	d := EchoDelay(cfg.DistanceM, cfg.SampleRate)

	line, err := delay.New(int(math.Ceil(d)) + 8)
	if err != nil {
		return nil, err
	}

	c := cfg.ChunkSize
	r := &Room{
		cfg:   cfg,
		delay: d,
		line:  line,
		noise: signal.NewNoise(cfg.Seed),
		sizes: [3]int{c, c/2 + 1, c + c/4},
	}
	r.scratch = make([]float64, r.sizes[2])

	return r, nil
}

// EchoDelay returns the round-trip delay in samples for a reflector at
// distanceM meters. Delays within 1e-6 of a whole sample are snapped to it.
func EchoDelay(distanceM, sampleRate float64) float64 {
	d := 2 * distanceM / ranging.SpeedOfSound * sampleRate
	if r := math.Round(d); math.Abs(d-r) < 1e-6 {
		return r
	}

	return d
}

// DelaySamples returns the simulated echo delay.
func (r *Room) DelaySamples() float64 {
	return r.delay
}

// SampleRate returns the simulated stream rate.
func (r *Room) SampleRate() float64 {
	return r.cfg.SampleRate
}

// Attach sets the microphone sink, replacing any previous one.
func (r *Room) Attach(sink func(chunk []float64)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	r.sink = sink

	return nil
}

// Detach removes the microphone sink.
func (r *Room) Detach() error {
	r.mu.Lock()
	r.sink = nil
	r.mu.Unlock()

	return nil
}

// Play queues samples for emission starting with the next synthesized
// sample.
func (r *Room) Play(ctx context.Context, samples []float64, gain float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	if len(samples) > 0 {
		r.voices = append(r.voices, &voice{
			samples: append([]float64(nil), samples...),
			gain:    gain,
		})
	}

	return nil
}

// Wait advances stream time by d, delivering the synthesized microphone
// signal to the sink in chunks of varying size.
func (r *Room) Wait(ctx context.Context, d time.Duration) error {
	n := int(math.Round(d.Seconds() * r.cfg.SampleRate))

	for n > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		pumped, err := r.pump(n)
		if err != nil {
			return err
		}

		n -= pumped
	}

	return ctx.Err()
}

func (r *Room) pump(limit int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrClosed
	}

	size := min(limit, r.sizes[r.chunkNo%len(r.sizes)])
	r.chunkNo++

	buf := r.scratch[:size]
	if err := r.noise.Fill(buf, r.cfg.Noise); err != nil {
		return 0, err
	}

	for i := range buf {
		x := r.nextEmitted()
		buf[i] += r.cfg.Leak*x + r.cfg.Gain*r.line.Tap(x, r.delay)
	}

	r.elapsed += int64(size)

	if r.sink != nil {
		r.sink(buf)
	}

	return size, nil
}

// nextEmitted mixes and advances the queued voices.
func (r *Room) nextEmitted() float64 {
	if len(r.voices) == 0 {
		return 0
	}

	sum := 0.0
	live := r.voices[:0]
	for _, v := range r.voices {
		sum += v.gain * v.samples[v.pos]
		v.pos++
		if v.pos < len(v.samples) {
			live = append(live, v)
		}
	}

	clear(r.voices[len(live):])
	r.voices = live

	return sum
}

// Elapsed returns the simulated stream time.
func (r *Room) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	return time.Duration(float64(r.elapsed) / r.cfg.SampleRate * float64(time.Second))
}

// Close stops the simulation. Further Play, Wait and Attach calls fail with
// ErrClosed. Close is idempotent.
func (r *Room) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.sink = nil
	r.voices = nil

	return nil
}
