package ranging

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-sonar/dsp/buffer"
	"github.com/cwbudde/algo-sonar/dsp/conv"
	"github.com/cwbudde/algo-sonar/dsp/core"
	"github.com/cwbudde/algo-sonar/dsp/filter/biquad"
	"github.com/cwbudde/algo-sonar/dsp/signal"
	"github.com/cwbudde/algo-sonar/dsp/spectrum"
	"github.com/cwbudde/algo-sonar/measure/level"
	"github.com/cwbudde/algo-sonar/measure/sweep"
)

const (
	// beepGain is the output gain of PlayTestBeep.
	beepGain = 0.3
	// bandBins is the number of Goertzel bins spanning the chirp band.
	bandBins = 5
)

// State is the lifecycle state of an Engine.
type State int32

const (
	StateUninitialized State = iota
	StateArmed
	StateRunning
	StateStopped
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateArmed:
		return "armed"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Engine runs the emit, record, correlate cycle. All methods are safe for
// concurrent use.
type Engine struct {
	cfg      Config
	method   conv.Method
	playback PlaybackSink

	log          Logger
	waiter       Waiter
	now          func() time.Time
	sessionID    string
	resultBuffer int

	mu       sync.Mutex
	state    State
	released bool

	// Set by Initialize, read-only afterwards.
	capture    CaptureStream
	sampleRate float64
	template   []float64
	ring       *buffer.Ring
	meter      *level.Meter
	filter     *conv.MatchedFilter
	band       *spectrum.Band
	prefilter  *biquad.Chain
	snapshots  *buffer.Pool
	recLen     int
	blind      int

	cancel   context.CancelFunc
	done     chan struct{}
	stopping atomic.Bool
	loopErr  error

	last atomic.Pointer[RangeSample]
}

// New validates cfg and returns an uninitialized engine that emits through
// playback.
func New(cfg Config, playback PlaybackSink, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if playback == nil {
		return nil, fmt.Errorf("%w: playback sink is nil", ErrConfiguration)
	}

	method, _ := conv.ParseMethod(cfg.Method)

	e := &Engine{
		cfg:      cfg,
		method:   method,
		playback: playback,
	}
	applyOptions(e, opts)

	return e, nil
}

// Initialize prepares the chirp template, capture ring and correlator for
// the stream's sample rate and attaches to the stream.
func (e *Engine) Initialize(ctx context.Context, capture CaptureStream) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateUninitialized {
		return fmt.Errorf("%w: initialize called while %v", ErrState, e.state)
	}

	if capture == nil {
		return fmt.Errorf("%w: capture stream is nil", ErrConfiguration)
	}

	sr := capture.SampleRate()
	if !positive(sr) {
		return fmt.Errorf("%w: capture sample rate must be > 0, got %v", ErrConfiguration, sr)
	}

	template := sweep.Chirp(sr, e.cfg.PulseMs, e.cfg.StartFreq, e.cfg.EndFreq)
	if err := sweep.Taper(template, e.cfg.TaperFraction); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	ring, err := buffer.NewRing(int(math.Round(sr * math.Max(minRingSeconds, e.cfg.RecordMs/1000))))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	var prefilter *biquad.Chain
	reference := template

	if e.cfg.Prefilter {
		lo := math.Min(e.cfg.StartFreq, e.cfg.EndFreq) * (1 - prefilterMargin)
		hi := math.Max(e.cfg.StartFreq, e.cfg.EndFreq) * (1 + prefilterMargin)

		prefilter, err = biquad.Band(lo, hi, sr)
		if err != nil {
			return fmt.Errorf("%w: prefilter %.0f-%.0f Hz: %w", ErrConfiguration, lo, hi, err)
		}

		reference = append([]float64(nil), template...)
		prefilter.ProcessBlock(reference)
	}

	filter, err := conv.NewMatchedFilter(reference, conv.WithMethod(e.method))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	nyquist := sr / 2
	band, err := spectrum.NewBand(math.Min(e.cfg.StartFreq, nyquist), math.Min(e.cfg.EndFreq, nyquist), sr, bandBins)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	meter := level.NewMeter(level.WithSampleRate(sr), level.WithWindow(e.cfg.MeterWindow))

	err = capture.Attach(func(chunk []float64) {
		ring.Write(chunk)
		meter.Process(chunk)
	})
	if err != nil {
		return fmt.Errorf("ranging: attach capture: %w", err)
	}

	e.capture = capture
	e.sampleRate = sr
	e.template = template
	e.ring = ring
	e.meter = meter
	e.filter = filter
	e.band = band
	e.prefilter = prefilter
	e.recLen = max(1, core.MsToSamples(e.cfg.RecordMs, sr))
	e.snapshots = buffer.NewPool(e.recLen)
	e.blind = conv.BlindSamples(e.cfg.BlindMs, sr)
	e.state = StateArmed

	e.log.Infof("initialized at %.0f Hz: chirp %d samples (%.0f-%.0f Hz), window %d samples, ring %d samples, %v correlation",
		sr, len(template), e.cfg.StartFreq, e.cfg.EndFreq, e.recLen, ring.Cap(), e.method)

	return nil
}

// Start launches the scan loop and returns the channel on which results are
// delivered in cycle order. The channel is closed when the loop ends, either
// through Stop, through cancellation of ctx, or on a capture error reported
// by Err. Once the loop has ended the engine is stopped; Stop must still be
// called to release the capture stream and playback sink.
func (e *Engine) Start(ctx context.Context) (<-chan RangeSample, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateArmed:
	case StateRunning:
		return nil, fmt.Errorf("%w: scan already running", ErrState)
	default:
		return nil, fmt.Errorf("%w: start called while %v", ErrState, e.state)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	results := make(chan RangeSample, e.resultBuffer)

	e.cancel = cancel
	e.done = make(chan struct{})
	e.state = StateRunning

	go e.loop(loopCtx, results, e.done)

	e.log.Infof("scan started, interval %v", e.cfg.Interval())

	return results, nil
}

// Run starts the scan and calls fn for every result until the loop ends.
// It returns nil after Stop and the loop error otherwise.
func (e *Engine) Run(ctx context.Context, fn func(RangeSample)) error {
	results, err := e.Start(ctx)
	if err != nil {
		return err
	}

	for r := range results {
		if fn != nil {
			fn(r)
		}
	}

	return e.Err()
}

// Stop ends the scan loop, waits for it to exit and releases the capture
// stream and playback sink. It is idempotent and valid in every state.
func (e *Engine) Stop() error {
	e.mu.Lock()

	if e.released {
		e.mu.Unlock()
		return nil
	}

	prev := e.state
	e.state = StateStopped
	e.released = true
	cancel, done := e.cancel, e.done
	e.mu.Unlock()

	if cancel != nil {
		e.stopping.Store(true)
		cancel()
		<-done
	}

	err := e.release()
	if err != nil {
		e.log.Warnf("stop: %v", err)
	}

	e.log.Infof("stopped (was %v)", prev)

	return err
}

// release frees each resource independently and joins their errors.
func (e *Engine) release() error {
	var errs []error

	if e.capture != nil {
		if err := e.capture.Detach(); err != nil {
			errs = append(errs, fmt.Errorf("detach capture: %w", err))
		}
	}

	if err := e.playback.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close playback: %w", err))
	}

	if e.capture != nil {
		if err := e.capture.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close capture: %w", err))
		}
	}

	return errors.Join(errs...)
}

// PlayTestBeep plays a sine tone at a fixed moderate gain so a user can
// check that the speaker works. It does not interact with the scan loop.
func (e *Engine) PlayTestBeep(ctx context.Context, durationMs, frequencyHz float64) error {
	e.mu.Lock()
	state, sr := e.state, e.sampleRate
	e.mu.Unlock()

	if state != StateArmed && state != StateRunning {
		return fmt.Errorf("%w: test beep needs an initialized engine, state is %v", ErrState, state)
	}

	gen := signal.NewGenerator([]core.ProcessorOption{core.WithSampleRate(sr)})

	tone, err := gen.Tone(frequencyHz, 1, durationMs)
	if err != nil {
		return fmt.Errorf("%w: test beep: %w", ErrConfiguration, err)
	}

	if err := e.playback.Play(ctx, tone, beepGain); err != nil {
		return fmt.Errorf("%w: test beep: %w", ErrPlayback, err)
	}

	e.log.Debugf("test beep %.0f Hz for %.0f ms", frequencyHz, durationMs)

	return nil
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SampleRate returns the capture sample rate, or 0 before Initialize.
func (e *Engine) SampleRate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.sampleRate
}

// Template returns a copy of the chirp template, or nil before Initialize.
func (e *Engine) Template() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.template == nil {
		return nil
	}

	return append([]float64(nil), e.template...)
}

// SessionID returns the identifier attached to this engine's log entries.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Last returns the most recent result, if any cycle has completed.
func (e *Engine) Last() (RangeSample, bool) {
	p := e.last.Load()
	if p == nil {
		return RangeSample{}, false
	}

	return *p, true
}

// Err returns the error that ended the scan loop, or nil if it is still
// running or was ended by Stop.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.loopErr
}
