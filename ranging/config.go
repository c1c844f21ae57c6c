package ranging

import (
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-sonar/dsp/conv"
)

const (
	// SpeedOfSound in air at roughly 20 °C, in m/s.
	SpeedOfSound = 343.0
	// AcceptThreshold is the minimum correlation score for a distance to be
	// reported.
	AcceptThreshold = 0.10
	// minRingSeconds is the shortest capture history the ring keeps.
	minRingSeconds = 1.0
	// prefilterMargin widens the prefilter band around the chirp.
	prefilterMargin = 0.2
)

// Config holds the tunable parameters of an Engine. It is copied by New and
// never changes afterwards.
type Config struct {
	// PulseMs is the chirp duration in milliseconds.
	PulseMs float64 `yaml:"pulse_ms"`
	// StartFreq and EndFreq bound the chirp in Hz.
	StartFreq float64 `yaml:"start_freq"`
	EndFreq   float64 `yaml:"end_freq"`
	// RecordMs is the capture window analyzed per cycle.
	RecordMs float64 `yaml:"record_ms"`
	// BlindMs suppresses lags shorter than this, hiding direct
	// speaker-to-microphone leakage.
	BlindMs float64 `yaml:"blind_ms"`
	// NoiseGate is the minimum snapshot peak amplitude worth correlating.
	NoiseGate float64 `yaml:"noise_gate"`
	// SmoothingAlpha weights the newest distance in the moving average.
	SmoothingAlpha float64 `yaml:"smoothing_alpha"`

	// SettleMs is the idle time after each capture window, letting
	// reverberation decay before the next chirp.
	SettleMs float64 `yaml:"settle_ms"`
	// TaperFraction applies a Tukey taper to the chirp edges (0 disables).
	TaperFraction float64 `yaml:"taper_fraction"`
	// Method selects the correlation path: "direct" or "fft".
	Method string `yaml:"method"`
	// HoldMisses keeps the smoothed distance through up to this many
	// consecutive misses. 0 clears it on the first miss.
	HoldMisses int `yaml:"hold_misses"`
	// MeterWindow is the microphone level window in samples.
	MeterWindow int `yaml:"meter_window"`
	// Prefilter band-limits each capture window to the chirp band before
	// correlation. The gate and Peak still see the unfiltered window. The
	// template is filtered the same way.
	Prefilter bool `yaml:"prefilter"`
}

// DefaultConfig returns the parameter set tuned for a phone-sized speaker
// and microphone in a room: a 40 ms near-ultrasonic sweep analyzed over
// 200 ms windows.
func DefaultConfig() Config {
	return Config{
		PulseMs:        40,
		StartFreq:      15000,
		EndFreq:        17000,
		RecordMs:       200,
		BlindMs:        2,
		NoiseGate:      0.05,
		SmoothingAlpha: 0.15,
		SettleMs:       50,
		TaperFraction:  0,
		Method:         "direct",
		HoldMisses:     0,
		MeterWindow:    2048,
	}
}

// Validate reports the first invalid field, wrapped in ErrConfiguration.
func (c Config) Validate() error {
	switch {
	case !positive(c.PulseMs):
		return fmt.Errorf("%w: pulse_ms must be > 0, got %v", ErrConfiguration, c.PulseMs)
	case !positive(c.RecordMs):
		return fmt.Errorf("%w: record_ms must be > 0, got %v", ErrConfiguration, c.RecordMs)
	case !positive(c.StartFreq) || !positive(c.EndFreq):
		return fmt.Errorf("%w: frequencies must be > 0, got %v..%v", ErrConfiguration, c.StartFreq, c.EndFreq)
	case c.BlindMs < 0 || math.IsNaN(c.BlindMs):
		return fmt.Errorf("%w: blind_ms must be >= 0, got %v", ErrConfiguration, c.BlindMs)
	case c.NoiseGate < 0 || c.NoiseGate > 1 || math.IsNaN(c.NoiseGate):
		return fmt.Errorf("%w: noise_gate must be in [0, 1], got %v", ErrConfiguration, c.NoiseGate)
	case !(c.SmoothingAlpha > 0 && c.SmoothingAlpha <= 1):
		return fmt.Errorf("%w: smoothing_alpha must be in (0, 1], got %v", ErrConfiguration, c.SmoothingAlpha)
	case c.SettleMs < 0 || math.IsNaN(c.SettleMs):
		return fmt.Errorf("%w: settle_ms must be >= 0, got %v", ErrConfiguration, c.SettleMs)
	case c.TaperFraction < 0 || c.TaperFraction > 1 || math.IsNaN(c.TaperFraction):
		return fmt.Errorf("%w: taper_fraction must be in [0, 1], got %v", ErrConfiguration, c.TaperFraction)
	case c.HoldMisses < 0:
		return fmt.Errorf("%w: hold_misses must be >= 0, got %d", ErrConfiguration, c.HoldMisses)
	case c.MeterWindow <= 0:
		return fmt.Errorf("%w: meter_window must be > 0, got %d", ErrConfiguration, c.MeterWindow)
	}

	if _, err := conv.ParseMethod(c.Method); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return nil
}

// Interval returns the scan cycle period: the capture window plus the
// settle time.
func (c Config) Interval() time.Duration {
	return msToDuration(c.RecordMs + c.SettleMs)
}

// RecordDuration returns the capture window as a Duration.
func (c Config) RecordDuration() time.Duration {
	return msToDuration(c.RecordMs)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func msToDuration(ms float64) time.Duration {
	if ms <= 0 {
		return 0
	}

	return time.Duration(math.Round(ms * float64(time.Millisecond)))
}
