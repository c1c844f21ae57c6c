package sweep

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sonar/dsp/window"
)

// Errors returned by sweep functions.
var (
	ErrInvalidFrequency  = errors.New("sweep: frequency must be positive")
	ErrInvalidDuration   = errors.New("sweep: duration must be positive")
	ErrInvalidSampleRate = errors.New("sweep: sample rate must be positive")
	ErrAboveNyquist      = errors.New("sweep: frequency must be below Nyquist")
	ErrInvalidTaper      = errors.New("sweep: taper fraction must be in [0, 1]")
)

// Chirp returns a linear sine sweep from f0 to f1 Hz lasting durationMs
// milliseconds at the given sample rate.
//
// The phase follows
//
//	φ(t) = 2π (f0·t + ½·k·t²),  k = (f1 − f0) / T
//
// and out[i] = sin(φ(i / sampleRate)). The output always holds at least one
// sample. Chirp never fails: a zero duration yields a single zero sample.
func Chirp(sampleRate, durationMs, f0, f1 float64) []float64 {
	T := durationMs / 1000
	n := chirpLen(sampleRate, T)

	k := 0.0
	if T > 0 {
		k = (f1 - f0) / T
	}

	out := make([]float64, n)
	if sampleRate <= 0 {
		return out
	}

	for i := range out {
		t := float64(i) / sampleRate
		out[i] = math.Sin(2 * math.Pi * (f0*t + 0.5*k*t*t))
	}

	return out
}

func chirpLen(sampleRate, seconds float64) int {
	n := int(math.Round(sampleRate * seconds))
	if n < 1 {
		return 1
	}

	return n
}

// Linear describes a linear chirp with strict validation.
type Linear struct {
	StartFreq  float64 // start frequency in Hz
	EndFreq    float64 // end frequency in Hz (may be below StartFreq for a down-sweep)
	Duration   float64 // sweep duration in seconds
	SampleRate float64 // sample rate in Hz
}

// Validate checks that the sweep parameters are valid.
func (s *Linear) Validate() error {
	if s.StartFreq <= 0 || s.EndFreq <= 0 {
		return ErrInvalidFrequency
	}

	if s.Duration <= 0 {
		return ErrInvalidDuration
	}

	if s.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}

	nyquist := s.SampleRate / 2
	if s.StartFreq >= nyquist || s.EndFreq >= nyquist {
		return fmt.Errorf("%w: %.0f Hz at %.0f Hz sample rate",
			ErrAboveNyquist, math.Max(s.StartFreq, s.EndFreq), s.SampleRate)
	}

	return nil
}

// Len returns the number of samples Generate produces.
func (s *Linear) Len() int {
	return chirpLen(s.SampleRate, s.Duration)
}

// Rate returns the sweep rate k in Hz per second.
func (s *Linear) Rate() float64 {
	if s.Duration <= 0 {
		return 0
	}

	return (s.EndFreq - s.StartFreq) / s.Duration
}

// InstantaneousFrequency returns f0 + k·t for t in seconds.
func (s *Linear) InstantaneousFrequency(t float64) float64 {
	return s.StartFreq + s.Rate()*t
}

// Generate creates the sweep signal.
func (s *Linear) Generate() ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return Chirp(s.SampleRate, s.Duration*1000, s.StartFreq, s.EndFreq), nil
}

// Taper applies a Tukey window in place, softening the onset and release of
// the sweep. fraction is the tapered share of the signal: 0 leaves samples
// untouched, 1 applies a full Hann window.
func Taper(samples []float64, fraction float64) error {
	if fraction < 0 || fraction > 1 || math.IsNaN(fraction) {
		return ErrInvalidTaper
	}

	// A window of fewer than three points would zero the signal.
	if fraction == 0 || len(samples) < 3 {
		return nil
	}

	coeffs, err := window.Tukey(len(samples), fraction)
	if err != nil {
		return fmt.Errorf("sweep: taper: %w", err)
	}

	return window.ApplyCoefficientsInPlace(samples, coeffs)
}
