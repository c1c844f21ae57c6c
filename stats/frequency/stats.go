// Package frequency computes spectral descriptors of a signal block.
package frequency

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

// ErrTooShort is returned for blocks shorter than two samples.
var ErrTooShort = errors.New("frequency: signal too short")

// occupiedFraction is the share of energy enclosed by the occupied band.
const occupiedFraction = 0.90

// Stats describes the distribution of energy over frequency.
type Stats struct {
	BinCount int
	PeakHz   float64
	Centroid float64 // spectral centroid (Hz)
	Rolloff  float64 // frequency below which 85% of the energy lies (Hz)
	// LowHz and HighHz enclose the central 90% of the energy.
	LowHz  float64
	HighHz float64
}

// Occupied returns the width of the occupied band in Hz.
func (s Stats) Occupied() float64 {
	return s.HighHz - s.LowHz
}

// Magnitude returns the one-sided magnitude spectrum of signal, zero-padded
// to the next power of two. Bin i lies at i*sampleRate/fftSize.
func Magnitude(signal []float64) ([]float64, error) {
	if len(signal) < 2 {
		return nil, ErrTooShort
	}

	size := 2
	for size < len(signal) {
		size <<= 1
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("frequency: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, size)
	for i, v := range signal {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("frequency: forward FFT failed: %w", err)
	}

	mag := make([]float64, size/2+1)
	for i := range mag {
		mag[i] = cmplx.Abs(out[i])
	}

	return mag, nil
}

// Analyze computes Stats of signal.
func Analyze(signal []float64, sampleRate float64) (Stats, error) {
	mag, err := Magnitude(signal)
	if err != nil {
		return Stats{}, err
	}

	return Calculate(mag, sampleRate), nil
}

func binFreq(i int, sampleRate float64, binCount int) float64 {
	return float64(i) * sampleRate / float64(2*(binCount-1))
}

// Calculate computes Stats from a one-sided magnitude spectrum of
// len(magnitude) bins from DC to nyquist.
func Calculate(magnitude []float64, sampleRate float64) Stats {
	n := len(magnitude)
	s := Stats{BinCount: n}
	if n < 2 {
		return s
	}

	var sum, energy, weighted float64
	peak := 0
	for i, v := range magnitude {
		sum += v
		energy += v * v
		weighted += binFreq(i, sampleRate, n) * v
		if v > magnitude[peak] {
			peak = i
		}
	}

	if sum == 0 {
		return s
	}

	s.PeakHz = binFreq(peak, sampleRate, n)
	s.Centroid = weighted / sum
	s.Rolloff = energyQuantile(magnitude, sampleRate, energy, 0.85)
	s.LowHz = energyQuantile(magnitude, sampleRate, energy, (1-occupiedFraction)/2)
	s.HighHz = energyQuantile(magnitude, sampleRate, energy, (1+occupiedFraction)/2)

	return s
}

// energyQuantile returns the frequency below which fraction of the energy
// lies, interpolating linearly inside the crossing bin.
func energyQuantile(magnitude []float64, sampleRate, total, fraction float64) float64 {
	n := len(magnitude)
	target := fraction * total

	acc := 0.0
	for i, v := range magnitude {
		e := v * v
		if acc+e >= target {
			t := 0.0
			if e > 0 {
				t = (target - acc) / e
			}
			return binFreq(i, sampleRate, n) + (t-0.5)*binFreq(1, sampleRate, n)
		}
		acc += e
	}

	return binFreq(n-1, sampleRate, n)
}

// Centroid returns the spectral centroid of a magnitude spectrum in Hz.
func Centroid(magnitude []float64, sampleRate float64) float64 {
	return Calculate(magnitude, sampleRate).Centroid
}

// ToDB converts a linear magnitude to decibels, -Inf for zero.
func ToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v)
}
