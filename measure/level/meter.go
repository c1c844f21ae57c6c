// Package level provides a streaming signal level meter that can be fed from
// an audio callback and read from another goroutine.
package level

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-sonar/dsp/core"
)

// Meter tracks the RMS and peak level over a sliding window.
//
// Process must be called from a single goroutine (the producer). RMS, Peak
// and DB may be called concurrently from any goroutine; they read the values
// published at the end of the latest Process call.
type Meter struct {
	sampleRate float64

	history  []float64 // squared samples
	writeIdx int
	filled   int
	sum      float64

	// Sample magnitudes for the peak, kept alongside the squares.
	mags []float64

	rmsBits  atomic.Uint64
	peakBits atomic.Uint64
}

// NewMeter creates a level meter with the given options.
func NewMeter(opts ...MeterOption) *Meter {
	cfg := ApplyMeterOptions(opts...)

	return &Meter{
		sampleRate: cfg.SampleRate,
		history:    make([]float64, cfg.Window),
		mags:       make([]float64, cfg.Window),
	}
}

// Window returns the window length in samples.
func (m *Meter) Window() int {
	return len(m.history)
}

// SampleRate returns the configured sample rate.
func (m *Meter) SampleRate() float64 {
	return m.sampleRate
}

// Process pushes samples through the window and publishes the new levels.
// It does not allocate.
func (m *Meter) Process(samples []float64) {
	if len(samples) == 0 {
		return
	}

	size := len(m.history)
	for _, x := range samples {
		sq := x * x
		m.sum += sq - m.history[m.writeIdx]
		m.history[m.writeIdx] = sq
		m.mags[m.writeIdx] = math.Abs(x)

		m.writeIdx++
		if m.writeIdx == size {
			m.writeIdx = 0
			// Resync the running sum once per window to bound drift.
			m.sum = 0
			for _, v := range m.history {
				m.sum += v
			}
		}

		if m.filled < size {
			m.filled++
		}
	}

	rms := 0.0
	if m.filled > 0 && m.sum > 0 {
		rms = math.Sqrt(m.sum / float64(m.filled))
	}

	peak := 0.0
	for _, v := range m.mags[:m.filled] {
		if v > peak {
			peak = v
		}
	}

	m.rmsBits.Store(math.Float64bits(rms))
	m.peakBits.Store(math.Float64bits(peak))
}

// RMS returns the most recently published RMS level.
func (m *Meter) RMS() float64 {
	return math.Float64frombits(m.rmsBits.Load())
}

// Peak returns the most recently published peak magnitude in the window.
func (m *Meter) Peak() float64 {
	return math.Float64frombits(m.peakBits.Load())
}

// DB returns the RMS level in dBFS, floored at -120 dB.
func (m *Meter) DB() float64 {
	return core.LinearPowerToDB(m.RMS()*m.RMS(), -120)
}

// Reset clears the window and published levels. It must not race with
// Process.
func (m *Meter) Reset() {
	clear(m.history)
	clear(m.mags)
	m.writeIdx = 0
	m.filled = 0
	m.sum = 0
	m.rmsBits.Store(0)
	m.peakBits.Store(0)
}
