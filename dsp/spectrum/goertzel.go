package spectrum

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sonar/dsp/core"
)

// ErrEmptyBand is returned when a band analysis has no input or no bins.
var ErrEmptyBand = errors.New("spectrum: empty band analysis")

// Goertzel evaluates a single DFT bin over the samples processed since the
// last Reset.
//
// Spectral leakage occurs if the target frequency does not align with an
// integer number of cycles within the processed block.
type Goertzel struct {
	frequency  float64
	sampleRate float64
	coeff      float64
	s0, s1     float64
}

// NewGoertzel creates a new Goertzel analyzer for the target frequency.
//
// frequency must be between 0 and sampleRate/2.
func NewGoertzel(frequency, sampleRate float64) (*Goertzel, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("goertzel: sample rate must be > 0: %v", sampleRate)
	}

	if frequency < 0 || frequency > sampleRate/2 || math.IsNaN(frequency) {
		return nil, fmt.Errorf("goertzel: frequency must be between 0 and sampleRate/2: %v", frequency)
	}

	return &Goertzel{
		frequency:  frequency,
		sampleRate: sampleRate,
		coeff:      2 * math.Cos(2*math.Pi*frequency/sampleRate),
	}, nil
}

// Reset clears the internal state.
func (g *Goertzel) Reset() {
	g.s0 = 0
	g.s1 = 0
}

// ProcessBlock updates the internal state with a block of samples.
func (g *Goertzel) ProcessBlock(input []float64) {
	s0, s1 := g.s0, g.s1

	coeff := g.coeff
	for _, x := range input {
		s := x + coeff*s0 - s1
		s1 = s0
		s0 = s
	}

	g.s0, g.s1 = s0, s1
}

// Power returns |X[k]|² for the samples processed so far.
func (g *Goertzel) Power() float64 {
	return g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
}

// Magnitude returns |X[k]|.
func (g *Goertzel) Magnitude() float64 {
	p := g.Power()
	if p <= 0 {
		return 0
	}

	return math.Sqrt(p)
}

// Frequency returns the target frequency.
func (g *Goertzel) Frequency() float64 { return g.frequency }

// Band averages Goertzel bins spread evenly across a frequency range. It is
// used to measure how much energy a recording holds inside the probe band.
type Band struct {
	bins []*Goertzel
}

// NewBand creates count analyzers evenly spaced over [lo, hi]. A count of 1
// analyzes the band center.
func NewBand(lo, hi, sampleRate float64, count int) (*Band, error) {
	if count <= 0 {
		return nil, ErrEmptyBand
	}

	if lo > hi {
		lo, hi = hi, lo
	}

	b := &Band{bins: make([]*Goertzel, count)}
	for i := range b.bins {
		f := (lo + hi) / 2
		if count > 1 {
			f = lo + (hi-lo)*float64(i)/float64(count-1)
		}

		g, err := NewGoertzel(f, sampleRate)
		if err != nil {
			return nil, err
		}

		b.bins[i] = g
	}

	return b, nil
}

// LevelDB returns the mean bin power of block in dB, scaled so a full-scale
// sine on a bin frequency reads 0 dB. The result is floored at -200 dB.
func (b *Band) LevelDB(block []float64) (float64, error) {
	if len(block) == 0 {
		return 0, ErrEmptyBand
	}

	sum := 0.0
	for _, g := range b.bins {
		g.Reset()
		g.ProcessBlock(block)
		sum += g.Power()
	}

	n := float64(len(block))
	mean := sum / float64(len(b.bins)) * 4 / (n * n)

	return core.LinearPowerToDB(mean, -200), nil
}

// AnalyzeBlock computes the Goertzel power for a single frequency in one shot.
func AnalyzeBlock(input []float64, frequency, sampleRate float64) (float64, error) {
	g, err := NewGoertzel(frequency, sampleRate)
	if err != nil {
		return 0, err
	}

	g.ProcessBlock(input)

	return g.Power(), nil
}
