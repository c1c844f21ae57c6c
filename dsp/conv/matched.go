package conv

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-sonar/dsp/core"
)

// Errors returned by correlation functions.
var (
	ErrEmptyInput    = errors.New("conv: empty input")
	ErrUnknownMethod = errors.New("conv: unknown correlation method")
)

// normFloor bounds every squared norm from below.
const normFloor = 1e-12

// Peak is the best-scoring lag of a correlation. Lag -1 with Score 0 means no
// lag could be evaluated.
type Peak struct {
	Lag   int
	Score float64
}

// NoPeak is the "no valid result" value.
var NoPeak = Peak{Lag: -1, Score: 0}

// Valid reports whether p refers to an evaluated lag.
func (p Peak) Valid() bool {
	return p.Lag >= 0
}

// Method selects how lag numerators are computed.
type Method int

const (
	// MethodDirect computes one dot product per lag.
	MethodDirect Method = iota
	// MethodFFT computes all lags with one FFT round trip.
	MethodFFT
)

// String returns the configuration name of the method.
func (m Method) String() string {
	switch m {
	case MethodDirect:
		return "direct"
	case MethodFFT:
		return "fft"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps "direct" or "fft" to a Method. The empty string selects
// MethodDirect.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "", "direct":
		return MethodDirect, nil
	case "fft":
		return MethodFFT, nil
	default:
		return MethodDirect, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Option configures a MatchedFilter.
type Option func(*MatchedFilter)

// WithMethod selects the correlation path.
func WithMethod(m Method) Option {
	return func(f *MatchedFilter) {
		f.method = m
	}
}

// MatchedFilter correlates snapshots against a fixed template. It caches the
// template norm and, for MethodFFT, the transform plan and template spectrum.
//
// A MatchedFilter reuses internal scratch space and is not safe for
// concurrent use.
type MatchedFilter struct {
	template []float64
	norm     float64
	method   Method

	fft *fftState
}

// NewMatchedFilter copies template and prepares a filter for it.
func NewMatchedFilter(template []float64, opts ...Option) (*MatchedFilter, error) {
	if len(template) == 0 {
		return nil, ErrEmptyInput
	}

	f := &MatchedFilter{
		template: append([]float64(nil), template...),
		method:   MethodDirect,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	if f.method != MethodDirect && f.method != MethodFFT {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, f.method)
	}

	f.norm = floorNorm(vecmath.DotProduct(f.template, f.template))

	return f, nil
}

// Len returns the template length.
func (f *MatchedFilter) Len() int {
	return len(f.template)
}

// Method returns the configured correlation path.
func (f *MatchedFilter) Method() Method {
	return f.method
}

// Find returns the best lag in [minLag, len(snapshot)-Len()]. It returns
// NoPeak when the snapshot is shorter than the template or the lag range is
// empty. A negative minLag is treated as 0.
func (f *MatchedFilter) Find(snapshot []float64, minLag int) Peak {
	if minLag < 0 {
		minLag = 0
	}

	last := len(snapshot) - len(f.template)
	if last < 0 || minLag > last {
		return NoPeak
	}

	if f.method == MethodFFT {
		peak, err := f.findFFT(snapshot, minLag)
		if err == nil {
			return peak
		}
		// The plan could not be built for this size; the direct path
		// yields the same result.
	}

	return f.findDirect(snapshot, minLag)
}

// Scores returns the normalized score of every lag in [0, len(snapshot)-Len()].
// Lags below minLag are reported as 0. It returns nil when the snapshot is
// shorter than the template.
func (f *MatchedFilter) Scores(snapshot []float64, minLag int) []float64 {
	last := len(snapshot) - len(f.template)
	if last < 0 {
		return nil
	}

	out := make([]float64, last+1)
	if minLag < 0 {
		minLag = 0
	}

	m := len(f.template)
	for lag := minLag; lag <= last; lag++ {
		out[lag] = f.scoreAt(snapshot[lag : lag+m])
	}

	return out
}

func (f *MatchedFilter) scoreAt(w []float64) float64 {
	dot := vecmath.DotProduct(f.template, w)
	energy := vecmath.DotProduct(w, w)

	return dot / (f.norm * floorNorm(energy))
}

func (f *MatchedFilter) findDirect(snapshot []float64, minLag int) Peak {
	m := len(f.template)
	last := len(snapshot) - m

	best := Peak{Lag: -1, Score: math.Inf(-1)}
	for lag := minLag; lag <= last; lag++ {
		score := f.scoreAt(snapshot[lag : lag+m])
		if score > best.Score {
			best = Peak{Lag: lag, Score: score}
		}
	}

	if best.Lag < 0 {
		return NoPeak
	}

	return best
}

// Correlate finds the lag at which template best matches snapshot, ignoring
// lags inside the blind zone of blindMs milliseconds. It evaluates every lag
// directly and is meant for one-off use; build a MatchedFilter to correlate
// repeatedly against the same template.
func Correlate(template, snapshot []float64, blindMs, sampleRate float64) Peak {
	if len(template) == 0 || len(snapshot) < len(template) {
		return NoPeak
	}

	f, err := NewMatchedFilter(template)
	if err != nil {
		return NoPeak
	}

	return f.Find(snapshot, BlindSamples(blindMs, sampleRate))
}

// Scores returns the full normalized score curve of template against
// snapshot, with lags inside the blind zone reported as 0.
func Scores(template, snapshot []float64, blindMs, sampleRate float64) []float64 {
	f, err := NewMatchedFilter(template)
	if err != nil {
		return nil
	}

	return f.Scores(snapshot, BlindSamples(blindMs, sampleRate))
}

// BlindSamples converts a blind zone in milliseconds to a minimum lag.
func BlindSamples(blindMs, sampleRate float64) int {
	return core.MsToSamples(blindMs, sampleRate)
}

func floorNorm(sumSquares float64) float64 {
	return sqrt(math.Max(normFloor, sumSquares))
}
