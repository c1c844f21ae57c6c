package conv

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
)

// fftState caches the plan and template spectrum for one transform size.
type fftState struct {
	size     int
	plan     *algofft.Plan[complex128]
	tmplFreq []complex128

	sigTime []complex128
	sigFreq []complex128
	corr    []complex128
	prefix  []float64
}

func (f *MatchedFilter) prepareFFT(n int) (*fftState, error) {
	size := nextPowerOf2(n)
	if f.fft != nil && f.fft.size == size {
		return f.fft, nil
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	st := &fftState{
		size:     size,
		plan:     plan,
		tmplFreq: make([]complex128, size),
		sigTime:  make([]complex128, size),
		sigFreq:  make([]complex128, size),
		corr:     make([]complex128, size),
	}

	for i, v := range f.template {
		st.sigTime[i] = complex(v, 0)
	}

	if err := plan.Forward(st.tmplFreq, st.sigTime); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	// Conjugate once so each snapshot needs a single multiply.
	for i, v := range st.tmplFreq {
		st.tmplFreq[i] = complex(real(v), -imag(v))
	}

	f.fft = st

	return st, nil
}

// findFFT computes the numerators of all lags as IFFT(S · conj(T)). The
// transform size is at least len(snapshot), so lags up to n-m never wrap.
func (f *MatchedFilter) findFFT(snapshot []float64, minLag int) (Peak, error) {
	st, err := f.prepareFFT(len(snapshot))
	if err != nil {
		return NoPeak, err
	}

	clear(st.sigTime)
	for i, v := range snapshot {
		st.sigTime[i] = complex(v, 0)
	}

	if err := st.plan.Forward(st.sigFreq, st.sigTime); err != nil {
		return NoPeak, fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	for i := range st.sigFreq {
		st.sigFreq[i] *= st.tmplFreq[i]
	}

	if err := st.plan.Inverse(st.corr, st.sigFreq); err != nil {
		return NoPeak, fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	st.prefix = prefixSquares(st.prefix, snapshot)

	m := len(f.template)
	last := len(snapshot) - m

	best := Peak{Lag: -1, Score: math.Inf(-1)}
	for lag := minLag; lag <= last; lag++ {
		energy := st.prefix[lag+m] - st.prefix[lag]
		score := real(st.corr[lag]) / (f.norm * floorNorm(energy))

		if score > best.Score {
			best = Peak{Lag: lag, Score: score}
		}
	}

	if best.Lag < 0 {
		return NoPeak, nil
	}

	return best, nil
}

// prefixSquares fills dst[i] with the sum of x[:i]², reusing dst when it is
// large enough.
func prefixSquares(dst, x []float64) []float64 {
	if cap(dst) < len(x)+1 {
		dst = make([]float64, len(x)+1)
	}
	dst = dst[:len(x)+1]

	dst[0] = 0
	for i, v := range x {
		dst[i+1] = dst[i] + v*v
	}

	return dst
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
