// Package window generates taper windows and applies them to sample blocks.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Tukey returns symmetric Tukey window coefficients. alpha is the tapered
// fraction of the window: 0 is rectangular, 1 is Hann.
func Tukey(size int, alpha float64) ([]float64, error) {
	if err := validateTukey(size, alpha); err != nil {
		return nil, err
	}

	out := make([]float64, size)
	for i := range out {
		out[i] = tukeyAt(samplePosition(i, size), alpha)
	}

	return out, nil
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

func samplePosition(n, size int) float64 {
	if size <= 1 {
		return 0
	}

	return float64(n) / float64(size-1)
}

// tukeyAt evaluates the window at normalized position x in [0,1].
func tukeyAt(x, alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}

	if alpha >= 1 {
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	}

	a := alpha / 2
	switch {
	case x < a:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-1)))
	case x <= 1-a:
		return 1
	default:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-2/alpha+1)))
	}
}
