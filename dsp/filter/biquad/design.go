package biquad

import (
	"errors"
	"math"
)

// ErrInvalidBand is returned by Band for an empty or out-of-range band.
var ErrInvalidBand = errors.New("biquad: invalid band")

// Lowpass designs an RBJ cookbook lowpass at freq (Hz) with quality factor q.
// It returns a pass-through section for frequencies outside (0, nyquist).
func Lowpass(freq, q, sampleRate float64) Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return passThrough()
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return normalize((1-cw)/2, 1-cw, (1-cw)/2, 1+alpha, -2*cw, 1-alpha)
}

// Highpass designs an RBJ cookbook highpass at freq (Hz) with quality
// factor q. It returns a pass-through section for frequencies outside
// (0, nyquist).
func Highpass(freq, q, sampleRate float64) Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return passThrough()
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return normalize((1+cw)/2, -(1 + cw), (1+cw)/2, 1+alpha, -2*cw, 1-alpha)
}

// ButterworthQ returns the section quality factors of an even-order
// Butterworth response.
func ButterworthQ(order int) []float64 {
	qs := make([]float64, order/2)
	for k := range qs {
		qs[k] = 1 / (2 * math.Cos(math.Pi*float64(2*k+1)/float64(2*order)))
	}

	return qs
}

// Band returns a fourth-order Butterworth highpass at lowHz cascaded with a
// fourth-order Butterworth lowpass at highHz. The lowpass is omitted when
// highHz lies at or above 95% of nyquist.
func Band(lowHz, highHz, sampleRate float64) (*Chain, error) {
	if !(sampleRate > 0) || !(lowHz > 0) || !(highHz > lowHz) || lowHz >= sampleRate/2 {
		return nil, ErrInvalidBand
	}

	qs := ButterworthQ(4)

	var coeffs []Coefficients
	for _, q := range qs {
		coeffs = append(coeffs, Highpass(lowHz, q, sampleRate))
	}

	if highHz < 0.95*sampleRate/2 {
		for _, q := range qs {
			coeffs = append(coeffs, Lowpass(highHz, q, sampleRate))
		}
	}

	return NewChain(coeffs...), nil
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	if !(freq > 0) || freq >= sampleRate/2 {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalize(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	return Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

func passThrough() Coefficients {
	return Coefficients{B0: 1}
}
