package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Summary holds the time-domain statistics reported for a capture block.
type Summary struct {
	Length      int
	DC          float64 // mean
	RMS         float64
	RMSdB       float64
	Peak        float64 // max |x|
	PeakdB      float64
	CrestFactor float64 // peak / RMS (linear)
}

func ampTodB(value float64) float64 {
	if value <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(value)
}

// Summarize computes a Summary of signal. An empty signal yields a zero
// Summary with -Inf levels.
func Summarize(signal []float64) Summary {
	s := Summary{
		Length: len(signal),
		RMSdB:  math.Inf(-1),
		PeakdB: math.Inf(-1),
	}
	if len(signal) == 0 {
		return s
	}

	s.DC = vecmath.Sum(signal) / float64(len(signal))
	s.RMS = RMS(signal)
	s.Peak = Peak(signal)
	s.RMSdB = ampTodB(s.RMS)
	s.PeakdB = ampTodB(s.Peak)

	if s.RMS > 0 {
		s.CrestFactor = s.Peak / s.RMS
	}

	return s
}

// RMS returns the root mean square of signal, or 0 when it is empty.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(vecmath.DotProduct(signal, signal) / float64(len(signal)))
}

// Peak returns the largest absolute sample value, or 0 when signal is empty.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return vecmath.MaxAbs(signal)
}
