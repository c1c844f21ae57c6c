package ranging

import "time"

// RangeSample is the outcome of one scan cycle.
type RangeSample struct {
	// Seq numbers cycles from 1 within a session.
	Seq uint64
	// Time is when the cycle's analysis finished.
	Time time.Time

	// Raw is this cycle's distance, absent on a miss.
	Raw Distance
	// Smoothed is the running average after folding in Raw.
	Smoothed Distance
	// Confidence is the winning correlation score, 0 when gated.
	Confidence float64
	// MicRMS is the microphone level at the start of the cycle.
	MicRMS float64
	// MicDB is MicRMS in dBFS, floored at -120.
	MicDB float64
	// MicPeak is the largest microphone magnitude in the level window.
	MicPeak float64

	// Peak is the largest absolute sample in the analyzed window.
	Peak float64
	// BandPowerDB is the window's mean level inside the chirp band.
	BandPowerDB float64
}

// Detected reports whether the cycle produced a distance.
func (s RangeSample) Detected() bool {
	return s.Raw.Valid
}
