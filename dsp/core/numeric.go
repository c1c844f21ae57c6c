package core

import "math"

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// MsToSamples converts a duration in milliseconds to a rounded sample count.
// Negative results are clamped to zero.
func MsToSamples(ms, sampleRate float64) int {
	n := int(math.Round(ms / 1000 * sampleRate))
	if n < 0 {
		return 0
	}

	return n
}

// SamplesToSeconds converts a sample count to seconds.
// Returns 0 for a non-positive sample rate.
func SamplesToSeconds(samples int, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}

	return float64(samples) / sampleRate
}

// LinearPowerToDB converts linear power to dB (10*log10 convention).
// Values at or below floor are reported as floorDB so that silent input
// produces a finite diagnostic value.
func LinearPowerToDB(power, floorDB float64) float64 {
	if power <= 0 || math.IsNaN(power) {
		return floorDB
	}

	db := 10 * math.Log10(power)
	if db < floorDB {
		return floorDB
	}

	return db
}
