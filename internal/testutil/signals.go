// Package testutil holds deterministic signal builders and tolerance checks
// shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Echo returns a signal of the given length holding template scaled by gain
// and starting at sample lag. Samples past the end are dropped.
func Echo(template []float64, length, lag int, gain float64) []float64 {
	out := make([]float64, length)
	AddAt(out, template, lag, gain)
	return out
}

// AddAt mixes src·gain into dst starting at offset, clipping at both ends.
func AddAt(dst, src []float64, offset int, gain float64) {
	for i, v := range src {
		j := offset + i
		if j < 0 {
			continue
		}
		if j >= len(dst) {
			return
		}
		dst[j] += gain * v
	}
}

// Chunks splits x into consecutive slices of at most size samples, the way an
// audio callback delivers a stream.
func Chunks(x []float64, size int) [][]float64 {
	if size <= 0 {
		return [][]float64{x}
	}
	out := make([][]float64, 0, (len(x)+size-1)/size)
	for len(x) > size {
		out = append(out, x[:size])
		x = x[size:]
	}
	if len(x) > 0 {
		out = append(out, x)
	}
	return out
}
