package biquad

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-sonar/internal/testutil"
)

func TestProcessBlockMatchesProcessSample(t *testing.T) {
	x := testutil.DeterministicNoise(3, 1, 257)

	a := NewSection(Highpass(1000, 0.7071, 48000))
	b := NewSection(Highpass(1000, 0.7071, 48000))

	want := make([]float64, len(x))
	for i, v := range x {
		want[i] = a.ProcessSample(v)
	}

	got := append([]float64(nil), x...)
	b.ProcessBlock(got[:100])
	b.ProcessBlock(got[100:])

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestButterworthQ(t *testing.T) {
	qs := ButterworthQ(4)
	if len(qs) != 2 {
		t.Fatalf("len = %d", len(qs))
	}
	testutil.RequireNear(t, "q0", qs[0], 0.5412, 1e-4)
	testutil.RequireNear(t, "q1", qs[1], 1.3066, 1e-4)

	testutil.RequireNear(t, "order 2", ButterworthQ(2)[0], 1/math.Sqrt2, 1e-12)
}

func TestBandResponse(t *testing.T) {
	const sr = 48000

	c, err := Band(12000, 20000, sr)
	if err != nil {
		t.Fatal(err)
	}
	if c.Order() != 8 {
		t.Fatalf("Order() = %d, want 8", c.Order())
	}

	tests := []struct {
		freq     float64
		min, max float64
	}{
		{100, math.Inf(-1), -60},
		{1000, math.Inf(-1), -60},
		{12000, -3.2, -2.8},
		{16000, -1, 0.5},
		{20000, -3.2, -2.8},
	}

	for _, tt := range tests {
		db := c.MagnitudeDB(tt.freq, sr)
		if db < tt.min || db > tt.max {
			t.Errorf("|H(%v Hz)| = %.2f dB, want [%v, %v]", tt.freq, db, tt.min, tt.max)
		}
	}
}

func TestBandOmitsLowpassNearNyquist(t *testing.T) {
	c, err := Band(15000, 23500, 48000)
	if err != nil {
		t.Fatal(err)
	}
	if c.Order() != 4 {
		t.Fatalf("Order() = %d, want 4", c.Order())
	}
}

func TestBandRemovesHum(t *testing.T) {
	const sr = 48000

	c, err := Band(12000, 20000, sr)
	if err != nil {
		t.Fatal(err)
	}

	x := testutil.DeterministicSine(100, sr, 1, sr/2)
	c.ProcessBlock(x)

	peak := 0.0
	for _, v := range x[sr/4:] {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak > 1e-3 {
		t.Fatalf("100 Hz residual peak = %v", peak)
	}

	c.Reset()
	if got := c.ProcessSample(0); got != 0 {
		t.Fatalf("ProcessSample after Reset = %v", got)
	}
}

func TestBandErrors(t *testing.T) {
	tests := []struct {
		name           string
		low, high, rate float64
	}{
		{"zero rate", 100, 200, 0},
		{"zero low", 0, 200, 48000},
		{"inverted", 300, 200, 48000},
		{"above nyquist", 30000, 31000, 48000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Band(tt.low, tt.high, tt.rate); !errors.Is(err, ErrInvalidBand) {
				t.Fatalf("Band() error = %v, want ErrInvalidBand", err)
			}
		})
	}
}

func TestDesignOutOfRangeIsPassThrough(t *testing.T) {
	s := NewSection(Lowpass(30000, 0.7, 48000))
	if got := s.ProcessSample(0.25); got != 0.25 {
		t.Fatalf("pass-through output = %v", got)
	}
}
