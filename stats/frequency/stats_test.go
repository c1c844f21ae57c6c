package frequency

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-sonar/internal/testutil"
	"github.com/cwbudde/algo-sonar/measure/sweep"
)

func TestMagnitudeLength(t *testing.T) {
	mag, err := Magnitude(make([]float64, 1000))
	if err != nil {
		t.Fatal(err)
	}
	if len(mag) != 513 {
		t.Fatalf("len = %d, want 513", len(mag))
	}

	if _, err := Magnitude([]float64{1}); !errors.Is(err, ErrTooShort) {
		t.Fatalf("Magnitude(1 sample) error = %v, want ErrTooShort", err)
	}
}

func TestAnalyzeSine(t *testing.T) {
	// 1500 Hz falls exactly on bin 64 of a 1024-point transform at 24 kHz.
	x := testutil.DeterministicSine(1500, 24000, 1, 1024)

	s, err := Analyze(x, 24000)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNear(t, "peak", s.PeakHz, 1500, 1e-9)
	testutil.RequireNear(t, "centroid", s.Centroid, 1500, 50)
	testutil.RequireNear(t, "low", s.LowHz, 1500, 30)
	testutil.RequireNear(t, "high", s.HighHz, 1500, 30)
}

func TestAnalyzeChirpBand(t *testing.T) {
	x := sweep.Chirp(48000, 40, 15000, 17000)

	s, err := Analyze(x, 48000)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNear(t, "centroid", s.Centroid, 16000, 150)
	if s.LowHz < 14800 || s.LowHz > 15300 {
		t.Errorf("LowHz = %v", s.LowHz)
	}
	if s.HighHz < 16700 || s.HighHz > 17200 {
		t.Errorf("HighHz = %v", s.HighHz)
	}
	if s.Occupied() < 1500 || s.Occupied() > 2300 {
		t.Errorf("Occupied() = %v", s.Occupied())
	}
}

func TestCalculateSilence(t *testing.T) {
	s := Calculate(make([]float64, 9), 1000)
	if s.BinCount != 9 || s.Centroid != 0 || s.PeakHz != 0 {
		t.Fatalf("Calculate(silence) = %+v", s)
	}
}

func TestToDB(t *testing.T) {
	if !math.IsInf(ToDB(0), -1) {
		t.Fatal("ToDB(0) should be -Inf")
	}
	testutil.RequireNear(t, "ToDB(0.1)", ToDB(0.1), -20, 1e-12)
}
