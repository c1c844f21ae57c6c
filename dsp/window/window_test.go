package window

import (
	"math"
	"testing"
)

func TestTukeyEdgesAndPlateau(t *testing.T) {
	w, err := Tukey(101, 0.2)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(w[0]) > 1e-12 || math.Abs(w[100]) > 1e-12 {
		t.Fatalf("edges = %v, %v, want 0", w[0], w[100])
	}

	// The middle 80% is flat.
	for i := 11; i <= 89; i++ {
		if w[i] != 1 {
			t.Fatalf("w[%d] = %v, want 1 on plateau", i, w[i])
		}
	}

	for i, v := range w {
		if v < 0 || v > 1 {
			t.Fatalf("w[%d] = %v out of [0,1]", i, v)
		}
	}
}

func TestTukeyAlphaLimits(t *testing.T) {
	rect, err := Tukey(16, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range rect {
		if v != 1 {
			t.Fatalf("alpha=0: w[%d] = %v, want 1", i, v)
		}
	}

	full, err := Tukey(16, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := range full {
		hann := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/15)
		if math.Abs(full[i]-hann) > 1e-12 {
			t.Fatalf("alpha=1: w[%d] = %v, want Hann %v", i, full[i], hann)
		}
	}
}

func TestTukeyInvalid(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		alpha float64
	}{
		{"zero size", 0, 0.5},
		{"negative alpha", 8, -0.1},
		{"alpha above one", 8, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Tukey(tt.size, tt.alpha); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestApplyCoefficientsInPlace(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	if err := ApplyCoefficientsInPlace(samples, []float64{0, 0.5, 1, 2}); err != nil {
		t.Fatal(err)
	}

	want := []float64{0, 1, 3, 8}
	for i := range want {
		if samples[i] != want[i] {
			t.Fatalf("samples[%d] = %v, want %v", i, samples[i], want[i])
		}
	}

	if err := ApplyCoefficientsInPlace(samples, []float64{1}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
