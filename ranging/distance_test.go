package ranging

import (
	"testing"

	"github.com/cwbudde/algo-sonar/internal/testutil"
)

func TestEMA(t *testing.T) {
	tests := []struct {
		name  string
		prev  Distance
		cur   Distance
		alpha float64
		want  Distance
	}{
		{"absent prev takes cur", Absent, At(2), 0.15, At(2)},
		{"absent cur clears", At(2), Absent, 0.15, Absent},
		{"both absent", Absent, Absent, 0.15, Absent},
		{"blend", At(1), At(2), 0.25, At(1.25)},
		{"alpha one follows cur", At(1), At(3), 1, At(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EMA(tt.prev, tt.cur, tt.alpha)
			if got.Valid != tt.want.Valid {
				t.Fatalf("EMA() = %v, want %v", got, tt.want)
			}
			testutil.RequireNear(t, "meters", got.Meters, tt.want.Meters, 1e-12)
		})
	}
}

func TestMaxAbs(t *testing.T) {
	if got := MaxAbs([]float64{0.1, -0.9, 0.3}); got != 0.9 {
		t.Fatalf("MaxAbs() = %v, want 0.9", got)
	}
	if got := MaxAbs(nil); got != 0 {
		t.Fatalf("MaxAbs(nil) = %v, want 0", got)
	}
}

func TestLagToDistance(t *testing.T) {
	testutil.RequireNear(t, "480 @ 48k", LagToDistance(480, 48000), 1.715, 1e-12)
	testutil.RequireNear(t, "0", LagToDistance(0, 48000), 0, 0)
	testutil.RequireNear(t, "441 @ 44.1k", LagToDistance(441, 44100), 1.715, 1e-12)
}

func TestDistanceString(t *testing.T) {
	if got := At(1.5).String(); got != "1.50 m" {
		t.Fatalf("String() = %q", got)
	}
	if got := Absent.String(); got != "n/a" {
		t.Fatalf("Absent.String() = %q", got)
	}
}

func TestSmootherClearsOnMiss(t *testing.T) {
	s := NewSmoother(0.5, 0)

	steps := []struct {
		raw  Distance
		want Distance
	}{
		{At(2), At(2)},
		{At(4), At(3)},
		{Absent, Absent},
		{At(1), At(1)},
	}

	for i, st := range steps {
		got := s.Update(st.raw)
		if got.Valid != st.want.Valid || got.Meters != st.want.Meters {
			t.Fatalf("step %d: Update(%v) = %v, want %v", i, st.raw, got, st.want)
		}
	}
}

func TestSmootherHold(t *testing.T) {
	s := NewSmoother(0.5, 2)

	s.Update(At(2))
	if got := s.Update(Absent); got != At(2) {
		t.Fatalf("first miss = %v, want held 2 m", got)
	}
	if got := s.Update(Absent); got != At(2) {
		t.Fatalf("second miss = %v, want held 2 m", got)
	}
	if got := s.Update(Absent); got.Valid {
		t.Fatalf("third miss = %v, want absent", got)
	}

	s.Update(At(2))
	s.Update(Absent)
	if got := s.Update(At(4)); got != At(3) {
		t.Fatalf("recovery = %v, want 3 m", got)
	}

	s.Reset()
	if s.Value().Valid {
		t.Fatal("Reset() left a value")
	}
}
