package conv

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-sonar/internal/testutil"
	"github.com/cwbudde/algo-sonar/measure/sweep"
)

const testRate = 48000.0

func testTemplate() []float64 {
	return sweep.Chirp(testRate, 10, 15000, 17000)
}

func TestFindRecoversEmbeddedTemplate(t *testing.T) {
	tmpl := testTemplate()

	for _, method := range []Method{MethodDirect, MethodFFT} {
		t.Run(method.String(), func(t *testing.T) {
			for _, lag := range []int{96, 480, 1234, 4800 - len(tmpl)} {
				snap := testutil.Echo(tmpl, 4800, lag, 0.25)

				mf, err := NewMatchedFilter(tmpl, WithMethod(method))
				if err != nil {
					t.Fatal(err)
				}

				peak := mf.Find(snap, 0)
				if peak.Lag != lag {
					t.Fatalf("lag = %d, want %d", peak.Lag, lag)
				}

				testutil.RequireNear(t, "score", peak.Score, 1, 1e-9)
			}
		})
	}
}

func TestFindWithNoise(t *testing.T) {
	tmpl := testTemplate()
	snap := testutil.DeterministicNoise(7, 0.05, 9600)
	testutil.AddAt(snap, tmpl, 2000, 0.3)

	peak := Correlate(tmpl, snap, 2, testRate)
	if peak.Lag != 2000 {
		t.Fatalf("lag = %d, want 2000", peak.Lag)
	}

	if peak.Score < 0.5 || peak.Score > 1 {
		t.Fatalf("score = %v, want in [0.5, 1]", peak.Score)
	}
}

func TestFFTAgreesWithDirect(t *testing.T) {
	tmpl := testTemplate()
	snap := testutil.DeterministicNoise(3, 0.2, 5000)
	testutil.AddAt(snap, tmpl, 777, 0.4)
	testutil.AddAt(snap, tmpl, 3100, 0.1)

	direct, err := NewMatchedFilter(tmpl)
	if err != nil {
		t.Fatal(err)
	}

	fast, err := NewMatchedFilter(tmpl, WithMethod(MethodFFT))
	if err != nil {
		t.Fatal(err)
	}

	for _, minLag := range []int{0, 96, 1000} {
		d := direct.Find(snap, minLag)
		f := fast.Find(snap, minLag)

		if d.Lag != f.Lag {
			t.Fatalf("minLag %d: direct lag %d, fft lag %d", minLag, d.Lag, f.Lag)
		}

		testutil.RequireNear(t, "fft score", f.Score, d.Score, 1e-9)
	}
}

func TestShortSignal(t *testing.T) {
	got := Correlate([]float64{1, 2, 3}, []float64{1, 2}, 0, testRate)
	if got != NoPeak {
		t.Fatalf("Correlate() = %+v, want %+v", got, NoPeak)
	}

	if got.Valid() {
		t.Fatal("NoPeak reported valid")
	}
}

func TestBlindZoneBeyondRange(t *testing.T) {
	tmpl := testTemplate()
	snap := testutil.Echo(tmpl, len(tmpl)+50, 10, 1)

	// 2 ms at 48 kHz is 96 samples, past the last lag of 50.
	if got := Correlate(tmpl, snap, 2, testRate); got != NoPeak {
		t.Fatalf("Correlate() = %+v, want NoPeak", got)
	}

	mf, _ := NewMatchedFilter(tmpl, WithMethod(MethodFFT))
	if got := mf.Find(snap, 96); got != NoPeak {
		t.Fatalf("fft Find() = %+v, want NoPeak", got)
	}
}

func TestBlindZoneSkipsEarlyEcho(t *testing.T) {
	tmpl := testTemplate()
	snap := testutil.Echo(tmpl, 4800, 40, 1)
	testutil.AddAt(snap, tmpl, 1500, 0.5)

	peak := Correlate(tmpl, snap, 2, testRate)
	if peak.Lag < 96 {
		t.Fatalf("lag = %d inside the blind zone", peak.Lag)
	}

	if peak.Lag != 1500 {
		t.Fatalf("lag = %d, want 1500", peak.Lag)
	}
}

func TestTiesKeepEarliestLag(t *testing.T) {
	got := Correlate([]float64{1}, []float64{0.5, 0.5, 0.5, 0.5}, 0, testRate)
	if got.Lag != 0 {
		t.Fatalf("lag = %d, want 0", got.Lag)
	}

	mf, _ := NewMatchedFilter([]float64{1, 1})
	if got := mf.Find([]float64{1, 1, 1, 1, 1}, 2); got.Lag != 2 {
		t.Fatalf("lag = %d, want 2", got.Lag)
	}
}

func TestSilentSnapshotScoresZero(t *testing.T) {
	tmpl := testTemplate()

	for _, method := range []Method{MethodDirect, MethodFFT} {
		mf, _ := NewMatchedFilter(tmpl, WithMethod(method))
		peak := mf.Find(make([]float64, 2000), 0)

		if math.Abs(peak.Score) > 1e-6 {
			t.Fatalf("%v: score = %v, want 0", method, peak.Score)
		}
	}
}

func TestScores(t *testing.T) {
	tmpl := testTemplate()
	snap := testutil.Echo(tmpl, 1000, 300, 1)

	scores := Scores(tmpl, snap, 2, testRate)
	if len(scores) != 1000-len(tmpl)+1 {
		t.Fatalf("len = %d, want %d", len(scores), 1000-len(tmpl)+1)
	}

	for lag := 0; lag < 96; lag++ {
		if scores[lag] != 0 {
			t.Fatalf("scores[%d] = %v inside blind zone, want 0", lag, scores[lag])
		}
	}

	testutil.RequireNear(t, "scores[300]", scores[300], 1, 1e-9)

	if Scores(tmpl, snap[:10], 0, testRate) != nil {
		t.Fatal("short snapshot should yield nil scores")
	}
}

func TestNewMatchedFilterErrors(t *testing.T) {
	if _, err := NewMatchedFilter(nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}

	if _, err := NewMatchedFilter([]float64{1}, WithMethod(Method(9))); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("err = %v, want ErrUnknownMethod", err)
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"", MethodDirect, false},
		{"direct", MethodDirect, false},
		{"fft", MethodFFT, false},
		{"wavelet", MethodDirect, true},
	}

	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseMethod(%q) err = %v", tt.in, err)
		}

		if got != tt.want {
			t.Fatalf("ParseMethod(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFFTPlanReusedAcrossSizes(t *testing.T) {
	tmpl := testTemplate()
	mf, _ := NewMatchedFilter(tmpl, WithMethod(MethodFFT))

	for _, n := range []int{1000, 4000, 1000} {
		snap := testutil.Echo(tmpl, n, 200, 1)
		if got := mf.Find(snap, 0); got.Lag != 200 {
			t.Fatalf("n=%d: lag = %d, want 200", n, got.Lag)
		}
	}
}
