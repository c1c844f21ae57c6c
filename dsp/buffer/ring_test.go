package buffer

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-sonar/internal/testutil"
)

func ramp(from, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(from + i)
	}
	return out
}

func TestNewRingInvalidCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		if _, err := NewRing(c); !errors.Is(err, ErrInvalidCapacity) {
			t.Fatalf("NewRing(%d) error = %v, want ErrInvalidCapacity", c, err)
		}
	}
}

func TestRingOverwriteKeepsMostRecent(t *testing.T) {
	r, err := NewRing(8)
	if err != nil {
		t.Fatal(err)
	}

	r.Write(ramp(0, 5))
	r.Write(ramp(5, 5)) // 10 samples into 8 slots

	testutil.RequireSliceNearlyEqual(t, r.Snapshot(8), ramp(2, 8), 0)

	if got := r.Cursor(); got != 2 {
		t.Fatalf("Cursor() = %d, want 2", got)
	}

	if got := r.Written(); got != 10 {
		t.Fatalf("Written() = %d, want 10", got)
	}
}

func TestRingStraddlingChunk(t *testing.T) {
	r, _ := NewRing(6)

	r.Write(ramp(0, 4))
	r.Write(ramp(4, 4)) // wraps: two samples at the tail, two at the head

	if got := r.Cursor(); got != 2 {
		t.Fatalf("Cursor() = %d, want 2", got)
	}

	testutil.RequireSliceNearlyEqual(t, r.Snapshot(4), ramp(4, 4), 0)
	testutil.RequireSliceNearlyEqual(t, r.Snapshot(6), ramp(2, 6), 0)
}

func TestRingChunkLongerThanCapacity(t *testing.T) {
	r, _ := NewRing(4)
	r.Write(ramp(0, 3))
	r.Write(ramp(100, 10))

	testutil.RequireSliceNearlyEqual(t, r.Snapshot(4), ramp(106, 4), 0)

	if got := r.Written(); got != 13 {
		t.Fatalf("Written() = %d, want 13", got)
	}
}

func TestRingSnapshotBeforeFill(t *testing.T) {
	r, _ := NewRing(5)
	r.Write([]float64{1, 2})

	testutil.RequireSliceNearlyEqual(t, r.Snapshot(5), []float64{0, 0, 0, 1, 2}, 0)
}

func TestRingSnapshotIntoClamps(t *testing.T) {
	r, _ := NewRing(3)
	r.Write(ramp(1, 3))

	dst := make([]float64, 5)
	if n := r.SnapshotInto(dst); n != 3 {
		t.Fatalf("SnapshotInto() = %d, want 3", n)
	}

	testutil.RequireSliceNearlyEqual(t, dst, []float64{1, 2, 3, 0, 0}, 0)
}

func TestRingSnapshotDoesNotAlias(t *testing.T) {
	r, _ := NewRing(4)
	r.Write(ramp(0, 4))

	snap := r.Snapshot(4)
	r.Write(ramp(10, 4))

	testutil.RequireSliceNearlyEqual(t, snap, ramp(0, 4), 0)
}

func TestRingManySmallChunks(t *testing.T) {
	r, _ := NewRing(7)
	signal := ramp(0, 50)

	for _, c := range testutil.Chunks(signal, 3) {
		r.Write(c)
	}

	testutil.RequireSliceNearlyEqual(t, r.Snapshot(7), ramp(43, 7), 0)
}

func TestRingWriteDoesNotAllocate(t *testing.T) {
	r, _ := NewRing(1024)
	chunk := ramp(0, 300)

	allocs := testing.AllocsPerRun(100, func() {
		r.Write(chunk)
	})

	if allocs != 0 {
		t.Fatalf("Write allocated %.1f times per run", allocs)
	}
}
