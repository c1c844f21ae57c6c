package buffer

import "testing"

func TestPoolGetReturnsZeroedWindow(t *testing.T) {
	p := NewPool(8)

	b := p.Get()
	if b.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", b.Len())
	}

	b.Samples()[0] = 42
	p.Put(b)

	b2 := p.Get()
	if b2.Len() != p.Window() {
		t.Fatalf("Len() = %d, want %d", b2.Len(), p.Window())
	}
	for i, v := range b2.Samples() {
		if v != 0 {
			t.Fatalf("reused Samples()[%d] = %v, want 0", i, v)
		}
	}

	p.Put(b2)
}

func TestPoolSnapshot(t *testing.T) {
	r, err := NewRing(16)
	if err != nil {
		t.Fatal(err)
	}
	r.Write(ramp(0, 20))

	p := NewPool(4)
	b := p.Snapshot(r)
	defer p.Put(b)

	want := []float64{16, 17, 18, 19}
	for i, v := range b.Samples() {
		if v != want[i] {
			t.Fatalf("Samples() = %v, want %v", b.Samples(), want)
		}
	}
}

func TestPoolDropsShortBuffers(t *testing.T) {
	p := NewPool(8)
	p.Put(New(2))

	if b := p.Get(); b.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", b.Len())
	}
}

func TestBufferResize(t *testing.T) {
	b := New(2)
	b.Resize(16)
	if b.Len() != 16 {
		t.Fatalf("Len() = %d, want 16", b.Len())
	}

	b.Resize(-1)
	if b.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", b.Len())
	}
}

func TestPoolPutNilSafe(_ *testing.T) {
	p := NewPool(4)
	p.Put(nil)
}
