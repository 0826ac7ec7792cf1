package layout

import "testing"

func TestResolverLsb(t *testing.T) {
	r := NewResolver(8, false)

	widths := []uint32{4, 1, 2, 1}
	wantOffsets := []uint32{0, 4, 5, 7}

	for i, w := range widths {
		off, ok := r.Next(w)
		if !ok {
			t.Fatalf("field %d: unexpected overflow", i)
		}
		if off != wantOffsets[i] {
			t.Errorf("field %d: offset = %d, want %d", i, off, wantOffsets[i])
		}
	}
	if r.Cursor() != 8 {
		t.Errorf("cursor = %d, want 8", r.Cursor())
	}
}

func TestResolverMsb(t *testing.T) {
	r := NewResolver(8, true)

	widths := []uint32{4, 1, 2, 1}
	wantOffsets := []uint32{4, 3, 1, 0}

	for i, w := range widths {
		off, ok := r.Next(w)
		if !ok {
			t.Fatalf("field %d: unexpected overflow", i)
		}
		if off != wantOffsets[i] {
			t.Errorf("field %d: offset = %d, want %d", i, off, wantOffsets[i])
		}
	}
}

// The Msb layout must be the mirror image of the Lsb layout:
// offsetMsb = total - offsetLsb - width.
func TestResolverOrderSymmetry(t *testing.T) {
	widths := []uint32{3, 7, 1, 10, 11}
	const total = 32

	lsb := NewResolver(total, false)
	msb := NewResolver(total, true)

	for i, w := range widths {
		lo, ok1 := lsb.Next(w)
		mo, ok2 := msb.Next(w)
		if !ok1 || !ok2 {
			t.Fatalf("field %d: unexpected overflow", i)
		}
		if mo != total-lo-w {
			t.Errorf("field %d: msb offset %d, want %d", i, mo, total-lo-w)
		}
	}
}

func TestResolverOverflow(t *testing.T) {
	r := NewResolver(8, false)

	if _, ok := r.Next(6); !ok {
		t.Fatal("first field should fit")
	}
	if _, ok := r.Next(4); ok {
		t.Fatal("second field should overflow")
	}
	// cursor keeps accounting for claimed width after overflow
	if r.Cursor() != 10 {
		t.Errorf("cursor = %d, want 10", r.Cursor())
	}
}

func TestResolverExactFit(t *testing.T) {
	r := NewResolver(16, true)

	off, ok := r.Next(16)
	if !ok || off != 0 {
		t.Errorf("Next(16) = (%d, %v), want (0, true)", off, ok)
	}
	if _, ok := r.Next(1); ok {
		t.Error("full resolver should overflow")
	}
}
