package bits

import "testing"

func TestBitmapSetGet(t *testing.T) {
	b := NewBitmap(10)

	b.Set(0)
	b.Set(2)
	b.Set(9)

	if !b.Bit(0) || !b.Bit(2) || !b.Bit(9) {
		t.Errorf("set bits not readable: %v %v %v", b.Bit(0), b.Bit(2), b.Bit(9))
	}
	if b.Bit(1) || b.Bit(8) {
		t.Errorf("unset bits read as set")
	}

	b.Clear(2)
	if b.Bit(2) {
		t.Errorf("bit 2 still set after clear")
	}

	if b.Count() != 2 {
		t.Errorf("count = %d, want 2", b.Count())
	}
}

func TestBitmapAllValid(t *testing.T) {
	b := NewAllValid(9)

	for i := 0; i < 9; i++ {
		if !b.Bit(i) {
			t.Errorf("bit %d not set", i)
		}
	}

	// byte tail past the row count stays zero
	if b.Bit(9) {
		t.Errorf("tail bit set")
	}

	if !b.Covers(9) {
		t.Errorf("mask of %d bytes should cover 9 rows", len(b))
	}
	if b.Covers(17) {
		t.Errorf("mask of %d bytes cannot cover 17 rows", len(b))
	}
}

func TestBitmapOutOfRangeReadsFalse(t *testing.T) {
	b := NewBitmap(8)
	if b.Bit(64) {
		t.Errorf("bit far past the mask read as set")
	}

	var none Bitmap
	if none.Bit(0) {
		t.Errorf("nil bitmap bit read as set")
	}
}
