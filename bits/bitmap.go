package bits

import "math/bits"

// Bitmap is a row-validity mask over the raw bytes lifted from the wire.
// Bit i lives at byte i>>3, position i&7, lowest bit first. A nil Bitmap
// means every row is valid.
type Bitmap []byte

func NewBitmap(rows int) Bitmap {
	return make(Bitmap, (rows+7)>>3) // rows / 8, rounded up
}

// NewAllValid builds a mask with the first rows bits set.
func NewAllValid(rows int) Bitmap {
	b := NewBitmap(rows)
	for i := 0; i < rows; i++ {
		b.Set(i)
	}
	return b
}

func (b Bitmap) Set(bit int) {
	word := bit >> 3 // bit / 8
	mask := byte(1) << (bit & 7)
	b[word] |= mask
}

func (b Bitmap) Clear(bit int) {
	word := bit >> 3
	mask := byte(1) << (bit & 7)
	b[word] &^= mask
}

// Bit reports whether the given bit is set. Bits past the stored bytes read
// as false, callers bound row indices before asking.
func (b Bitmap) Bit(bit int) bool {
	word := bit >> 3
	if word >= len(b) {
		return false
	}
	return (b[word]>>(bit&7))&1 == 1
}

// Covers reports whether the mask carries at least rows bits.
func (b Bitmap) Covers(rows int) bool {
	return len(b)*8 >= rows
}

func (b Bitmap) Count() int {
	c := 0
	for _, w := range b {
		c += bits.OnesCount8(w)
	}
	return c
}
