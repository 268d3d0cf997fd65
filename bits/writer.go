package bits

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

type Writer struct {
	pos   int
	data  []byte
	size  int
	order binary.ByteOrder

	growingEnabled bool
}

func NewEncodeBuffer(buf []byte, order binary.ByteOrder) Writer {

	result := Writer{}

	result.data = buf
	result.pos = 0
	result.size = len(buf)
	result.order = order

	return result
}

// NewGrowingBuffer is the fixture/transport flavor: starts small, grows as
// needed, always little-endian.
func NewGrowingBuffer(initial int) *Writer {
	if initial < 16 {
		initial = 16
	}
	w := NewEncodeBuffer(make([]byte, initial), binary.LittleEndian)
	w.EnableGrowing()
	return &w
}

func (this *Writer) EnableGrowing() {
	this.growingEnabled = true
}

func (this *Writer) Reset() {
	this.pos = 0
}

func (this Writer) Position() int {
	return this.pos
}

func (this *Writer) grow(atLeast int) {

	newSize := this.size * 2
	if this.pos+atLeast > newSize {
		newSize += atLeast
	}

	newBuf := make([]byte, newSize)

	copy(newBuf, this.data[:this.pos])
	this.data = newBuf
	this.size = newSize
}

func (this *Writer) tryGrow(n int) {
	if (this.pos + n) > this.size {
		if this.growingEnabled {
			this.grow(n)
		} else {
			panic(fmt.Sprintf("writer growing is disabled on pos : %d, try grow %d, from size : %d", this.pos, n, this.size))
		}
	}
}

func (this *Writer) Write(p []byte) (n int, err error) {

	oldl := len(p)
	this.tryGrow(oldl)

	n = copy(this.data[this.pos:], p)

	if oldl != n {
		return 0, errors.New("not enough space")
	}

	this.pos += n

	return
}

// EmptyBytes reserves i bytes at the current position, e.g. for a frame
// header that gets patched in after the payload size is known.
func (this *Writer) EmptyBytes(i int) {
	this.tryGrow(i)
	this.pos += i
}

// PatchUint32At overwrites 4 bytes at an earlier reserved position.
func (this *Writer) PatchUint32At(pos int, v uint32) {
	this.order.PutUint32(this.data[pos:], v)
}

func (this *Writer) Bytes() []byte {
	return this.data[:this.pos]
}

func (this *Writer) WriteByte(u uint8) {
	this.tryGrow(1)
	this.data[this.pos] = u
	this.pos++
}

func (this *Writer) PutUint16(v uint16) {
	this.tryGrow(2)
	this.order.PutUint16(this.data[this.pos:], v)
	this.pos += 2
}

func (this *Writer) PutInt32(v int32) {
	this.tryGrow(4)
	this.order.PutUint32(this.data[this.pos:], uint32(v))
	this.pos += 4
}

func (this *Writer) PutUint32(v uint32) {
	this.tryGrow(4)
	this.order.PutUint32(this.data[this.pos:], v)
	this.pos += 4
}

func (this *Writer) PutUint64(v uint64) {
	this.tryGrow(8)
	this.order.PutUint64(this.data[this.pos:], v)
	this.pos += 8
}

func (this *Writer) PutInt64(v int64) {
	this.tryGrow(8)
	this.order.PutUint64(this.data[this.pos:], uint64(v))
	this.pos += 8
}

func (this *Writer) PutFloat32(v float32) {
	this.tryGrow(4)
	this.order.PutUint32(this.data[this.pos:], math.Float32bits(v))
	this.pos += 4
}

func (this *Writer) PutFloat64(f float64) {
	this.tryGrow(8)
	this.order.PutUint64(this.data[this.pos:], math.Float64bits(f))
	this.pos += 8
}
