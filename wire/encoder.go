package wire

import (
	"github.com/dot5enko/columnar-result-pager/bits"
)

// Encoder is the write side of the tagged format. The pager itself only
// decodes; encoding exists for the transport request path and for building
// byte-exact fixtures in tests.
type Encoder struct {
	w *bits.Writer
}

func NewEncoder() *Encoder {
	return &Encoder{w: bits.NewGrowingBuffer(256)}
}

func (e *Encoder) Bytes() []byte {
	return e.w.Bytes()
}

func (e *Encoder) Writer() *bits.Writer {
	return e.w
}

func (e *Encoder) PutField(id uint16) {
	e.w.PutUint16(id)
}

func (e *Encoder) PutObjectEnd() {
	e.w.PutUint16(ObjectEnd)
}

func (e *Encoder) PutVarUint(v uint64) {
	for v >= 0x80 {
		e.w.WriteByte(byte(v) | 0x80)
		v >>= 7
	}
	e.w.WriteByte(byte(v))
}

// PutVarInt zig-zag maps v before the varint run.
func (e *Encoder) PutVarInt(v int64) {
	e.PutVarUint(uint64(v<<1) ^ uint64(v>>63))
}

func (e *Encoder) PutBool(v bool) {
	if v {
		e.w.WriteByte(1)
	} else {
		e.w.WriteByte(0)
	}
}

func (e *Encoder) PutU8(v uint8) {
	e.w.WriteByte(v)
}

func (e *Encoder) PutString(s string) {
	e.PutVarUint(uint64(len(s)))
	e.w.Write([]byte(s))
}

func (e *Encoder) PutData(b []byte) {
	e.PutVarUint(uint64(len(b)))
	e.w.Write(b)
}

func (e *Encoder) PutNullable(present bool, fn func(e *Encoder)) {
	if !present {
		e.w.WriteByte(0)
		return
	}
	e.w.WriteByte(1)
	fn(e)
}

func (e *Encoder) PutList(count int, fn func(e *Encoder, idx int)) {
	e.PutVarUint(uint64(count))
	for i := 0; i < count; i++ {
		fn(e, i)
	}
}

func (e *Encoder) PutStringList(items []string) {
	e.PutList(len(items), func(e *Encoder, idx int) {
		e.PutString(items[idx])
	})
}

func (e *Encoder) PutProperty(id uint16, fn func(e *Encoder)) {
	e.PutField(id)
	fn(e)
}
