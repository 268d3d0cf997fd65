package bits

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

var (
	ErrOutOfBounds = errors.New("read out of bounds")
)

// Reader is a cursor over a fixed in-memory buffer. All multi-byte reads are
// little-endian unless the method name says otherwise, and every read
// advances the offset by exactly the width it consumed.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) boundsErr(n int) error {
	return fmt.Errorf("%w: offset %d, want %d bytes, have %d", ErrOutOfBounds, r.pos, n, len(r.data)-r.pos)
}

func (r *Reader) Offset() int {
	return r.pos
}

func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) HasMore() bool {
	return r.pos < len(r.data)
}

func (r *Reader) Skip(n int) error {
	if r.pos+n > len(r.data) {
		return r.boundsErr(n)
	}
	r.pos += n
	return nil
}

func (r *Reader) PeekU8() (uint8, error) {
	if r.pos+1 > len(r.data) {
		return 0, r.boundsErr(1)
	}
	return r.data[r.pos], nil
}

func (r *Reader) PeekU16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, r.boundsErr(2)
	}
	return binary.LittleEndian.Uint16(r.data[r.pos:]), nil
}

func (r *Reader) ReadU8() (uint8, error) {
	if r.pos+1 > len(r.data) {
		return 0, r.boundsErr(1)
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *Reader) ReadI8() (int8, error) {
	u, err := r.ReadU8()
	return int8(u), err
}

func (r *Reader) ReadU16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, r.boundsErr(2)
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) ReadU16BE() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, r.boundsErr(2)
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) MustReadU16() uint16 {
	u, er := r.ReadU16()
	if er != nil {
		panic(er)
	}
	return u
}

func (r *Reader) MustReadU8() uint8 {
	u, er := r.ReadU8()
	if er != nil {
		panic(er)
	}
	return u
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadU32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, r.boundsErr(4)
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadU32BE() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, r.boundsErr(4)
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) ReadU64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, r.boundsErr(8)
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *Reader) MustReadU64() uint64 {
	u, er := r.ReadU64()
	if er != nil {
		panic(er)
	}
	return u
}

func (r *Reader) ReadF32() (float32, error) {
	u, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (r *Reader) ReadF64() (float64, error) {
	u, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

func (r *Reader) ReadUUID() (result uuid.UUID, err error) {
	view, err := r.View(16)
	if err != nil {
		return result, err
	}
	copy(result[:], view)
	return result, nil
}

// View returns n bytes as a subslice aliasing the underlying buffer. No copy
// is made, the bytes stay valid only as long as the buffer itself.
func (r *Reader) View(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, r.boundsErr(n)
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}
