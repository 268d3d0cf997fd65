// Package wire implements the field-tagged binary encoding the analytical
// engine uses for query results.
//
// Layout rules:
//   - every structured field is preceded by a 2-byte little-endian field id
//   - an object ends with the reserved tag 0xFFFF
//   - integers are LEB128 varints (7 data bits per byte, little-endian),
//     signed values are zig-zag mapped first
//   - strings and blobs are varint length + raw bytes
//   - nullable values carry a 1-byte presence flag
//   - lists carry a varint count followed by the items
package wire

import (
	"github.com/dot5enko/columnar-result-pager/bits"
)

// ObjectEnd is the reserved field tag closing every nested object.
const ObjectEnd uint16 = 0xffff

const maxVarIntWidth = 10

type Deserializer struct {
	r *bits.Reader
}

func NewDeserializer(data []byte) *Deserializer {
	return &Deserializer{r: bits.NewReader(data)}
}

func FromReader(r *bits.Reader) *Deserializer {
	return &Deserializer{r: r}
}

// Reader exposes the raw cursor for callers that lift untagged byte runs,
// like vector data buffers.
func (d *Deserializer) Reader() *bits.Reader {
	return d.r
}

func (d *Deserializer) Offset() int {
	return d.r.Offset()
}

func (d *Deserializer) ExpectField(id uint16) error {
	got, err := d.r.ReadU16()
	if err != nil {
		return protoErr(d.r, err, "truncated field tag, want field %d", id)
	}

	if got != id {
		return protoErr(d.r, nil, "field mismatch: want %d, got %d", id, got)
	}

	return nil
}

// CheckField peeks the next tag. On a match it consumes the tag and reports
// true, otherwise the cursor stays where it was.
func (d *Deserializer) CheckField(id uint16) (bool, error) {
	got, err := d.r.PeekU16()
	if err != nil {
		return false, protoErr(d.r, err, "truncated tag while probing field %d", id)
	}

	if got != id {
		return false, nil
	}

	d.r.Skip(2)
	return true, nil
}

func (d *Deserializer) ExpectObjectEnd() error {
	got, err := d.r.ReadU16()
	if err != nil {
		return protoErr(d.r, err, "truncated object terminator")
	}

	if got != ObjectEnd {
		return protoErr(d.r, nil, "object not terminated: got field %d", got)
	}

	return nil
}

func (d *Deserializer) ReadVarUint() (uint64, error) {

	var result uint64
	var shift uint

	for i := 0; i < maxVarIntWidth; i++ {
		b, err := d.r.ReadU8()
		if err != nil {
			return 0, protoErr(d.r, err, "truncated varint")
		}

		result |= uint64(b&0x7f) << shift

		if b < 0x80 {
			return result, nil
		}
		shift += 7
	}

	return 0, protoErr(d.r, nil, "varint longer than %d bytes", maxVarIntWidth)
}

// ReadVarInt undoes the zig-zag mapping: (u >> 1) ^ -(u & 1).
func (d *Deserializer) ReadVarInt() (int64, error) {
	u, err := d.ReadVarUint()
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}

func (d *Deserializer) ReadBool() (bool, error) {
	b, err := d.r.ReadU8()
	if err != nil {
		return false, protoErr(d.r, err, "truncated bool")
	}
	return b != 0, nil
}

func (d *Deserializer) ReadString() (string, error) {
	n, err := d.ReadVarUint()
	if err != nil {
		return "", err
	}

	view, err := d.r.View(int(n))
	if err != nil {
		return "", protoErr(d.r, err, "truncated string of %d bytes", n)
	}

	return string(view), nil
}

// ReadData returns the blob as a view aliasing the message buffer.
func (d *Deserializer) ReadData() ([]byte, error) {
	n, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}

	view, err := d.r.View(int(n))
	if err != nil {
		return nil, protoErr(d.r, err, "truncated data of %d bytes", n)
	}

	return view, nil
}

// ReadNullable reads the presence flag and invokes fn only when it is set.
// Reports whether a value was present.
func (d *Deserializer) ReadNullable(fn func(d *Deserializer) error) (bool, error) {
	flag, err := d.r.ReadU8()
	if err != nil {
		return false, protoErr(d.r, err, "truncated presence flag")
	}

	if flag == 0 {
		return false, nil
	}

	return true, fn(d)
}

func (d *Deserializer) ReadList(fn func(d *Deserializer, idx int) error) error {
	count, err := d.ReadVarUint()
	if err != nil {
		return err
	}

	// every item takes at least one byte
	if count > uint64(d.r.Remaining()) {
		return protoErr(d.r, nil, "list count %d exceeds remaining %d bytes", count, d.r.Remaining())
	}

	for i := 0; i < int(count); i++ {
		if err := fn(d, i); err != nil {
			return err
		}
	}

	return nil
}

func (d *Deserializer) ReadStringList() ([]string, error) {
	var items []string

	err := d.ReadList(func(d *Deserializer, idx int) error {
		s, err := d.ReadString()
		if err != nil {
			return err
		}
		items = append(items, s)
		return nil
	})

	return items, err
}

func (d *Deserializer) ReadProperty(id uint16, fn func(d *Deserializer) error) error {
	if err := d.ExpectField(id); err != nil {
		return err
	}
	return fn(d)
}

// ReadOptionalProperty invokes fn only when the field is present. Reports
// whether it was.
func (d *Deserializer) ReadOptionalProperty(id uint16, fn func(d *Deserializer) error) (bool, error) {
	present, err := d.CheckField(id)
	if err != nil {
		return false, err
	}
	if !present {
		return false, nil
	}
	return true, fn(d)
}

// PropertyWithDefault reads a tagged value when the field is present and
// falls back to def when it is not. Never fails on absence.
func PropertyWithDefault[T any](d *Deserializer, id uint16, def T, fn func(d *Deserializer) (T, error)) (T, error) {
	present, err := d.CheckField(id)
	if err != nil {
		return def, err
	}
	if !present {
		return def, nil
	}
	return fn(d)
}
