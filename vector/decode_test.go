package vector

import (
	"errors"
	"testing"

	"github.com/dot5enko/columnar-result-pager/bits"
	"github.com/dot5enko/columnar-result-pager/schema"
	"github.com/dot5enko/columnar-result-pager/wire"
)

func decodeOne(t *testing.T, v *Vector, typ schema.TypeDescriptor, rows int) Vector {
	t.Helper()

	e := wire.NewEncoder()
	EncodeVector(e, v)

	got, err := decodeVector(wire.NewDeserializer(e.Bytes()), typ, rows)
	if err != nil {
		t.Fatalf("decode failed: %s", err.Error())
	}
	return got
}

func TestValidityWinsOverStorage(t *testing.T) {
	typ := schema.Simple(schema.IntegerType)

	// storage carries a real value at every row, the mask hides row 2
	v := Vector{Type: typ, Kind: KindData, Rows: 4}
	v.Data = make([]byte, 16)
	for i := 0; i < 4; i++ {
		v.Data[i*4] = byte(i + 10)
	}
	v.Validity = bits.NewAllValid(4)
	v.Validity.Clear(2)

	got := decodeOne(t, &v, typ, 4)

	if got.ValueAt(1) != int64(11) {
		t.Errorf("row 1 = %v, want 11", got.ValueAt(1))
	}
	if got.ValueAt(2) != nil {
		t.Errorf("masked row 2 = %v, want nil", got.ValueAt(2))
	}
	if got.ValueAt(3) != int64(13) {
		t.Errorf("row 3 = %v, want 13", got.ValueAt(3))
	}
}

func TestNoValidityMeansAllRowsValid(t *testing.T) {
	typ := schema.Simple(schema.SmallIntType)

	v, err := NewVector(typ, []any{1, 2, 3})
	if err != nil {
		t.Fatalf("build failed: %s", err.Error())
	}
	if v.Validity != nil {
		t.Fatalf("mask allocated without nulls")
	}

	got := decodeOne(t, &v, typ, 3)
	for i := 0; i < 3; i++ {
		if got.RowIsNull(i) {
			t.Errorf("row %d null without a mask", i)
		}
	}
}

func TestListFlattening(t *testing.T) {
	typ := schema.List(schema.Simple(schema.IntegerType))

	child, err := NewVector(schema.Simple(schema.IntegerType), []any{7, 8, 9})
	if err != nil {
		t.Fatalf("child build failed: %s", err.Error())
	}

	v := Vector{
		Type:    typ,
		Kind:    KindList,
		Rows:    2,
		Entries: []ListEntry{{Offset: 0, Length: 2}, {Offset: 2, Length: 1}},
		Child:   &child,
	}

	got := decodeOne(t, &v, typ, 2)

	row0, isOk := got.ValueAt(0).([]any)
	if !isOk || len(row0) != 2 || row0[0] != int64(7) || row0[1] != int64(8) {
		t.Errorf("row 0 = %v", got.ValueAt(0))
	}

	row1, isOk := got.ValueAt(1).([]any)
	if !isOk || len(row1) != 1 || row1[0] != int64(9) {
		t.Errorf("row 1 = %v", got.ValueAt(1))
	}
}

func TestListEntryOverrunRejected(t *testing.T) {
	typ := schema.List(schema.Simple(schema.IntegerType))

	child, _ := NewVector(schema.Simple(schema.IntegerType), []any{1})

	v := Vector{
		Type:    typ,
		Kind:    KindList,
		Rows:    1,
		Entries: []ListEntry{{Offset: 0, Length: 5}}, // child only has 1
		Child:   &child,
	}

	e := wire.NewEncoder()
	EncodeVector(e, &v)

	_, err := decodeVector(wire.NewDeserializer(e.Bytes()), typ, 1)
	var perr *wire.ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("overrunning entry accepted: %v", err)
	}
}

func TestArrayStride(t *testing.T) {
	typ := schema.Array(schema.Simple(schema.BigIntType), 2)

	v, err := NewVector(typ, []any{
		[]any{1, 2},
		[]any{3, 4},
	})
	if err != nil {
		t.Fatalf("build failed: %s", err.Error())
	}

	got := decodeOne(t, &v, typ, 2)

	row1, isOk := got.ValueAt(1).([]any)
	if !isOk || len(row1) != 2 || row1[0] != int64(3) || row1[1] != int64(4) {
		t.Errorf("row 1 = %v", got.ValueAt(1))
	}
}

func TestStructChildrenDecode(t *testing.T) {
	typ := schema.Struct(
		schema.StructField{Name: "x", Type: schema.Simple(schema.IntegerType)},
		schema.StructField{Name: "label", Type: schema.Simple(schema.VarcharType)},
	)

	v, err := NewVector(typ, []any{
		map[string]any{"x": 1, "label": "one"},
		nil,
		map[string]any{"x": 3, "label": "three"},
	})
	if err != nil {
		t.Fatalf("build failed: %s", err.Error())
	}

	got := decodeOne(t, &v, typ, 3)

	row0, isOk := got.ValueAt(0).(map[string]any)
	if !isOk || row0["x"] != int64(1) || row0["label"] != "one" {
		t.Errorf("row 0 = %v", got.ValueAt(0))
	}
	if got.ValueAt(1) != nil {
		t.Errorf("null struct row = %v", got.ValueAt(1))
	}
}

func TestUnrecognizedTypeIsFatal(t *testing.T) {
	typ := schema.TypeDescriptor{Id: 250}

	e := wire.NewEncoder()
	e.PutProperty(fieldVecValidity, func(e *wire.Encoder) { e.PutNullable(false, nil) })
	e.PutObjectEnd()

	_, err := decodeVector(wire.NewDeserializer(e.Bytes()), typ, 1)

	var uerr *schema.UnrecognizedTypeError
	if !errors.As(err, &uerr) {
		t.Fatalf("unknown id tolerated: %v", err)
	}
	if uerr.Id != 250 {
		t.Errorf("error id = %d", uerr.Id)
	}
}

func TestShortValidityMaskRejected(t *testing.T) {
	typ := schema.Simple(schema.IntegerType)

	e := wire.NewEncoder()
	e.PutProperty(fieldVecValidity, func(e *wire.Encoder) {
		e.PutNullable(true, func(e *wire.Encoder) {
			e.PutData([]byte{0xff}) // 8 bits for 100 rows
		})
	})

	_, err := decodeVector(wire.NewDeserializer(e.Bytes()), typ, 100)
	var perr *wire.ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("short mask accepted: %v", err)
	}
}

func TestDataBufferLengthChecked(t *testing.T) {
	typ := schema.Simple(schema.BigIntType)

	e := wire.NewEncoder()
	e.PutProperty(fieldVecValidity, func(e *wire.Encoder) { e.PutNullable(false, nil) })
	e.PutProperty(fieldVecData, func(e *wire.Encoder) { e.PutData(make([]byte, 12)) })
	e.PutObjectEnd()

	// 12 bytes cannot hold 2 rows of 8
	_, err := decodeVector(wire.NewDeserializer(e.Bytes()), typ, 2)
	var perr *wire.ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("bad buffer size accepted: %v", err)
	}
}

func BenchmarkDecodeIntVector(b *testing.B) {
	typ := schema.Simple(schema.BigIntType)

	values := make([]any, 2048)
	for i := range values {
		values[i] = i
	}
	v, _ := NewVector(typ, values)

	e := wire.NewEncoder()
	EncodeVector(e, &v)
	raw := e.Bytes()

	for i := 0; i < b.N; i++ {
		decodeVector(wire.NewDeserializer(raw), typ, 2048)
	}
}
