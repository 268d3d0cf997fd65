package vector

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dot5enko/columnar-result-pager/bits"
	"github.com/dot5enko/columnar-result-pager/schema"
)

// NewVector builds a vector from one Go value per row, nil meaning null.
// The inverse of ValueAt: lists arrive as []any, structs as map[string]any.
func NewVector(typ schema.TypeDescriptor, values []any) (Vector, error) {

	v := Vector{Type: typ, Rows: len(values)}

	hasNulls := false
	for _, val := range values {
		if val == nil {
			hasNulls = true
			break
		}
	}
	if hasNulls {
		v.Validity = bits.NewBitmap(len(values))
		for i, val := range values {
			if val != nil {
				v.Validity.Set(i)
			}
		}
	}

	if width, fixed := schema.PhysicalWidth(typ); fixed {
		v.Kind = KindData
		v.Data = make([]byte, width*len(values))
		for i, val := range values {
			if val == nil {
				continue
			}
			if err := encodeFixed(typ, val, v.Data[i*width:(i+1)*width]); err != nil {
				return v, fmt.Errorf("row %d: %w", i, err)
			}
		}
		return v, nil
	}

	switch {
	case typ.Id.IsCharacter():
		v.Kind = KindString
		v.Strs = make([]string, len(values))
		for i, val := range values {
			if val == nil {
				continue
			}
			s, isOk := val.(string)
			if !isOk {
				return v, fmt.Errorf("row %d: %T is not a string", i, val)
			}
			v.Strs[i] = s
		}

	case typ.Id.IsBinary():
		v.Kind = KindBlob
		v.Blobs = make([][]byte, len(values))
		for i, val := range values {
			if val == nil {
				continue
			}
			b, isOk := val.([]byte)
			if !isOk {
				return v, fmt.Errorf("row %d: %T is not a byte slice", i, val)
			}
			v.Blobs[i] = b
		}

	case typ.Id == schema.StructType || typ.Id == schema.UnionType:
		info, isOk := typ.Info.(schema.StructInfo)
		if !isOk {
			return v, fmt.Errorf("struct type without field list")
		}
		v.Kind = KindStruct

		for _, field := range info.Fields {
			fieldValues := make([]any, len(values))
			for i, val := range values {
				if val == nil {
					continue
				}
				m, isOk := val.(map[string]any)
				if !isOk {
					return v, fmt.Errorf("row %d: %T is not a struct value", i, val)
				}
				fieldValues[i] = m[field.Name]
			}

			child, err := NewVector(field.Type, fieldValues)
			if err != nil {
				return v, fmt.Errorf("field %q: %w", field.Name, err)
			}
			v.Children = append(v.Children, child)
		}

	case typ.Id == schema.ListType || typ.Id == schema.MapType:
		info, isOk := typ.Info.(schema.ListInfo)
		if !isOk {
			return v, fmt.Errorf("list type without child")
		}
		v.Kind = KindList

		var flattened []any
		for i, val := range values {
			if val == nil {
				v.Entries = append(v.Entries, ListEntry{Offset: uint64(len(flattened))})
				continue
			}
			items, isOk := val.([]any)
			if !isOk {
				return v, fmt.Errorf("row %d: %T is not a list value", i, val)
			}
			v.Entries = append(v.Entries, ListEntry{Offset: uint64(len(flattened)), Length: uint64(len(items))})
			flattened = append(flattened, items...)
		}

		child, err := NewVector(info.Child, flattened)
		if err != nil {
			return v, err
		}
		v.Child = &child

	case typ.Id == schema.ArrayType:
		info, isOk := typ.Info.(schema.ArrayInfo)
		if !isOk {
			return v, fmt.Errorf("array type without child")
		}
		v.Kind = KindArray
		v.Stride = info.Size

		flattened := make([]any, 0, info.Size*len(values))
		for i, val := range values {
			if val == nil {
				for j := 0; j < info.Size; j++ {
					flattened = append(flattened, nil)
				}
				continue
			}
			items, isOk := val.([]any)
			if !isOk || len(items) != info.Size {
				return v, fmt.Errorf("row %d: want %d array elements, got %T", i, info.Size, val)
			}
			flattened = append(flattened, items...)
		}

		child, err := NewVector(info.Child, flattened)
		if err != nil {
			return v, err
		}
		v.Child = &child

	default:
		return v, &schema.UnrecognizedTypeError{Id: typ.Id}
	}

	return v, nil
}

func toInt64(val any) (int64, bool) {
	switch n := val.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func encodeFixed(typ schema.TypeDescriptor, val any, out []byte) error {
	switch typ.Id {

	case schema.BooleanType:
		b, isOk := val.(bool)
		if !isOk {
			return fmt.Errorf("%T is not a bool", val)
		}
		if b {
			out[0] = 1
		}

	case schema.TinyIntType, schema.SmallIntType, schema.IntegerType, schema.BigIntType:
		n, isOk := toInt64(val)
		if !isOk {
			return fmt.Errorf("%T does not fit %s", val, typ.Id.String())
		}
		putIntByWidth(out, uint64(n))

	case schema.UTinyIntType, schema.USmallIntType, schema.UIntegerType, schema.UBigIntType:
		n, isOk := toInt64(val)
		if isOk {
			putIntByWidth(out, uint64(n))
			break
		}
		u, isU := val.(uint64)
		if !isU {
			return fmt.Errorf("%T does not fit %s", val, typ.Id.String())
		}
		putIntByWidth(out, u)

	case schema.FloatType:
		f, isOk := toFloat64(val)
		if !isOk {
			return fmt.Errorf("%T is not a float", val)
		}
		binary.LittleEndian.PutUint32(out, math.Float32bits(float32(f)))

	case schema.DoubleType:
		f, isOk := toFloat64(val)
		if !isOk {
			return fmt.Errorf("%T is not a float", val)
		}
		binary.LittleEndian.PutUint64(out, math.Float64bits(f))

	case schema.HugeIntType:
		b, err := toBigInt(val)
		if err != nil {
			return err
		}
		putInt128LE(out, b)

	case schema.DecimalType:
		info, _ := typ.Info.(schema.DecimalInfo)
		dec, err := toDecimal(val)
		if err != nil {
			return err
		}
		scaled := dec.Shift(int32(info.Scale))
		if !scaled.IsInteger() {
			return fmt.Errorf("%s does not fit scale %d", dec.String(), info.Scale)
		}
		if len(out) == 8 {
			binary.LittleEndian.PutUint64(out, uint64(scaled.IntPart()))
		} else {
			putInt128LE(out, scaled.BigInt())
		}

	case schema.DateType:
		t, isOk := val.(time.Time)
		if !isOk {
			return fmt.Errorf("%T is not a time", val)
		}
		days := t.Unix() / 86400
		binary.LittleEndian.PutUint32(out, uint32(int32(days)))

	case schema.TimeType, schema.TimeTzType:
		dur, isOk := val.(time.Duration)
		if !isOk {
			return fmt.Errorf("%T is not a duration", val)
		}
		binary.LittleEndian.PutUint64(out, uint64(dur.Microseconds()))

	case schema.TimestampSecType, schema.TimestampMsType, schema.TimestampType,
		schema.TimestampNsType, schema.TimestampTzType:
		t, isOk := val.(time.Time)
		if !isOk {
			return fmt.Errorf("%T is not a time", val)
		}
		var n int64
		switch typ.Id {
		case schema.TimestampSecType:
			n = t.Unix()
		case schema.TimestampMsType:
			n = t.UnixMilli()
		case schema.TimestampNsType:
			n = t.UnixNano()
		default:
			n = t.UnixMicro()
		}
		binary.LittleEndian.PutUint64(out, uint64(n))

	case schema.IntervalType:
		iv, isOk := val.(Interval)
		if !isOk {
			return fmt.Errorf("%T is not an interval", val)
		}
		binary.LittleEndian.PutUint32(out[0:4], uint32(iv.Months))
		binary.LittleEndian.PutUint32(out[4:8], uint32(iv.Days))
		binary.LittleEndian.PutUint64(out[8:16], uint64(iv.Micros))

	case schema.UuidType:
		switch u := val.(type) {
		case uuid.UUID:
			copy(out, u[:])
		case string:
			parsed, err := uuid.Parse(u)
			if err != nil {
				return fmt.Errorf("bad uuid %q: %s", u, err.Error())
			}
			copy(out, parsed[:])
		default:
			return fmt.Errorf("%T is not a uuid", val)
		}

	case schema.EnumType:
		info, _ := typ.Info.(schema.EnumInfo)
		s, isOk := val.(string)
		if !isOk {
			return fmt.Errorf("%T is not an enum value", val)
		}
		idx := -1
		for i, candidate := range info.Values {
			if candidate == s {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%q is not in the enum dictionary", s)
		}
		putIntByWidth(out, uint64(idx))

	case schema.SqlNullType:
		// zero-width storage

	default:
		return &schema.UnrecognizedTypeError{Id: typ.Id}
	}

	return nil
}

func putIntByWidth(out []byte, v uint64) {
	switch len(out) {
	case 1:
		out[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(out, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(out, uint32(v))
	default:
		binary.LittleEndian.PutUint64(out, v)
	}
}

func toFloat64(val any) (float64, bool) {
	switch f := val.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	default:
		n, isOk := toInt64(val)
		return float64(n), isOk
	}
}

func toBigInt(val any) (*big.Int, error) {
	switch n := val.(type) {
	case *big.Int:
		return n, nil
	case string:
		b, isOk := new(big.Int).SetString(n, 10)
		if !isOk {
			return nil, fmt.Errorf("%q is not a base-10 integer", n)
		}
		return b, nil
	default:
		v, isOk := toInt64(val)
		if !isOk {
			return nil, fmt.Errorf("%T is not a wide integer", val)
		}
		return big.NewInt(v), nil
	}
}

func toDecimal(val any) (decimal.Decimal, error) {
	switch d := val.(type) {
	case decimal.Decimal:
		return d, nil
	case string:
		return decimal.NewFromString(d)
	default:
		n, isOk := toInt64(val)
		if !isOk {
			return decimal.Decimal{}, fmt.Errorf("%T is not a decimal", val)
		}
		return decimal.NewFromInt(n), nil
	}
}

// putInt128LE writes a two's complement little-endian 128-bit integer.
func putInt128LE(out []byte, v *big.Int) {
	var lo, hi uint64

	abs := new(big.Int).Abs(v)
	lo = abs.Uint64()
	hi = new(big.Int).Rsh(abs, 64).Uint64()

	if v.Sign() < 0 {
		// negate: two's complement over 128 bits
		lo = ^lo + 1
		hi = ^hi
		if lo == 0 {
			hi++
		}
	}

	binary.LittleEndian.PutUint64(out[0:8], lo)
	binary.LittleEndian.PutUint64(out[8:16], hi)
}
