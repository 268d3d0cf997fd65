package schema

import (
	"fmt"

	"github.com/dot5enko/columnar-result-pager/wire"
)

// Descriptor kind discriminant, first byte of every type object.
const (
	descKindGeneric uint8 = 0
	descKindDecimal uint8 = 1
	descKindList    uint8 = 2
	descKindStruct  uint8 = 3
	descKindEnum    uint8 = 4
	descKindArray   uint8 = 5
)

// Field ids inside a type object. Payload ids repeat across kinds, tags are
// scoped to the object they appear in.
const (
	fieldDescId    uint16 = 100
	fieldDescAlias uint16 = 101

	fieldDecimalWidth uint16 = 102
	fieldDecimalScale uint16 = 103

	fieldDescChild    uint16 = 102
	fieldStructFields uint16 = 102
	fieldEnumCount    uint16 = 102
	fieldEnumValues   uint16 = 103
	fieldArraySize    uint16 = 103

	fieldPairName uint16 = 100
	fieldPairType uint16 = 101
)

// maxTypeNesting bounds descriptor recursion so a malicious message cannot
// blow the stack.
const maxTypeNesting = 64

// DecodeTypeDescriptor reads one type object: kind discriminant, logical id,
// optional alias, kind payload, object terminator. Ids outside the known set
// still decode (they render as UNKNOWN later), ids that do not fit the id
// byte do not.
func DecodeTypeDescriptor(d *wire.Deserializer) (TypeDescriptor, error) {
	return decodeTypeDepth(d, 0)
}

func decodeTypeDepth(d *wire.Deserializer, depth int) (desc TypeDescriptor, topErr error) {

	if depth > maxTypeNesting {
		return desc, fmt.Errorf("type nesting deeper than %d", maxTypeNesting)
	}

	kind, topErr := d.Reader().ReadU8()
	if topErr != nil {
		return desc, fmt.Errorf("unable to decode type kind: %w", topErr)
	}

	topErr = d.ReadProperty(fieldDescId, func(d *wire.Deserializer) error {
		raw, err := d.ReadVarUint()
		if err != nil {
			return err
		}
		if raw > 0xff {
			return fmt.Errorf("type id %d does not fit the id byte", raw)
		}
		desc.Id = LogicalTypeId(raw)
		return nil
	})
	if topErr != nil {
		return desc, topErr
	}

	desc.Alias, topErr = wire.PropertyWithDefault(d, fieldDescAlias, "", func(d *wire.Deserializer) (string, error) {
		return d.ReadString()
	})
	if topErr != nil {
		return desc, topErr
	}

	switch kind {
	case descKindGeneric:
		// no payload

	case descKindDecimal:
		var width, scale uint8
		topErr = d.ReadProperty(fieldDecimalWidth, func(d *wire.Deserializer) (err error) {
			width, err = d.Reader().ReadU8()
			return
		})
		if topErr != nil {
			return desc, topErr
		}
		topErr = d.ReadProperty(fieldDecimalScale, func(d *wire.Deserializer) (err error) {
			scale, err = d.Reader().ReadU8()
			return
		})
		if topErr != nil {
			return desc, topErr
		}
		if scale > width {
			return desc, fmt.Errorf("decimal scale %d exceeds width %d", scale, width)
		}
		desc.Info = DecimalInfo{Width: width, Scale: scale}

	case descKindList:
		var child TypeDescriptor
		topErr = d.ReadProperty(fieldDescChild, func(d *wire.Deserializer) (err error) {
			child, err = decodeTypeDepth(d, depth+1)
			return
		})
		if topErr != nil {
			return desc, topErr
		}
		desc.Info = ListInfo{Child: child}

	case descKindStruct:
		var fields []StructField
		seen := map[string]bool{}

		topErr = d.ReadProperty(fieldStructFields, func(d *wire.Deserializer) error {
			return d.ReadList(func(d *wire.Deserializer, idx int) error {
				var f StructField

				err := d.ReadProperty(fieldPairName, func(d *wire.Deserializer) (err error) {
					f.Name, err = d.ReadString()
					return
				})
				if err != nil {
					return err
				}

				err = d.ReadProperty(fieldPairType, func(d *wire.Deserializer) (err error) {
					f.Type, err = decodeTypeDepth(d, depth+1)
					return
				})
				if err != nil {
					return err
				}

				if err = d.ExpectObjectEnd(); err != nil {
					return err
				}

				if seen[f.Name] {
					return fmt.Errorf("duplicate struct field %q", f.Name)
				}
				seen[f.Name] = true

				fields = append(fields, f)
				return nil
			})
		})
		if topErr != nil {
			return desc, topErr
		}
		desc.Info = StructInfo{Fields: fields}

	case descKindEnum:
		var count uint64
		topErr = d.ReadProperty(fieldEnumCount, func(d *wire.Deserializer) (err error) {
			count, err = d.ReadVarUint()
			return
		})
		if topErr != nil {
			return desc, topErr
		}

		var values []string
		topErr = d.ReadProperty(fieldEnumValues, func(d *wire.Deserializer) (err error) {
			values, err = d.ReadStringList()
			return
		})
		if topErr != nil {
			return desc, topErr
		}

		if uint64(len(values)) != count {
			return desc, fmt.Errorf("enum dictionary carries %d values, header says %d", len(values), count)
		}
		desc.Info = EnumInfo{Values: values}

	case descKindArray:
		var child TypeDescriptor
		topErr = d.ReadProperty(fieldDescChild, func(d *wire.Deserializer) (err error) {
			child, err = decodeTypeDepth(d, depth+1)
			return
		})
		if topErr != nil {
			return desc, topErr
		}

		var size uint64
		topErr = d.ReadProperty(fieldArraySize, func(d *wire.Deserializer) (err error) {
			size, err = d.ReadVarUint()
			return
		})
		if topErr != nil {
			return desc, topErr
		}
		desc.Info = ArrayInfo{Child: child, Size: int(size)}

	default:
		return desc, fmt.Errorf("unknown type descriptor kind %d", kind)
	}

	if topErr = d.ExpectObjectEnd(); topErr != nil {
		return desc, topErr
	}

	return desc, nil
}

// EncodeTypeDescriptor writes desc in the exact shape DecodeTypeDescriptor
// reads. The kind is derived from the Info payload.
func EncodeTypeDescriptor(e *wire.Encoder, desc TypeDescriptor) {

	putCommon := func(kind uint8) {
		e.PutU8(kind)
		e.PutProperty(fieldDescId, func(e *wire.Encoder) { e.PutVarUint(uint64(desc.Id)) })
		if desc.Alias != "" {
			e.PutProperty(fieldDescAlias, func(e *wire.Encoder) { e.PutString(desc.Alias) })
		}
	}

	switch info := desc.Info.(type) {
	case nil:
		putCommon(descKindGeneric)

	case DecimalInfo:
		putCommon(descKindDecimal)
		e.PutProperty(fieldDecimalWidth, func(e *wire.Encoder) { e.PutU8(info.Width) })
		e.PutProperty(fieldDecimalScale, func(e *wire.Encoder) { e.PutU8(info.Scale) })

	case ListInfo:
		putCommon(descKindList)
		e.PutProperty(fieldDescChild, func(e *wire.Encoder) { EncodeTypeDescriptor(e, info.Child) })

	case StructInfo:
		putCommon(descKindStruct)
		e.PutProperty(fieldStructFields, func(e *wire.Encoder) {
			e.PutList(len(info.Fields), func(e *wire.Encoder, idx int) {
				f := info.Fields[idx]
				e.PutProperty(fieldPairName, func(e *wire.Encoder) { e.PutString(f.Name) })
				e.PutProperty(fieldPairType, func(e *wire.Encoder) { EncodeTypeDescriptor(e, f.Type) })
				e.PutObjectEnd()
			})
		})

	case EnumInfo:
		putCommon(descKindEnum)
		e.PutProperty(fieldEnumCount, func(e *wire.Encoder) { e.PutVarUint(uint64(len(info.Values))) })
		e.PutProperty(fieldEnumValues, func(e *wire.Encoder) { e.PutStringList(info.Values) })

	case ArrayInfo:
		putCommon(descKindArray)
		e.PutProperty(fieldDescChild, func(e *wire.Encoder) { EncodeTypeDescriptor(e, info.Child) })
		e.PutProperty(fieldArraySize, func(e *wire.Encoder) { e.PutVarUint(uint64(info.Size)) })

	default:
		panic(fmt.Sprintf("unhandled type info %T", desc.Info))
	}

	e.PutObjectEnd()
}
