package vector

import (
	"github.com/dot5enko/columnar-result-pager/bits"
	"github.com/dot5enko/columnar-result-pager/schema"
	"github.com/dot5enko/columnar-result-pager/wire"
)

// Field ids inside a vector object.
const (
	fieldVecValidity uint16 = 100
	fieldVecData     uint16 = 101
	fieldVecStrings  uint16 = 102
	fieldVecBlobs    uint16 = 103
	fieldVecChildren uint16 = 104
	fieldVecListSize uint16 = 105
	fieldVecEntries  uint16 = 106
	fieldVecChild    uint16 = 107
	fieldVecStride   uint16 = 108
)

// decodeVector reads one vector object for rows rows of the given type.
// Storage dispatch follows the logical type id: fixed-width buffer,
// string/blob lists, struct children, flattened list child plus entries, or
// a strided array child. The row count itself is never re-encoded per
// vector, it belongs to the enclosing chunk.
func decodeVector(d *wire.Deserializer, typ schema.TypeDescriptor, rows int) (v Vector, topErr error) {

	v.Type = typ
	v.Rows = rows

	topErr = d.ReadProperty(fieldVecValidity, func(d *wire.Deserializer) error {
		present, err := d.ReadNullable(func(d *wire.Deserializer) error {
			raw, err := d.ReadData()
			if err != nil {
				return err
			}
			v.Validity = bits.Bitmap(raw)
			return nil
		})
		if err != nil {
			return err
		}
		if present && !v.Validity.Covers(rows) {
			return protocolErrf(d, "validity mask of %d bytes cannot cover %d rows", len(v.Validity), rows)
		}
		return nil
	})
	if topErr != nil {
		return v, topErr
	}

	if width, fixed := schema.PhysicalWidth(typ); fixed {
		v.Kind = KindData
		topErr = d.ReadProperty(fieldVecData, func(d *wire.Deserializer) error {
			raw, err := d.ReadData()
			if err != nil {
				return err
			}
			if len(raw) != width*rows {
				return protocolErrf(d, "data buffer of %d bytes, want %d (%d rows x %d)", len(raw), width*rows, rows, width)
			}
			v.Data = raw
			return nil
		})
		if topErr != nil {
			return v, topErr
		}
		return v, d.ExpectObjectEnd()
	}

	switch {
	case typ.Id.IsCharacter():
		v.Kind = KindString
		topErr = d.ReadProperty(fieldVecStrings, func(d *wire.Deserializer) (err error) {
			v.Strs, err = d.ReadStringList()
			return
		})
		if topErr != nil {
			return v, topErr
		}
		if len(v.Strs) != rows {
			return v, protocolErrf(d, "string vector carries %d values for %d rows", len(v.Strs), rows)
		}

	case typ.Id.IsBinary():
		v.Kind = KindBlob
		topErr = d.ReadProperty(fieldVecBlobs, func(d *wire.Deserializer) error {
			return d.ReadList(func(d *wire.Deserializer, idx int) error {
				blob, err := d.ReadData()
				if err != nil {
					return err
				}
				v.Blobs = append(v.Blobs, blob)
				return nil
			})
		})
		if topErr != nil {
			return v, topErr
		}
		if len(v.Blobs) != rows {
			return v, protocolErrf(d, "blob vector carries %d values for %d rows", len(v.Blobs), rows)
		}

	case typ.Id == schema.StructType || typ.Id == schema.UnionType:
		info, isOk := typ.Info.(schema.StructInfo)
		if !isOk {
			return v, protocolErrf(d, "struct vector without field list in its type")
		}
		v.Kind = KindStruct
		topErr = d.ReadProperty(fieldVecChildren, func(d *wire.Deserializer) error {
			return d.ReadList(func(d *wire.Deserializer, idx int) error {
				if idx >= len(info.Fields) {
					return protocolErrf(d, "struct vector carries more children than the %d declared fields", len(info.Fields))
				}
				child, err := decodeVector(d, info.Fields[idx].Type, rows)
				if err != nil {
					return err
				}
				v.Children = append(v.Children, child)
				return nil
			})
		})
		if topErr != nil {
			return v, topErr
		}
		if len(v.Children) != len(info.Fields) {
			return v, protocolErrf(d, "struct vector carries %d children for %d fields", len(v.Children), len(info.Fields))
		}

	case typ.Id == schema.ListType || typ.Id == schema.MapType:
		info, isOk := typ.Info.(schema.ListInfo)
		if !isOk {
			return v, protocolErrf(d, "list vector without child in its type")
		}
		v.Kind = KindList

		var listSize uint64
		topErr = d.ReadProperty(fieldVecListSize, func(d *wire.Deserializer) (err error) {
			listSize, err = d.ReadVarUint()
			return
		})
		if topErr != nil {
			return v, topErr
		}

		topErr = d.ReadProperty(fieldVecEntries, func(d *wire.Deserializer) error {
			return d.ReadList(func(d *wire.Deserializer, idx int) error {
				var entry ListEntry
				var err error
				if entry.Offset, err = d.ReadVarUint(); err != nil {
					return err
				}
				if entry.Length, err = d.ReadVarUint(); err != nil {
					return err
				}
				if entry.Offset+entry.Length > listSize {
					return protocolErrf(d, "list entry [%d,+%d) overruns flattened size %d", entry.Offset, entry.Length, listSize)
				}
				v.Entries = append(v.Entries, entry)
				return nil
			})
		})
		if topErr != nil {
			return v, topErr
		}
		if len(v.Entries) != rows {
			return v, protocolErrf(d, "list vector carries %d entries for %d rows", len(v.Entries), rows)
		}

		topErr = d.ReadProperty(fieldVecChild, func(d *wire.Deserializer) error {
			child, err := decodeVector(d, info.Child, int(listSize))
			if err != nil {
				return err
			}
			v.Child = &child
			return nil
		})
		if topErr != nil {
			return v, topErr
		}

	case typ.Id == schema.ArrayType:
		info, isOk := typ.Info.(schema.ArrayInfo)
		if !isOk {
			return v, protocolErrf(d, "array vector without child in its type")
		}
		v.Kind = KindArray

		var stride uint64
		topErr = d.ReadProperty(fieldVecStride, func(d *wire.Deserializer) (err error) {
			stride, err = d.ReadVarUint()
			return
		})
		if topErr != nil {
			return v, topErr
		}
		if int(stride) != info.Size {
			return v, protocolErrf(d, "array stride %d disagrees with declared size %d", stride, info.Size)
		}
		v.Stride = int(stride)

		topErr = d.ReadProperty(fieldVecChild, func(d *wire.Deserializer) error {
			child, err := decodeVector(d, info.Child, v.Stride*rows)
			if err != nil {
				return err
			}
			v.Child = &child
			return nil
		})
		if topErr != nil {
			return v, topErr
		}

	default:
		// layout is type-dependent, an id we cannot place is fatal for
		// the whole message
		return v, &schema.UnrecognizedTypeError{Id: typ.Id}
	}

	return v, d.ExpectObjectEnd()
}

func protocolErrf(d *wire.Deserializer, format string, args ...any) error {
	return wire.Errorf(d, format, args...)
}
