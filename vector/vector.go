// Package vector holds the decoded form of one result column per chunk of
// rows, plus the assembly of full query results from the wire.
package vector

import (
	"github.com/dot5enko/columnar-result-pager/bits"
	"github.com/dot5enko/columnar-result-pager/schema"
)

// Kind selects which storage fields of a Vector are live.
type Kind uint8

const (
	KindData Kind = iota
	KindString
	KindBlob
	KindStruct
	KindList
	KindArray
)

// ListEntry defines one row's slice of the flattened child vector.
type ListEntry struct {
	Offset uint64
	Length uint64
}

// Vector is one column of one chunk. Storage is physical: fixed-width bytes,
// materialized strings, blobs, struct children, or a flattened child with
// per-row entries (list) or a fixed stride (array). The validity mask, when
// present, wins over storage: an unset bit means null no matter what the
// bytes say. Data buffers alias the decoded message, a vector does not
// outlive its chunk.
type Vector struct {
	Type schema.TypeDescriptor
	Kind Kind
	Rows int

	Validity bits.Bitmap

	Data     []byte
	Strs     []string
	Blobs    [][]byte
	Children []Vector
	Entries  []ListEntry
	Child    *Vector
	Stride   int
}

// RowIsNull honors the validity mask only, storage is never consulted.
func (v *Vector) RowIsNull(row int) bool {
	if v.Validity == nil {
		return false
	}
	return !v.Validity.Bit(row)
}

// ValueAt materializes one row. Null rows come back as nil, nested types
// materialize recursively: lists and arrays as []any, structs as
// map[string]any keyed by declared field names.
func (v *Vector) ValueAt(row int) any {
	if row < 0 || row >= v.Rows {
		return nil
	}
	if v.RowIsNull(row) {
		return nil
	}

	switch v.Kind {
	case KindData:
		width, _ := schema.PhysicalWidth(v.Type)
		if width == 0 {
			return nil // NULL-typed column
		}
		start := row * width
		return decodeFixed(v.Type, v.Data[start:start+width])

	case KindString:
		return v.Strs[row]

	case KindBlob:
		return v.Blobs[row]

	case KindStruct:
		info, isOk := v.Type.Info.(schema.StructInfo)
		if !isOk {
			return nil
		}
		result := make(map[string]any, len(v.Children))
		for i := range v.Children {
			result[info.Fields[i].Name] = v.Children[i].ValueAt(row)
		}
		return result

	case KindList:
		entry := v.Entries[row]
		items := make([]any, 0, entry.Length)
		for i := uint64(0); i < entry.Length; i++ {
			items = append(items, v.Child.ValueAt(int(entry.Offset+i)))
		}
		return items

	case KindArray:
		items := make([]any, 0, v.Stride)
		for i := 0; i < v.Stride; i++ {
			items = append(items, v.Child.ValueAt(row*v.Stride+i))
		}
		return items

	default:
		panic("unhandled vector kind, this should not happen")
	}
}
