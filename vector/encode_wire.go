package vector

import (
	"fmt"

	"github.com/dot5enko/columnar-result-pager/schema"
	"github.com/dot5enko/columnar-result-pager/wire"
)

// EncodeVector writes v in the exact layout decodeVector reads back.
func EncodeVector(e *wire.Encoder, v *Vector) {

	e.PutProperty(fieldVecValidity, func(e *wire.Encoder) {
		e.PutNullable(v.Validity != nil, func(e *wire.Encoder) {
			e.PutData(v.Validity)
		})
	})

	switch v.Kind {
	case KindData:
		e.PutProperty(fieldVecData, func(e *wire.Encoder) { e.PutData(v.Data) })

	case KindString:
		e.PutProperty(fieldVecStrings, func(e *wire.Encoder) { e.PutStringList(v.Strs) })

	case KindBlob:
		e.PutProperty(fieldVecBlobs, func(e *wire.Encoder) {
			e.PutList(len(v.Blobs), func(e *wire.Encoder, idx int) {
				e.PutData(v.Blobs[idx])
			})
		})

	case KindStruct:
		e.PutProperty(fieldVecChildren, func(e *wire.Encoder) {
			e.PutList(len(v.Children), func(e *wire.Encoder, idx int) {
				EncodeVector(e, &v.Children[idx])
			})
		})

	case KindList:
		e.PutProperty(fieldVecListSize, func(e *wire.Encoder) { e.PutVarUint(uint64(v.Child.Rows)) })
		e.PutProperty(fieldVecEntries, func(e *wire.Encoder) {
			e.PutList(len(v.Entries), func(e *wire.Encoder, idx int) {
				e.PutVarUint(v.Entries[idx].Offset)
				e.PutVarUint(v.Entries[idx].Length)
			})
		})
		e.PutProperty(fieldVecChild, func(e *wire.Encoder) { EncodeVector(e, v.Child) })

	case KindArray:
		e.PutProperty(fieldVecStride, func(e *wire.Encoder) { e.PutVarUint(uint64(v.Stride)) })
		e.PutProperty(fieldVecChild, func(e *wire.Encoder) { EncodeVector(e, v.Child) })

	default:
		panic("unhandled vector kind, this should not happen")
	}

	e.PutObjectEnd()
}

func EncodeChunk(e *wire.Encoder, chunk *DataChunk) {
	e.PutProperty(fieldChunkRows, func(e *wire.Encoder) { e.PutVarUint(uint64(chunk.RowCount)) })
	e.PutProperty(fieldChunkVectors, func(e *wire.Encoder) {
		e.PutList(len(chunk.Vectors), func(e *wire.Encoder, idx int) {
			EncodeVector(e, &chunk.Vectors[idx])
		})
	})
	e.PutObjectEnd()
}

// EncodeChunkBytes encodes one chunk standalone, for transports that ship
// chunks in separate frames after the column header.
func EncodeChunkBytes(chunk *DataChunk) []byte {
	e := wire.NewEncoder()
	EncodeChunk(e, chunk)
	return e.Bytes()
}

// EncodeResult produces the full result message. The outermost record stays
// unterminated, matching DecodeResult.
func EncodeResult(r *Result) []byte {
	e := wire.NewEncoder()

	if r.Failed() {
		e.PutBool(false)
		e.PutString(r.Err)
		return e.Bytes()
	}

	e.PutBool(true)

	e.PutProperty(fieldResultNames, func(e *wire.Encoder) {
		e.PutStringList(r.ColumnNames())
	})

	e.PutProperty(fieldResultTypes, func(e *wire.Encoder) {
		e.PutList(len(r.Columns), func(e *wire.Encoder, idx int) {
			schema.EncodeTypeDescriptor(e, r.Columns[idx].Type)
		})
	})

	e.PutProperty(fieldResultChunks, func(e *wire.Encoder) {
		e.PutList(len(r.Chunks), func(e *wire.Encoder, idx int) {
			EncodeChunk(e, &r.Chunks[idx])
		})
	})

	return e.Bytes()
}

// BuildResult assembles a success result from plain row values, splitting
// them into chunks of at most chunkRows rows. Mostly a servant of tests, the
// transport loop and the demo.
func BuildResult(columns []schema.ResultColumn, rows [][]any, chunkRows int) (*Result, error) {
	if chunkRows <= 0 {
		chunkRows = 2048
	}

	result := &Result{Columns: columns}

	for start := 0; start < len(rows); start += chunkRows {
		end := start + chunkRows
		if end > len(rows) {
			end = len(rows)
		}

		chunk := DataChunk{RowCount: end - start}
		for col := range columns {
			colValues := make([]any, 0, end-start)
			for _, row := range rows[start:end] {
				if col >= len(row) {
					return nil, fmt.Errorf("row of %d values for %d columns", len(row), len(columns))
				}
				colValues = append(colValues, row[col])
			}

			v, err := NewVector(columns[col].Type, colValues)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", columns[col].Name, err)
			}
			chunk.Vectors = append(chunk.Vectors, v)
		}

		result.Chunks = append(result.Chunks, chunk)
	}

	return result, nil
}
