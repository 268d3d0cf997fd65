package vector

import (
	"github.com/dot5enko/columnar-result-pager/schema"
	"github.com/dot5enko/columnar-result-pager/wire"
)

const (
	fieldResultNames  uint16 = 100
	fieldResultTypes  uint16 = 101
	fieldResultChunks uint16 = 102

	fieldChunkRows    uint16 = 100
	fieldChunkVectors uint16 = 101
)

// DataChunk is one streamed batch of rows, one vector per result column.
type DataChunk struct {
	RowCount int
	Vectors  []Vector
}

// Result is a decoded query result: either an engine-side failure message or
// the column header plus the chunk sequence. Immutable once decoded.
type Result struct {
	Err     string
	Columns []schema.ResultColumn
	Chunks  []DataChunk
}

func (r *Result) Failed() bool {
	return r.Err != ""
}

func (r *Result) TotalRows() int {
	total := 0
	for i := range r.Chunks {
		total += r.Chunks[i].RowCount
	}
	return total
}

// Row materializes one row by global index across chunks, one value per
// column. Out-of-range indexes return nil.
func (r *Result) Row(idx int) []any {
	for ci := range r.Chunks {
		chunk := &r.Chunks[ci]
		if idx < chunk.RowCount {
			row := make([]any, len(chunk.Vectors))
			for vi := range chunk.Vectors {
				row[vi] = chunk.Vectors[vi].ValueAt(idx)
			}
			return row
		}
		idx -= chunk.RowCount
	}
	return nil
}

// Rows materializes the whole result. Pages are small, callers that need
// bounded memory should walk chunks themselves.
func (r *Result) Rows() [][]any {
	result := make([][]any, 0, r.TotalRows())
	for ci := range r.Chunks {
		chunk := &r.Chunks[ci]
		for row := 0; row < chunk.RowCount; row++ {
			values := make([]any, len(chunk.Vectors))
			for vi := range chunk.Vectors {
				values[vi] = chunk.Vectors[vi].ValueAt(row)
			}
			result = append(result, values)
		}
	}
	return result
}

func (r *Result) ColumnNames() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return names
}

// DecodeResult assembles a full query result message. The leading byte
// discriminates success from failure. The outermost record carries no object
// terminator, unlike every nested object. That asymmetry is part of the wire
// format, keep it.
func DecodeResult(buf []byte) (*Result, error) {
	d := wire.NewDeserializer(buf)
	result := &Result{}

	success, err := d.ReadBool()
	if err != nil {
		return nil, err
	}

	if !success {
		result.Err, err = d.ReadString()
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	var names []string
	err = d.ReadProperty(fieldResultNames, func(d *wire.Deserializer) (err error) {
		names, err = d.ReadStringList()
		return
	})
	if err != nil {
		return nil, err
	}

	var types []schema.TypeDescriptor
	err = d.ReadProperty(fieldResultTypes, func(d *wire.Deserializer) error {
		return d.ReadList(func(d *wire.Deserializer, idx int) error {
			desc, err := schema.DecodeTypeDescriptor(d)
			if err != nil {
				return err
			}
			types = append(types, desc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if len(names) != len(types) {
		return nil, protocolErrf(d, "header carries %d names and %d types", len(names), len(types))
	}

	result.Columns = make([]schema.ResultColumn, len(names))
	for i := range names {
		result.Columns[i] = schema.ResultColumn{Name: names[i], Type: types[i]}
	}

	err = d.ReadProperty(fieldResultChunks, func(d *wire.Deserializer) error {
		return d.ReadList(func(d *wire.Deserializer, idx int) error {
			chunk, err := decodeChunk(d, types)
			if err != nil {
				return err
			}
			result.Chunks = append(result.Chunks, chunk)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DecodeChunk decodes one standalone chunk against an already-known column
// header, the counterpart of EncodeChunkBytes.
func DecodeChunk(buf []byte, columns []schema.ResultColumn) (DataChunk, error) {
	types := make([]schema.TypeDescriptor, len(columns))
	for i := range columns {
		types[i] = columns[i].Type
	}
	return decodeChunk(wire.NewDeserializer(buf), types)
}

func decodeChunk(d *wire.Deserializer, types []schema.TypeDescriptor) (chunk DataChunk, topErr error) {

	var rows uint64
	topErr = d.ReadProperty(fieldChunkRows, func(d *wire.Deserializer) (err error) {
		rows, err = d.ReadVarUint()
		return
	})
	if topErr != nil {
		return chunk, topErr
	}
	chunk.RowCount = int(rows)

	topErr = d.ReadProperty(fieldChunkVectors, func(d *wire.Deserializer) error {
		return d.ReadList(func(d *wire.Deserializer, idx int) error {
			if idx >= len(types) {
				return protocolErrf(d, "chunk carries more vectors than the %d header columns", len(types))
			}
			v, err := decodeVector(d, types[idx], chunk.RowCount)
			if err != nil {
				return err
			}
			chunk.Vectors = append(chunk.Vectors, v)
			return nil
		})
	})
	if topErr != nil {
		return chunk, topErr
	}

	if len(chunk.Vectors) != len(types) {
		return chunk, protocolErrf(d, "chunk carries %d vectors for %d columns", len(chunk.Vectors), len(types))
	}

	return chunk, d.ExpectObjectEnd()
}
