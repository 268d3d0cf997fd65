package sqlexec

import (
	"database/sql"
	"strings"
	"time"

	"github.com/dot5enko/columnar-result-pager/schema"
)

// resultColumns maps driver column metadata onto wire type descriptors. The
// declared type decides when it is recognizable, otherwise the first non-null
// value in that column does. Bare expressions with no rows land on VARCHAR.
func resultColumns(columnTypes []*sql.ColumnType, rows [][]any) []schema.ResultColumn {
	columns := make([]schema.ResultColumn, len(columnTypes))

	for i, ct := range columnTypes {
		desc, isKnown := descriptorForDeclared(ct.DatabaseTypeName())
		if !isKnown {
			desc = descriptorForValue(firstNonNull(rows, i))
		}
		columns[i] = schema.ResultColumn{Name: ct.Name(), Type: desc}
	}

	return columns
}

func descriptorForDeclared(declared string) (schema.TypeDescriptor, bool) {
	declared = strings.ToUpper(declared)

	switch {
	case declared == "":
		return schema.TypeDescriptor{}, false
	case strings.Contains(declared, "INT"):
		return schema.Simple(schema.BigIntType), true
	case strings.Contains(declared, "CHAR"), strings.Contains(declared, "TEXT"), strings.Contains(declared, "CLOB"):
		return schema.Simple(schema.VarcharType), true
	case strings.Contains(declared, "REAL"), strings.Contains(declared, "FLOA"), strings.Contains(declared, "DOUB"):
		return schema.Simple(schema.DoubleType), true
	case strings.Contains(declared, "BLOB"):
		return schema.Simple(schema.BlobType), true
	case strings.Contains(declared, "BOOL"):
		return schema.Simple(schema.BooleanType), true
	case strings.Contains(declared, "TIMESTAMP"), strings.Contains(declared, "DATETIME"):
		return schema.Simple(schema.TimestampType), true
	default:
		return schema.TypeDescriptor{}, false
	}
}

func descriptorForValue(value any) schema.TypeDescriptor {
	switch value.(type) {
	case int64:
		return schema.Simple(schema.BigIntType)
	case float64:
		return schema.Simple(schema.DoubleType)
	case bool:
		return schema.Simple(schema.BooleanType)
	case []byte:
		return schema.Simple(schema.BlobType)
	case time.Time:
		return schema.Simple(schema.TimestampType)
	default:
		return schema.Simple(schema.VarcharType)
	}
}

func firstNonNull(rows [][]any, col int) any {
	for _, row := range rows {
		if col < len(row) && row[col] != nil {
			return row[col]
		}
	}
	return nil
}

// normalizeValue detaches scanned values from driver-owned buffers.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case []byte:
		detached := make([]byte, len(v))
		copy(detached, v)
		return detached
	default:
		return value
	}
}

// coerceCharacterColumns rewrites byte slices to strings in columns that
// resolved to a character type. Some drivers scan TEXT as []byte.
func coerceCharacterColumns(columns []schema.ResultColumn, rows [][]any) {
	for col := range columns {
		if !columns[col].Type.Id.IsCharacter() {
			continue
		}
		for _, row := range rows {
			if b, isBytes := row[col].([]byte); isBytes {
				row[col] = string(b)
			}
		}
	}
}
