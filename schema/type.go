package schema

// LogicalTypeId is the closed set of column types the engine can ship over
// the wire. The numeric values are part of the protocol, do not reorder.
type LogicalTypeId uint8

const (
	InvalidType LogicalTypeId = iota
	SqlNullType
	BooleanType

	TinyIntType
	SmallIntType
	IntegerType
	BigIntType
	HugeIntType

	UTinyIntType
	USmallIntType
	UIntegerType
	UBigIntType

	FloatType
	DoubleType
	DecimalType

	VarcharType
	CharType
	BlobType
	BitType

	DateType
	TimeType
	TimeTzType
	TimestampSecType
	TimestampMsType
	TimestampType // microseconds, the engine default
	TimestampNsType
	TimestampTzType
	IntervalType

	UuidType
	EnumType

	StructType
	ListType
	MapType
	UnionType
	ArrayType
)

func (t LogicalTypeId) String() string {
	switch t {
	case SqlNullType:
		return "NULL"
	case BooleanType:
		return "BOOLEAN"
	case TinyIntType:
		return "TINYINT"
	case SmallIntType:
		return "SMALLINT"
	case IntegerType:
		return "INTEGER"
	case BigIntType:
		return "BIGINT"
	case HugeIntType:
		return "HUGEINT"
	case UTinyIntType:
		return "UTINYINT"
	case USmallIntType:
		return "USMALLINT"
	case UIntegerType:
		return "UINTEGER"
	case UBigIntType:
		return "UBIGINT"
	case FloatType:
		return "FLOAT"
	case DoubleType:
		return "DOUBLE"
	case DecimalType:
		return "DECIMAL"
	case VarcharType:
		return "VARCHAR"
	case CharType:
		return "CHAR"
	case BlobType:
		return "BLOB"
	case BitType:
		return "BIT"
	case DateType:
		return "DATE"
	case TimeType:
		return "TIME"
	case TimeTzType:
		return "TIME WITH TIME ZONE"
	case TimestampSecType:
		return "TIMESTAMP_S"
	case TimestampMsType:
		return "TIMESTAMP_MS"
	case TimestampType:
		return "TIMESTAMP"
	case TimestampNsType:
		return "TIMESTAMP_NS"
	case TimestampTzType:
		return "TIMESTAMP WITH TIME ZONE"
	case IntervalType:
		return "INTERVAL"
	case UuidType:
		return "UUID"
	case EnumType:
		return "ENUM"
	case StructType:
		return "STRUCT"
	case ListType:
		return "LIST"
	case MapType:
		return "MAP"
	case UnionType:
		return "UNION"
	case ArrayType:
		return "ARRAY"
	default:
		return ""
	}
}

// Known reports whether the id belongs to the closed set. Unknown ids still
// decode into descriptors (they render as UNKNOWN), only vector decoding
// refuses them.
func (t LogicalTypeId) Known() bool {
	return t > InvalidType && t <= ArrayType
}

func (t LogicalTypeId) IsNested() bool {
	switch t {
	case StructType, ListType, MapType, UnionType, ArrayType:
		return true
	default:
		return false
	}
}

func (t LogicalTypeId) IsCharacter() bool {
	return t == VarcharType || t == CharType
}

func (t LogicalTypeId) IsBinary() bool {
	return t == BlobType || t == BitType
}
