package schema

// TypeDescriptor is a logical type plus whatever nested shape it needs:
// decimal width/scale, list/array child, struct fields, enum dictionary.
// Info stays nil for plain types.
type TypeDescriptor struct {
	Id    LogicalTypeId
	Alias string
	Info  TypeInfo
}

// TypeInfo is a closed union, one implementation per descriptor kind on the
// wire. Switching over it is exhaustive by construction.
type TypeInfo interface {
	typeInfo()
}

type DecimalInfo struct {
	Width uint8
	Scale uint8
}

type ListInfo struct {
	Child TypeDescriptor
}

type StructField struct {
	Name string
	Type TypeDescriptor
}

type StructInfo struct {
	Fields []StructField
}

type EnumInfo struct {
	Values []string
}

type ArrayInfo struct {
	Child TypeDescriptor
	Size  int
}

func (DecimalInfo) typeInfo() {}
func (ListInfo) typeInfo()    {}
func (StructInfo) typeInfo()  {}
func (EnumInfo) typeInfo()    {}
func (ArrayInfo) typeInfo()   {}

// PhysicalWidth reports the fixed per-row byte width of the storage buffer
// for types stored that way. The second return is false for character,
// binary and nested storage.
func PhysicalWidth(desc TypeDescriptor) (int, bool) {
	switch desc.Id {
	case SqlNullType:
		return 0, true
	case BooleanType, TinyIntType, UTinyIntType:
		return 1, true
	case SmallIntType, USmallIntType:
		return 2, true
	case IntegerType, UIntegerType, FloatType, DateType:
		return 4, true
	case BigIntType, UBigIntType, DoubleType,
		TimeType, TimeTzType,
		TimestampSecType, TimestampMsType, TimestampType, TimestampNsType, TimestampTzType:
		return 8, true
	case HugeIntType, UuidType, IntervalType:
		return 16, true
	case DecimalType:
		if info, isOk := desc.Info.(DecimalInfo); isOk && info.Width > 18 {
			return 16, true
		}
		return 8, true
	case EnumType:
		info, isOk := desc.Info.(EnumInfo)
		if !isOk {
			return 4, true
		}
		if len(info.Values) <= 1<<8 {
			return 1, true
		}
		if len(info.Values) <= 1<<16 {
			return 2, true
		}
		return 4, true
	default:
		return 0, false
	}
}

// Constructors for the common descriptor shapes.

func Simple(id LogicalTypeId) TypeDescriptor {
	return TypeDescriptor{Id: id}
}

func Decimal(width, scale uint8) TypeDescriptor {
	return TypeDescriptor{Id: DecimalType, Info: DecimalInfo{Width: width, Scale: scale}}
}

func List(child TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Id: ListType, Info: ListInfo{Child: child}}
}

func Map(key, value TypeDescriptor) TypeDescriptor {
	// a map travels as a list of key/value structs
	kv := TypeDescriptor{Id: StructType, Info: StructInfo{Fields: []StructField{
		{Name: "key", Type: key},
		{Name: "value", Type: value},
	}}}
	return TypeDescriptor{Id: MapType, Info: ListInfo{Child: kv}}
}

func Struct(fields ...StructField) TypeDescriptor {
	return TypeDescriptor{Id: StructType, Info: StructInfo{Fields: fields}}
}

func Enum(values ...string) TypeDescriptor {
	return TypeDescriptor{Id: EnumType, Info: EnumInfo{Values: values}}
}

func Array(child TypeDescriptor, size int) TypeDescriptor {
	return TypeDescriptor{Id: ArrayType, Info: ArrayInfo{Child: child, Size: size}}
}
