package vector

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dot5enko/columnar-result-pager/schema"
)

// Interval mirrors the engine's three-part interval storage.
type Interval struct {
	Months int32
	Days   int32
	Micros int64
}

func (iv Interval) String() string {
	return fmt.Sprintf("%d mon %d days %d us", iv.Months, iv.Days, iv.Micros)
}

// decodeFixed turns one row's slice of a fixed-width data buffer into its Go
// value. raw is exactly the physical width of the type.
func decodeFixed(typ schema.TypeDescriptor, raw []byte) any {
	switch typ.Id {

	case schema.BooleanType:
		return raw[0] != 0

	case schema.TinyIntType:
		return int64(int8(raw[0]))
	case schema.SmallIntType:
		return int64(int16(binary.LittleEndian.Uint16(raw)))
	case schema.IntegerType:
		return int64(int32(binary.LittleEndian.Uint32(raw)))
	case schema.BigIntType:
		return int64(binary.LittleEndian.Uint64(raw))

	case schema.UTinyIntType:
		return uint64(raw[0])
	case schema.USmallIntType:
		return uint64(binary.LittleEndian.Uint16(raw))
	case schema.UIntegerType:
		return uint64(binary.LittleEndian.Uint32(raw))
	case schema.UBigIntType:
		return binary.LittleEndian.Uint64(raw)

	case schema.FloatType:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(raw)))
	case schema.DoubleType:
		return math.Float64frombits(binary.LittleEndian.Uint64(raw))

	case schema.HugeIntType:
		v := int128FromLE(raw)
		if v.IsInt64() {
			return v.Int64()
		}
		// too wide for a machine integer, keep every digit
		return v.String()

	case schema.DecimalType:
		info, _ := typ.Info.(schema.DecimalInfo)
		if len(raw) == 8 {
			unscaled := int64(binary.LittleEndian.Uint64(raw))
			return decimal.New(unscaled, -int32(info.Scale))
		}
		return decimal.NewFromBigInt(int128FromLE(raw), -int32(info.Scale))

	case schema.DateType:
		days := int64(int32(binary.LittleEndian.Uint32(raw)))
		return time.Unix(days*86400, 0).UTC()

	case schema.TimeType, schema.TimeTzType:
		micros := int64(binary.LittleEndian.Uint64(raw))
		return time.Duration(micros) * time.Microsecond

	case schema.TimestampSecType:
		return time.Unix(int64(binary.LittleEndian.Uint64(raw)), 0).UTC()
	case schema.TimestampMsType:
		return time.UnixMilli(int64(binary.LittleEndian.Uint64(raw))).UTC()
	case schema.TimestampType, schema.TimestampTzType:
		return time.UnixMicro(int64(binary.LittleEndian.Uint64(raw))).UTC()
	case schema.TimestampNsType:
		return time.Unix(0, int64(binary.LittleEndian.Uint64(raw))).UTC()

	case schema.IntervalType:
		return Interval{
			Months: int32(binary.LittleEndian.Uint32(raw[0:4])),
			Days:   int32(binary.LittleEndian.Uint32(raw[4:8])),
			Micros: int64(binary.LittleEndian.Uint64(raw[8:16])),
		}

	case schema.UuidType:
		var u uuid.UUID
		copy(u[:], raw)
		return u

	case schema.EnumType:
		info, isOk := typ.Info.(schema.EnumInfo)
		if !isOk {
			return nil
		}
		var idx int
		switch len(raw) {
		case 1:
			idx = int(raw[0])
		case 2:
			idx = int(binary.LittleEndian.Uint16(raw))
		default:
			idx = int(binary.LittleEndian.Uint32(raw))
		}
		if idx >= len(info.Values) {
			return nil
		}
		return info.Values[idx]

	default:
		return nil
	}
}

// int128FromLE reads a two's complement little-endian 128-bit integer:
// unsigned low word plus signed high word.
func int128FromLE(raw []byte) *big.Int {
	lower := binary.LittleEndian.Uint64(raw[0:8])
	upper := int64(binary.LittleEndian.Uint64(raw[8:16]))

	result := new(big.Int).SetInt64(upper)
	result.Lsh(result, 64)
	return result.Add(result, new(big.Int).SetUint64(lower))
}
