package bits

import (
	"unsafe"
)

// int64 | int32 | int16 | int8 | uint64 | uint32 | uint16 | float32 | float64
func ViewAs[T any](data []byte, count int) []T {

	var sample T
	valueSize := int(unsafe.Sizeof(sample))

	if len(data) < count*valueSize {
		panic("not enough data")
	}

	if count == 0 {
		return nil
	}

	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), count)
}
