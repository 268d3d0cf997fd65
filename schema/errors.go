package schema

import "fmt"

// UnrecognizedTypeError stops vector decoding on a type id whose physical
// layout is unknown. Guessing a width would misalign every read after it, so
// there is no fallback.
type UnrecognizedTypeError struct {
	Id LogicalTypeId
}

func (e *UnrecognizedTypeError) Error() string {
	return fmt.Sprintf("unrecognized type id %d", e.Id)
}
