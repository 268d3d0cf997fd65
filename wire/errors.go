package wire

import (
	"fmt"
	"log"

	"github.com/davecgh/go-spew/spew"
	"github.com/dot5enko/columnar-result-pager/bits"
)

// Debug turns on byte-window dumps whenever a message fails to decode.
var Debug = false

const dumpWindowSize = 32

// ProtocolError marks malformed or truncated binary input. It is fatal for
// the message being decoded and for nothing else.
type ProtocolError struct {
	Offset int
	Detail string
	Cause  error
}

func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("protocol error at offset %d: %s: %s", e.Offset, e.Detail, e.Cause.Error())
	}
	return fmt.Sprintf("protocol error at offset %d: %s", e.Offset, e.Detail)
}

func (e *ProtocolError) Unwrap() error {
	return e.Cause
}

func protoErr(r *bits.Reader, cause error, format string, args ...any) *ProtocolError {

	result := &ProtocolError{
		Offset: r.Offset(),
		Detail: fmt.Sprintf(format, args...),
		Cause:  cause,
	}

	if Debug {
		DumpWindow(r)
	}

	return result
}

// Errorf builds a ProtocolError at the deserializer's current offset, for
// decoders layered on top of this package.
func Errorf(d *Deserializer, format string, args ...any) *ProtocolError {
	return protoErr(d.r, nil, format, args...)
}

// DumpWindow logs the bytes behind the cursor, capped to a small window.
func DumpWindow(r *bits.Reader) {
	n := r.Remaining()
	if n > dumpWindowSize {
		n = dumpWindowSize
	}

	window, err := r.View(n)
	if err != nil {
		return
	}

	log.Printf("%d bytes at offset %d:", n, r.Offset()-n)
	spew.Dump(window)
}
