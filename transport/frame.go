// Package transport moves encoded query results over a byte stream as
// length-prefixed frames, one result frame in flight at a time. Payloads
// that shrink under lz4 travel compressed, the rest go as-is.
package transport

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/dot5enko/columnar-result-pager/compression"
	"github.com/dot5enko/columnar-result-pager/pool"
)

type FrameKind uint8

const (
	FrameQuery  FrameKind = 1 // sql text
	FrameHeader FrameKind = 2 // encoded result carrying the column header, no chunks
	FrameChunk  FrameKind = 3 // one encoded data chunk
	FrameDone   FrameKind = 4 // result fully sent
	FrameError  FrameKind = 5 // encoded failure result
	FrameAck    FrameKind = 6 // receiver finished decoding, next frame may go
)

func (k FrameKind) String() string {
	switch k {
	case FrameQuery:
		return "query"
	case FrameHeader:
		return "header"
	case FrameChunk:
		return "chunk"
	case FrameDone:
		return "done"
	case FrameError:
		return "error"
	case FrameAck:
		return "ack"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Frame header: kind u8, raw length u32, body length u32, little endian.
// Equal lengths mean the body is not compressed.
const (
	frameHeaderSize = 9
	MaxFrameSize    = 16 * 1024 * 1024
)

var (
	ErrInvalidFrame  = errors.New("invalid frame")
	ErrFrameTooLarge = errors.New("frame too large")
)

// Scratch space reused across frames. Get blocks when all buffers are out,
// which caps concurrent frame work.
var (
	packScratch = pool.NewRing[bytes.Buffer](16)
	bodyScratch = pool.NewBytes(16, 64*1024)
)

// WriteFrame sends one frame, compressing the payload when that shrinks it.
func WriteFrame(w io.Writer, kind FrameKind, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return ErrFrameTooLarge
	}

	body := payload
	if len(payload) > 0 {
		packed, id := packScratch.Get()
		defer packScratch.Return(id)
		packed.Reset()

		if err := compression.CompressLz4(payload, packed); err != nil {
			return err
		}
		if packed.Len() < len(payload) {
			body = packed.Bytes()
		}
	}

	header := make([]byte, frameHeaderSize)
	header[0] = byte(kind)
	binary.LittleEndian.PutUint32(header[1:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[5:], uint32(len(body)))

	if _, err := w.Write(header); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return err
		}
	}
	return nil
}

// ReadFrame reads one frame and expands its payload if it came compressed.
func ReadFrame(r io.Reader) (FrameKind, []byte, error) {
	header := make([]byte, frameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, err
	}

	kind := FrameKind(header[0])
	rawLen := binary.LittleEndian.Uint32(header[1:])
	bodyLen := binary.LittleEndian.Uint32(header[5:])

	if rawLen > MaxFrameSize || bodyLen > MaxFrameSize {
		return 0, nil, ErrFrameTooLarge
	}
	if bodyLen > rawLen {
		return 0, nil, fmt.Errorf("%w: body %d larger than declared payload %d", ErrInvalidFrame, bodyLen, rawLen)
	}
	if bodyLen == 0 && rawLen != 0 {
		return 0, nil, fmt.Errorf("%w: empty body for %d declared bytes", ErrInvalidFrame, rawLen)
	}

	if bodyLen == 0 {
		return kind, nil, nil
	}

	if bodyLen == rawLen {
		body := make([]byte, bodyLen)
		if _, err := io.ReadFull(r, body); err != nil {
			return 0, nil, err
		}
		return kind, body, nil
	}

	// a compressed body is scratch, it never escapes this call
	var body []byte
	if int(bodyLen) <= bodyScratch.BufSize() {
		buf, id := bodyScratch.Get()
		defer bodyScratch.Return(id)
		body = buf[:bodyLen]
	} else {
		body = make([]byte, bodyLen)
	}

	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}

	payload, err := compression.DecompressLz4(body, int(rawLen))
	if err != nil {
		return 0, nil, err
	}
	return kind, payload, nil
}
