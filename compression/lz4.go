package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// CompressLz4 frames src into output. output is appended to, callers reuse
// it across frames.
func CompressLz4(src []byte, output *bytes.Buffer) error {
	zw := lz4.NewWriter(output)

	_, writeErr := zw.Write(src)
	if writeErr != nil {
		return writeErr
	}

	flushErr := zw.Flush()
	if flushErr != nil {
		return flushErr
	}

	return zw.Close()
}

// DecompressLz4 expands one frame produced by CompressLz4. rawLen is the
// expected decompressed size carried alongside the frame, a mismatch means
// the frame header lied.
func DecompressLz4(src []byte, rawLen int) ([]byte, error) {
	zr := lz4.NewReader(bytes.NewReader(src))

	out := make([]byte, rawLen)
	_, err := io.ReadFull(zr, out)
	if err != nil {
		return nil, fmt.Errorf("lz4 frame truncated: %w", err)
	}

	// the frame must not carry more than it declared
	var spill [1]byte
	n, readErr := zr.Read(spill[:])
	if n != 0 {
		return nil, fmt.Errorf("lz4 frame larger than declared size %d", rawLen)
	}
	if readErr != nil && readErr != io.EOF {
		return nil, readErr
	}

	return out, nil
}
