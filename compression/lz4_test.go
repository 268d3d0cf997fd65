package compression

import (
	"bytes"
	"strings"
	"testing"
)

func TestLz4RoundTrip(t *testing.T) {
	src := []byte(strings.Repeat("columnar results compress well ", 64))

	var framed bytes.Buffer
	if err := CompressLz4(src, &framed); err != nil {
		t.Fatalf("compress: %s", err.Error())
	}
	if framed.Len() >= len(src) {
		t.Errorf("repetitive payload did not shrink: %d -> %d", len(src), framed.Len())
	}

	back, err := DecompressLz4(framed.Bytes(), len(src))
	if err != nil {
		t.Fatalf("decompress: %s", err.Error())
	}
	if !bytes.Equal(back, src) {
		t.Errorf("round trip mismatch")
	}
}

func TestLz4EmptyPayload(t *testing.T) {
	var framed bytes.Buffer
	if err := CompressLz4(nil, &framed); err != nil {
		t.Fatalf("compress empty: %s", err.Error())
	}

	back, err := DecompressLz4(framed.Bytes(), 0)
	if err != nil {
		t.Fatalf("decompress empty: %s", err.Error())
	}
	if len(back) != 0 {
		t.Errorf("empty frame produced %d bytes", len(back))
	}
}

func TestLz4DeclaredSizeTooSmall(t *testing.T) {
	src := []byte(strings.Repeat("x", 100))

	var framed bytes.Buffer
	if err := CompressLz4(src, &framed); err != nil {
		t.Fatalf("compress: %s", err.Error())
	}

	if _, err := DecompressLz4(framed.Bytes(), 50); err == nil {
		t.Errorf("undersized declaration accepted")
	}
}

func TestLz4DeclaredSizeTooLarge(t *testing.T) {
	src := []byte(strings.Repeat("x", 100))

	var framed bytes.Buffer
	if err := CompressLz4(src, &framed); err != nil {
		t.Fatalf("compress: %s", err.Error())
	}

	if _, err := DecompressLz4(framed.Bytes(), 200); err == nil {
		t.Errorf("oversized declaration accepted")
	}
}

func TestLz4TruncatedFrame(t *testing.T) {
	src := []byte(strings.Repeat("abc", 200))

	var framed bytes.Buffer
	if err := CompressLz4(src, &framed); err != nil {
		t.Fatalf("compress: %s", err.Error())
	}

	cut := framed.Bytes()[:framed.Len()/2]
	if _, err := DecompressLz4(cut, len(src)); err == nil {
		t.Errorf("truncated frame accepted")
	}
}
