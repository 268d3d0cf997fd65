package transport

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFrameSmallPayloadTravelsRaw(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, FrameQuery, []byte("SELECT 1")); err != nil {
		t.Fatalf("write: %s", err.Error())
	}

	wire := buf.Bytes()
	rawLen := binary.LittleEndian.Uint32(wire[1:])
	bodyLen := binary.LittleEndian.Uint32(wire[5:])
	if rawLen != 8 || bodyLen != 8 {
		t.Errorf("tiny payload got compressed: raw=%d body=%d", rawLen, bodyLen)
	}

	kind, payload, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("read: %s", err.Error())
	}
	if kind != FrameQuery || string(payload) != "SELECT 1" {
		t.Errorf("round trip = %s %q", kind, payload)
	}
}

func TestFrameRepetitivePayloadCompresses(t *testing.T) {
	payload := []byte(strings.Repeat("the same row over and over ", 400))

	var buf bytes.Buffer
	if err := WriteFrame(&buf, FrameChunk, payload); err != nil {
		t.Fatalf("write: %s", err.Error())
	}
	if buf.Len() >= len(payload) {
		t.Errorf("frame did not shrink: %d -> %d", len(payload), buf.Len())
	}

	kind, back, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("read: %s", err.Error())
	}
	if kind != FrameChunk || !bytes.Equal(back, payload) {
		t.Errorf("round trip mismatch")
	}
}

func TestFrameEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, FrameAck, nil); err != nil {
		t.Fatalf("write: %s", err.Error())
	}

	kind, payload, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("read: %s", err.Error())
	}
	if kind != FrameAck || payload != nil {
		t.Errorf("ack = %s %v", kind, payload)
	}
}

func TestFrameOversizedPayloadRejected(t *testing.T) {
	err := WriteFrame(io.Discard, FrameChunk, make([]byte, MaxFrameSize+1))
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("err = %v", err)
	}
}

func TestFrameBodyLargerThanDeclaredRejected(t *testing.T) {
	header := make([]byte, frameHeaderSize)
	header[0] = byte(FrameChunk)
	binary.LittleEndian.PutUint32(header[1:], 2)
	binary.LittleEndian.PutUint32(header[5:], 5)

	_, _, err := ReadFrame(bytes.NewReader(append(header, "xxxxx"...)))
	if !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("err = %v", err)
	}
}

func TestFrameEmptyBodyForDeclaredBytesRejected(t *testing.T) {
	header := make([]byte, frameHeaderSize)
	header[0] = byte(FrameChunk)
	binary.LittleEndian.PutUint32(header[1:], 3)
	binary.LittleEndian.PutUint32(header[5:], 0)

	_, _, err := ReadFrame(bytes.NewReader(header))
	if !errors.Is(err, ErrInvalidFrame) {
		t.Errorf("err = %v", err)
	}
}

func TestFrameTruncatedBody(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, FrameQuery, []byte("SELECT * FROM somewhere")); err != nil {
		t.Fatalf("write: %s", err.Error())
	}

	cut := buf.Bytes()[:buf.Len()-4]
	_, _, err := ReadFrame(bytes.NewReader(cut))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v", err)
	}
}

func TestFrameKindNames(t *testing.T) {
	if FrameChunk.String() != "chunk" || FrameAck.String() != "ack" {
		t.Errorf("kind names changed: %s %s", FrameChunk, FrameAck)
	}
	if FrameKind(99).String() != "kind(99)" {
		t.Errorf("unknown kind = %s", FrameKind(99))
	}
}
