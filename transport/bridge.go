package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dot5enko/columnar-result-pager/vector"
)

// QueryRunner executes one statement into a fully decoded result.
type QueryRunner interface {
	ExecuteQuery(ctx context.Context, sql string) (*vector.Result, error)
}

// Bridge is the requesting side of the stream protocol. One query at a
// time: the peer answers with a column header, then chunks strictly one at
// a time, each released by our ack once it decoded cleanly. An engine-side
// failure arrives as a result value, not a transport error.
type Bridge struct {
	rw io.ReadWriter
}

func NewBridge(rw io.ReadWriter) *Bridge {
	return &Bridge{rw: rw}
}

// Execute runs sql on the peer and assembles the streamed result. Chunks
// append in arrival order. Cancelling ctx closes the stream, which fails
// any blocked read on either side.
func (b *Bridge) Execute(ctx context.Context, sql string) (*vector.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := WriteFrame(b.rw, FrameQuery, []byte(sql)); err != nil {
		return nil, fmt.Errorf("send query: %w", err)
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			if closer, isCloser := b.rw.(io.Closer); isCloser {
				closer.Close()
			}
		case <-stop:
		}
	}()

	var result *vector.Result

	for {
		kind, payload, err := ReadFrame(b.rw)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}

		switch kind {
		case FrameHeader:
			result, err = vector.DecodeResult(payload)
			if err != nil {
				return nil, err
			}
			if err = WriteFrame(b.rw, FrameAck, nil); err != nil {
				return nil, err
			}

		case FrameChunk:
			if result == nil {
				return nil, fmt.Errorf("%w: chunk before header", ErrInvalidFrame)
			}
			chunk, err := vector.DecodeChunk(payload, result.Columns)
			if err != nil {
				return nil, err
			}
			result.Chunks = append(result.Chunks, chunk)
			if err = WriteFrame(b.rw, FrameAck, nil); err != nil {
				return nil, err
			}

		case FrameError:
			return vector.DecodeResult(payload)

		case FrameDone:
			if result == nil {
				return nil, fmt.Errorf("%w: done before header", ErrInvalidFrame)
			}
			return result, nil

		default:
			return nil, fmt.Errorf("%w: unexpected %s frame", ErrInvalidFrame, kind)
		}
	}
}

// ServeConn answers query frames on rw until the stream closes. Each result
// streams as header, chunks, done, with every frame but done held until the
// peer acks the previous one.
func ServeConn(ctx context.Context, rw io.ReadWriter, runner QueryRunner) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		kind, payload, err := ReadFrame(rw)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if kind != FrameQuery {
			return fmt.Errorf("%w: expected a query frame, got %s", ErrInvalidFrame, kind)
		}

		if err := serveQuery(ctx, rw, runner, string(payload)); err != nil {
			return err
		}
	}
}

func serveQuery(ctx context.Context, rw io.ReadWriter, runner QueryRunner, sql string) error {
	result, err := runner.ExecuteQuery(ctx, sql)
	if err != nil {
		// executor failures travel as engine failure values
		slog.Warn("query failed", "err", err.Error())
		failure := &vector.Result{Err: err.Error()}
		return WriteFrame(rw, FrameError, vector.EncodeResult(failure))
	}
	if result.Failed() {
		return WriteFrame(rw, FrameError, vector.EncodeResult(result))
	}

	header := &vector.Result{Columns: result.Columns}
	if err := WriteFrame(rw, FrameHeader, vector.EncodeResult(header)); err != nil {
		return err
	}
	if err := awaitAck(rw); err != nil {
		return err
	}

	for i := range result.Chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := WriteFrame(rw, FrameChunk, vector.EncodeChunkBytes(&result.Chunks[i])); err != nil {
			return err
		}
		if err := awaitAck(rw); err != nil {
			return err
		}
	}

	return WriteFrame(rw, FrameDone, nil)
}

func awaitAck(rw io.ReadWriter) error {
	kind, _, err := ReadFrame(rw)
	if err != nil {
		return err
	}
	if kind != FrameAck {
		return fmt.Errorf("%w: expected ack, got %s", ErrInvalidFrame, kind)
	}
	return nil
}
