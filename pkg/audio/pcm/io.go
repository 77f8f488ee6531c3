package pcm

import (
	"context"
	"errors"
	"io"
	"time"
)

// Writer consumes PCM chunks.
type Writer interface {
	Write(Chunk) error
}

// WriteFunc turns a function into a Writer.
type WriteFunc func(Chunk) error

func (f WriteFunc) Write(c Chunk) error {
	return f(c)
}

// ChunkWriter writes the bytes of every chunk to w.
func ChunkWriter(w io.Writer) Writer {
	return WriteFunc(func(c Chunk) error {
		_, err := c.WriteTo(w)
		return err
	})
}

// Copy reads r as format and hands it to w in frame-aligned chunks of
// 20ms to 200ms. It stops at EOF, dropping a trailing partial frame, or
// with ctx's error once ctx is done.
func Copy(ctx context.Context, w Writer, r io.Reader, format Format) error {
	frame := format.FrameSize()
	least := int(format.BytesInDuration(20 * time.Millisecond))
	least -= least % frame
	buf := make([]byte, 10*least)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, rerr := io.ReadAtLeast(r, buf, least)
		if n -= n % frame; n > 0 {
			if err := w.Write(format.DataChunk(buf[:n])); err != nil {
				return err
			}
		}
		switch {
		case rerr == nil:
		case errors.Is(rerr, io.EOF), errors.Is(rerr, io.ErrUnexpectedEOF):
			return nil
		default:
			return rerr
		}
	}
}
