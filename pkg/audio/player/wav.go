package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/NU-CEM/singing-materials-online/pkg/audio/chord"
	"github.com/NU-CEM/singing-materials-online/pkg/storage"
)

const (
	wavBitDepth = 16
	wavChannels = 2
	wavPCM      = 1
)

// WAV renders the chord into a 16-bit stereo WAV file instead of playing
// it. Rendering runs as fast as the CPU allows.
type WAV struct {
	store  storage.FileStore
	path   string
	block  time.Duration
	logger *slog.Logger
}

// NewWAV returns a player that writes to path inside store.
func NewWAV(store storage.FileStore, path string, logger *slog.Logger) *WAV {
	if logger == nil {
		logger = slog.Default()
	}
	return &WAV{store: store, path: path, block: DefaultBlockSize, logger: logger}
}

// Path returns the output path inside the store.
func (w *WAV) Path() string {
	return w.path
}

// Play implements Player.
func (w *WAV) Play(ctx context.Context, c *chord.Chord, d time.Duration) error {
	if err := checkDuration(d); err != nil {
		return err
	}
	buf := &seekBuffer{}
	if err := EncodeWAV(ctx, buf, c, d, w.block); err != nil {
		return err
	}
	if err := storage.Put(ctx, w.store, w.path, buf); err != nil {
		return fmt.Errorf("player: save wav: %w", err)
	}
	w.logger.Info("wav written", "path", w.path, "bytes", len(buf.data), "duration", d)
	return nil
}

// EncodeWAV renders d of audio from c into out, pulling one block of
// frames at a time through the chord callback.
func EncodeWAV(ctx context.Context, out io.WriteSeeker, c *chord.Chord, d time.Duration, block time.Duration) error {
	if err := checkDuration(d); err != nil {
		return err
	}
	if block <= 0 {
		block = DefaultBlockSize
	}

	sr := c.SampleRate()
	total := frames(sr, d)
	per := max(frames(sr, block), 1)

	enc := wav.NewEncoder(out, sr, wavBitDepth, wavChannels, wavPCM)
	samples := make([]int16, per*wavChannels)
	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: wavChannels, SampleRate: sr},
		Data:           make([]int, per*wavChannels),
		SourceBitDepth: wavBitDepth,
	}

	for done := 0; done < total; {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(per, total-done)
		c.Int16(samples[:n*wavChannels])
		ib.Data = ib.Data[:n*wavChannels]
		for i, s := range samples[:n*wavChannels] {
			ib.Data[i] = int(s)
		}
		if err := enc.Write(ib); err != nil {
			return fmt.Errorf("player: encode wav: %w", err)
		}
		done += n
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("player: finish wav: %w", err)
	}
	return nil
}

// seekBuffer is an in-memory io.WriteSeeker. The WAV encoder seeks back
// to patch chunk sizes once all samples are written.
type seekBuffer struct {
	data []byte
	pos  int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	end := b.pos + len(p)
	if end > len(b.data) {
		if end > cap(b.data) {
			grown := make([]byte, end, 2*end)
			copy(grown, b.data)
			b.data = grown
		} else {
			b.data = b.data[:end]
		}
	}
	copy(b.data[b.pos:], p)
	b.pos = end
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(b.pos) + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, errors.New("player: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("player: negative position")
	}
	b.pos = int(abs)
	return abs, nil
}

// WriteTo implements io.WriterTo.
func (b *seekBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data)
	return int64(n), err
}

// Bytes returns the buffered contents.
func (b *seekBuffer) Bytes() []byte {
	return b.data
}
