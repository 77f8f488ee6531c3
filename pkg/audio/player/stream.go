package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/NU-CEM/singing-materials-online/pkg/audio/chord"
	"github.com/NU-CEM/singing-materials-online/pkg/audio/pcm"
)

// ErrSampleRate is returned when a chord's sample rate has no matching
// PCM format.
var ErrSampleRate = errors.New("player: unsupported sample rate")

// Stream writes raw PCM chunks to a pcm.Writer, e.g. pcm.ChunkWriter over
// stdout for piping into another audio tool.
type Stream struct {
	w pcm.Writer
}

// NewStream returns a player that writes to w.
func NewStream(w pcm.Writer) *Stream {
	return &Stream{w: w}
}

// Play implements Player.
func (s *Stream) Play(ctx context.Context, c *chord.Chord, d time.Duration) error {
	if err := checkDuration(d); err != nil {
		return err
	}
	format, ok := c.Format()
	if !ok {
		return fmt.Errorf("%w: %d", ErrSampleRate, c.SampleRate())
	}
	r := io.LimitReader(c, format.BytesInDuration(d))
	if err := pcm.Copy(ctx, s.w, r, format); err != nil {
		return fmt.Errorf("player: stream: %w", err)
	}
	return nil
}
