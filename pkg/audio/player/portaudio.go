//go:build portaudio

package player

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NU-CEM/singing-materials-online/pkg/audio/chord"
	"github.com/NU-CEM/singing-materials-online/pkg/audio/portaudio"
)

// PortAudio plays through a blocking PortAudio output stream, rendering
// one block of frames per write.
type PortAudio struct {
	device    int
	blockSize time.Duration
	logger    *slog.Logger
}

// NewPortAudio returns a PortAudio player for an output device index as
// listed by portaudio.OutputDevices. A negative device plays on the default
// output and a non-positive blockSize uses DefaultBlockSize.
func NewPortAudio(device int, blockSize time.Duration, logger *slog.Logger) *PortAudio {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PortAudio{device: device, blockSize: blockSize, logger: logger}
}

// Play implements Player.
func (p *PortAudio) Play(ctx context.Context, c *chord.Chord, d time.Duration) error {
	if err := checkDuration(d); err != nil {
		return err
	}
	format, ok := c.Format()
	if !ok {
		return fmt.Errorf("%w: %d", ErrSampleRate, c.SampleRate())
	}

	out, err := portaudio.NewOutputStream(p.device, format, p.blockSize)
	if err != nil {
		return fmt.Errorf("player: open portaudio: %w", err)
	}
	defer out.Close()

	per := out.FramesPerBuffer()
	samples := make([]int16, per*format.Channels())
	total := frames(c.SampleRate(), d)
	p.logger.Debug("portaudio playing", "device", p.device, "format", out.Format(), "tones", len(c.Frequencies()), "duration", d)

	for done := 0; done < total; {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(per, total-done)
		c.Int16(samples[:n*format.Channels()])
		if _, err := out.Write(samples[:n*format.Channels()]); err != nil {
			return fmt.Errorf("player: portaudio write: %w", err)
		}
		done += n
	}
	return nil
}
