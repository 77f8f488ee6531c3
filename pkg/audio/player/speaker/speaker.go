// Package speaker plays chords on the default output device through beep.
//
// It is kept apart from package player because beep's speaker needs cgo
// and the platform audio headers.
package speaker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	beepspeaker "github.com/gopxl/beep/v2/speaker"

	"github.com/NU-CEM/singing-materials-online/pkg/audio/chord"
	"github.com/NU-CEM/singing-materials-online/pkg/audio/player"
)

// Device is the audio output the Speaker drives. The default is beep's
// process-global speaker.
type Device interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
	Close()
}

type beepDevice struct{}

func (beepDevice) Init(sr beep.SampleRate, bufferSize int) error {
	return beepspeaker.Init(sr, bufferSize)
}
func (beepDevice) Play(s beep.Streamer) { beepspeaker.Play(s) }
func (beepDevice) Clear()               { beepspeaker.Clear() }
func (beepDevice) Close()               { beepspeaker.Close() }

// Speaker plays a chord for a fixed duration.
//
// The device is initialised on first use and re-initialised only when a
// chord with a different sample rate is played. Concurrent Play calls are
// serialised.
type Speaker struct {
	dev       Device
	blockSize time.Duration
	logger    *slog.Logger
	wait      func(ctx context.Context, d time.Duration) error

	mu   sync.Mutex
	rate beep.SampleRate
}

// New returns a Speaker on the default output device with a device buffer
// of blockSize. A non-positive blockSize uses player.DefaultBlockSize.
func New(blockSize time.Duration, logger *slog.Logger) *Speaker {
	return NewWithDevice(beepDevice{}, blockSize, logger)
}

// NewWithDevice returns a Speaker that drives dev.
func NewWithDevice(dev Device, blockSize time.Duration, logger *slog.Logger) *Speaker {
	if blockSize <= 0 {
		blockSize = player.DefaultBlockSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Speaker{dev: dev, blockSize: blockSize, logger: logger, wait: sleep}
}

// Play implements player.Player. It returns once the last sample has left
// the device buffer, one blockSize after the mixer has consumed it.
func (s *Speaker) Play(ctx context.Context, c *chord.Chord, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %v", player.ErrDuration, d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sr := beep.SampleRate(c.SampleRate())
	if err := s.init(sr); err != nil {
		return err
	}

	done := make(chan struct{})
	s.dev.Play(beep.Seq(
		beep.Take(sr.N(d), c),
		beep.Callback(func() { close(done) }),
	))
	s.logger.Debug("speaker playing", "tones", len(c.Frequencies()), "duration", d)

	select {
	case <-done:
	case <-ctx.Done():
		s.dev.Clear()
		return ctx.Err()
	}

	if err := s.wait(ctx, s.blockSize); err != nil {
		s.dev.Clear()
		return err
	}
	return nil
}

// Close releases the output device.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rate != 0 {
		s.dev.Close()
		s.rate = 0
	}
	return nil
}

func (s *Speaker) init(sr beep.SampleRate) error {
	if s.rate == sr {
		return nil
	}
	if s.rate != 0 {
		s.dev.Close()
	}
	if err := s.dev.Init(sr, sr.N(s.blockSize)); err != nil {
		return fmt.Errorf("speaker: init: %w", err)
	}
	s.rate = sr
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ player.Player = (*Speaker)(nil)
