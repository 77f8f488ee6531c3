// Package player plays a chord for a fixed duration.
//
// Backends:
//
//   - WAV renders the chord into a WAV file in a storage.FileStore.
//   - Stream writes raw PCM chunks to a pcm.Writer.
//   - PortAudio (build tag "portaudio") writes to a PortAudio output stream.
//
// The beep speaker backend lives in the speaker subpackage so that this
// package builds without cgo.
package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NU-CEM/singing-materials-online/pkg/audio/chord"
)

// ErrDuration is returned for a non-positive playback duration.
var ErrDuration = errors.New("player: duration must be positive")

// DefaultBlockSize is the default callback block length. One block is one
// second of frames.
const DefaultBlockSize = time.Second

// Player plays a chord for a fixed duration. Play blocks until the
// duration has elapsed or ctx is done.
type Player interface {
	Play(ctx context.Context, c *chord.Chord, d time.Duration) error
}

// Func adapts a function to Player.
type Func func(ctx context.Context, c *chord.Chord, d time.Duration) error

// Play implements Player.
func (f Func) Play(ctx context.Context, c *chord.Chord, d time.Duration) error {
	return f(ctx, c, d)
}

func checkDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %v", ErrDuration, d)
	}
	return nil
}

// frames returns the number of frames in d at sampleRate.
func frames(sampleRate int, d time.Duration) int {
	return int(int64(sampleRate) * int64(d) / int64(time.Second))
}
