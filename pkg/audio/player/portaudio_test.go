//go:build portaudio

package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NU-CEM/singing-materials-online/pkg/audio/chord"
	"github.com/NU-CEM/singing-materials-online/pkg/audio/portaudio"
)

func TestNewPortAudio_Defaults(t *testing.T) {
	p := NewPortAudio(-1, 0, nil)
	if p.blockSize != DefaultBlockSize || p.logger == nil || p.device != -1 {
		t.Errorf("NewPortAudio(-1, 0, nil) = %+v", p)
	}
}

func TestPortAudio_Errors(t *testing.T) {
	p := NewPortAudio(-1, 0, nil)
	if err := p.Play(context.Background(), chord.New([]float64{440}, 44100), 0); !errors.Is(err, ErrDuration) {
		t.Errorf("zero duration: err = %v, want ErrDuration", err)
	}
	if err := p.Play(context.Background(), chord.New([]float64{440}, 22050), time.Second); !errors.Is(err, ErrSampleRate) {
		t.Errorf("22050 Hz: err = %v, want ErrSampleRate", err)
	}
}

func TestPortAudio_Play(t *testing.T) {
	def, err := portaudio.DefaultOutputDevice()
	if err != nil {
		t.Skipf("no output device: %v", err)
	}
	p := NewPortAudio(def.Index, 20*time.Millisecond, nil)
	start := time.Now()
	if err := p.Play(context.Background(), chord.New([]float64{220, 440}, 44100), 100*time.Millisecond); err != nil {
		t.Skipf("play on %q: %v", def.Name, err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Play returned after %v, before the audio could be queued", elapsed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Play(ctx, chord.New([]float64{440}, 44100), time.Second); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: err = %v, want context.Canceled", err)
	}
}
