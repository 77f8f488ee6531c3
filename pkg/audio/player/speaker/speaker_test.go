package speaker

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/NU-CEM/singing-materials-online/pkg/audio/chord"
	"github.com/NU-CEM/singing-materials-online/pkg/audio/player"
)

// fakeDevice records calls. With drain set, Play pulls the streamer to the
// end before returning, like a mixer that has handed every sample on.
type fakeDevice struct {
	drain bool

	mu      sync.Mutex
	events  []string
	buffers []int
	frames  int
}

func (d *fakeDevice) record(e string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
}

func (d *fakeDevice) Init(_ beep.SampleRate, bufferSize int) error {
	d.record("init")
	d.mu.Lock()
	d.buffers = append(d.buffers, bufferSize)
	d.mu.Unlock()
	return nil
}

func (d *fakeDevice) Play(s beep.Streamer) {
	d.record("play")
	if !d.drain {
		return
	}
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		d.mu.Lock()
		d.frames += n
		d.mu.Unlock()
		if !ok {
			break
		}
	}
	d.record("consumed")
}

func (d *fakeDevice) Clear() { d.record("clear") }
func (d *fakeDevice) Close() { d.record("close") }

func (d *fakeDevice) log() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.events)
}

func TestPlay_WaitsForDeviceBuffer(t *testing.T) {
	dev := &fakeDevice{drain: true}
	s := NewWithDevice(dev, 250*time.Millisecond, nil)
	var waited time.Duration
	s.wait = func(_ context.Context, d time.Duration) error {
		waited = d
		dev.record("wait")
		return nil
	}

	c := chord.New([]float64{440, 660}, 44100)
	if err := s.Play(context.Background(), c, 500*time.Millisecond); err != nil {
		t.Fatalf("Play: %v", err)
	}

	if dev.frames != 22050 {
		t.Errorf("frames = %d, want 22050", dev.frames)
	}
	if waited != 250*time.Millisecond {
		t.Errorf("waited %v, want the 250ms device buffer", waited)
	}
	if len(dev.buffers) != 1 || dev.buffers[0] != 11025 {
		t.Errorf("buffer sizes = %v, want [11025]", dev.buffers)
	}
	want := []string{"init", "play", "consumed", "wait"}
	if got := dev.log(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestPlay_CancelWhileDraining(t *testing.T) {
	dev := &fakeDevice{drain: true}
	s := NewWithDevice(dev, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.wait = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleep(ctx, d)
	}

	err := s.Play(ctx, chord.New([]float64{440}, 0), 100*time.Millisecond)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got := dev.log(); got[len(got)-1] != "clear" {
		t.Errorf("events = %v, want a final clear", got)
	}
}

func TestPlay_CancelWhilePlaying(t *testing.T) {
	dev := &fakeDevice{}
	s := NewWithDevice(dev, time.Second, nil)
	s.wait = func(context.Context, time.Duration) error {
		t.Error("drain wait reached without the chord finishing")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Play(ctx, chord.New([]float64{440}, 0), time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	want := []string{"init", "play", "clear"}
	if got := dev.log(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestPlay_ReinitOnRateChange(t *testing.T) {
	dev := &fakeDevice{drain: true}
	s := NewWithDevice(dev, 100*time.Millisecond, nil)
	s.wait = func(context.Context, time.Duration) error { return nil }

	for _, rate := range []int{44100, 44100, 48000} {
		if err := s.Play(context.Background(), chord.New([]float64{440}, rate), 10*time.Millisecond); err != nil {
			t.Fatalf("Play(%d): %v", rate, err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"init", "play", "consumed",
		"play", "consumed",
		"close", "init", "play", "consumed",
		"close",
	}
	if got := dev.log(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestPlay_InvalidDuration(t *testing.T) {
	dev := &fakeDevice{}
	s := NewWithDevice(dev, 0, nil)
	err := s.Play(context.Background(), chord.New([]float64{440}, 0), 0)
	if !errors.Is(err, player.ErrDuration) {
		t.Errorf("err = %v, want ErrDuration", err)
	}
	if len(dev.log()) != 0 {
		t.Errorf("device touched: %v", dev.log())
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(0, nil)
	if s.blockSize != player.DefaultBlockSize {
		t.Errorf("blockSize = %v", s.blockSize)
	}
	if _, ok := s.dev.(beepDevice); !ok {
		t.Errorf("dev = %T, want beepDevice", s.dev)
	}
}

func TestSleep(t *testing.T) {
	if err := sleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("sleep: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("sleep on cancelled ctx = %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("sleep ignored cancellation")
	}
}
