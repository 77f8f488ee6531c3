//go:build portaudio

package portaudio

import (
	"errors"
	"testing"
	"time"

	"github.com/NU-CEM/singing-materials-online/pkg/audio/pcm"
)

// needOutput skips tests on machines without a usable output device, such
// as CI containers.
func needOutput(t *testing.T) *DeviceInfo {
	t.Helper()
	def, err := DefaultOutputDevice()
	if err != nil {
		t.Skipf("no output device: %v", err)
	}
	return def
}

func TestOutputDevices(t *testing.T) {
	all, err := Devices()
	if err != nil {
		t.Skipf("portaudio unavailable: %v", err)
	}
	for i, d := range all {
		if d.Index != i {
			t.Errorf("device %d has Index %d", i, d.Index)
		}
	}
	out, err := OutputDevices()
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range out {
		if d.MaxOutputChannels <= 0 {
			t.Errorf("%q listed as output with %d channels", d.Name, d.MaxOutputChannels)
		}
	}
}

func TestNewOutputStream_UnknownDevice(t *testing.T) {
	if err := Initialize(); err != nil {
		t.Skipf("portaudio unavailable: %v", err)
	}
	defer Terminate()

	_, err := NewOutputStream(1<<20, pcm.L16Stereo44K, 100*time.Millisecond)
	if !errors.Is(err, ErrNoDevice) {
		t.Errorf("NewOutputStream(unknown) = %v, want ErrNoDevice", err)
	}
}

func TestNewOutputStream_EmptyBuffer(t *testing.T) {
	if _, err := NewOutputStream(-1, pcm.L16Stereo44K, 0); err == nil {
		t.Error("expected error for a zero-length buffer")
	}
}

func TestOutputStream_Write(t *testing.T) {
	def := needOutput(t)
	out, err := NewOutputStream(def.Index, pcm.L16Stereo44K, 20*time.Millisecond)
	if err != nil {
		t.Skipf("open %q: %v", def.Name, err)
	}
	if out.Format() != pcm.L16Stereo44K {
		t.Errorf("Format() = %v", out.Format())
	}
	if got, want := out.FramesPerBuffer(), 882; got != want {
		t.Errorf("FramesPerBuffer() = %d, want %d", got, want)
	}

	n, err := out.Write(make([]int16, 100))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != 100 {
		t.Errorf("Write consumed %d samples, want 100", n)
	}

	if err := out.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := out.Write(make([]int16, 2)); err == nil {
		t.Error("Write after Close should fail")
	}
}
