//go:build portaudio

package portaudio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/NU-CEM/singing-materials-online/pkg/audio/pcm"
)

// OutputStream plays audio to one output device. It holds a PortAudio
// initialization until Close.
type OutputStream struct {
	stream *Stream
	format pcm.Format
	frames int
	buffer []int16
	mu     sync.Mutex
	closed bool
}

// NewOutputStream creates a started output stream on device, or on the
// default output device when device is negative. bufferDuration sets the
// size of each write.
func NewOutputStream(device int, format pcm.Format, bufferDuration time.Duration) (*OutputStream, error) {
	framesPerBuffer := int(format.FramesInDuration(bufferDuration))
	if framesPerBuffer <= 0 {
		return nil, fmt.Errorf("portaudio: buffer of %v holds no frames", bufferDuration)
	}
	if err := Initialize(); err != nil {
		return nil, err
	}

	stream, err := openOutput(device, format.Channels(), float64(format.SampleRate()), framesPerBuffer)
	if err != nil {
		Terminate()
		return nil, err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		Terminate()
		return nil, err
	}

	return &OutputStream{
		stream: stream,
		format: format,
		frames: framesPerBuffer,
		buffer: make([]int16, framesPerBuffer*format.Channels()),
	}, nil
}

// FramesPerBuffer returns the number of frames in one write buffer.
func (os *OutputStream) FramesPerBuffer() int {
	return os.frames
}

// Write writes interleaved samples to the output. A short write is padded
// with silence to a whole buffer. Returns the number of samples consumed.
func (os *OutputStream) Write(samples []int16) (int, error) {
	os.mu.Lock()
	defer os.mu.Unlock()

	if os.closed {
		return 0, errors.New("portaudio: stream closed")
	}

	n := copy(os.buffer, samples)
	clear(os.buffer[n:])

	if err := os.stream.Write(os.buffer); err != nil {
		return 0, err
	}
	return n, nil
}

// Format returns the PCM format.
func (os *OutputStream) Format() pcm.Format {
	return os.format
}

// Close stops and closes the stream.
func (os *OutputStream) Close() error {
	os.mu.Lock()
	defer os.mu.Unlock()

	if os.closed {
		return nil
	}
	os.closed = true

	return errors.Join(os.stream.Close(), Terminate())
}
