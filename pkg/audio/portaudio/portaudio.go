//go:build portaudio

package portaudio

/*
#cgo pkg-config: portaudio-2.0

#include <portaudio.h>
#include <stdlib.h>
#include <string.h>

// Wrapper functions using void* to avoid CGO type issues with PaStream
static PaError pa_open_stream(void **stream,
                              const PaStreamParameters *inputParams,
                              const PaStreamParameters *outputParams,
                              double sampleRate,
                              unsigned long framesPerBuffer,
                              PaStreamFlags streamFlags) {
    return Pa_OpenStream((PaStream**)stream, inputParams, outputParams, sampleRate,
                         framesPerBuffer, streamFlags, NULL, NULL);
}

static PaError pa_start_stream(void *stream) {
    return Pa_StartStream((PaStream*)stream);
}

static PaError pa_stop_stream(void *stream) {
    return Pa_StopStream((PaStream*)stream);
}

static PaError pa_close_stream(void *stream) {
    return Pa_CloseStream((PaStream*)stream);
}

static PaError pa_write_stream(void *stream, const void *buffer, unsigned long frames) {
    return Pa_WriteStream((PaStream*)stream, buffer, frames);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// ErrNoDevice is returned when the requested output device does not exist
// or cannot play the requested number of channels.
var ErrNoDevice = errors.New("portaudio: no such output device")

// paError converts a PortAudio error code to a Go error.
func paError(code C.PaError) error {
	if code == C.paNoError {
		return nil
	}
	return errors.New(C.GoString(C.Pa_GetErrorText(code)))
}

// Initialize initializes the PortAudio library. Calls nest; every
// successful Initialize must be matched by a Terminate.
func Initialize() error {
	return paError(C.Pa_Initialize())
}

// Terminate releases one Initialize.
func Terminate() error {
	return paError(C.Pa_Terminate())
}

// DeviceInfo contains information about an audio device.
type DeviceInfo struct {
	Index                    int
	Name                     string
	MaxInputChannels         int
	MaxOutputChannels        int
	DefaultLowInputLatency   float64
	DefaultHighInputLatency  float64
	DefaultLowOutputLatency  float64
	DefaultHighOutputLatency float64
	DefaultSampleRate        float64
	IsDefaultInput           bool
	IsDefaultOutput          bool
}

// Devices returns a list of available audio devices.
func Devices() ([]DeviceInfo, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	defer Terminate()

	count := int(C.Pa_GetDeviceCount())
	if count < 0 {
		return nil, paError(C.PaError(count))
	}

	defaultInput := int(C.Pa_GetDefaultInputDevice())
	defaultOutput := int(C.Pa_GetDefaultOutputDevice())

	devices := make([]DeviceInfo, count)
	for i := 0; i < count; i++ {
		info := C.Pa_GetDeviceInfo(C.PaDeviceIndex(i))
		if info == nil {
			continue
		}
		devices[i] = DeviceInfo{
			Index:                    i,
			Name:                     C.GoString(info.name),
			MaxInputChannels:         int(info.maxInputChannels),
			MaxOutputChannels:        int(info.maxOutputChannels),
			DefaultLowInputLatency:   float64(info.defaultLowInputLatency),
			DefaultHighInputLatency:  float64(info.defaultHighInputLatency),
			DefaultLowOutputLatency:  float64(info.defaultLowOutputLatency),
			DefaultHighOutputLatency: float64(info.defaultHighOutputLatency),
			DefaultSampleRate:        float64(info.defaultSampleRate),
			IsDefaultInput:           i == defaultInput,
			IsDefaultOutput:          i == defaultOutput,
		}
	}
	return devices, nil
}

// DefaultOutputDevice returns the default output device.
func DefaultOutputDevice() (*DeviceInfo, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	defer Terminate()

	idx := C.Pa_GetDefaultOutputDevice()
	if idx == C.paNoDevice {
		return nil, ErrNoDevice
	}

	info := C.Pa_GetDeviceInfo(idx)
	if info == nil {
		return nil, ErrNoDevice
	}

	return &DeviceInfo{
		Index:                    int(idx),
		Name:                     C.GoString(info.name),
		MaxOutputChannels:        int(info.maxOutputChannels),
		DefaultLowOutputLatency:  float64(info.defaultLowOutputLatency),
		DefaultHighOutputLatency: float64(info.defaultHighOutputLatency),
		DefaultSampleRate:        float64(info.defaultSampleRate),
		IsDefaultOutput:          true,
	}, nil
}

// OutputDevices returns the devices that can play audio.
func OutputDevices() ([]DeviceInfo, error) {
	devices, err := Devices()
	if err != nil {
		return nil, err
	}
	out := devices[:0]
	for _, d := range devices {
		if d.MaxOutputChannels > 0 {
			out = append(out, d)
		}
	}
	return out, nil
}

// Stream is a blocking PortAudio output stream of interleaved int16
// samples.
type Stream struct {
	stream     unsafe.Pointer
	buffer     unsafe.Pointer
	channels   int
	bufferSize int
	closed     bool
	mu         sync.Mutex
}

// openOutput opens an output stream on the given device, or on the default
// device when device is negative. The library must be initialized.
func openOutput(device, channels int, sampleRate float64, framesPerBuffer int) (*Stream, error) {
	idx := C.PaDeviceIndex(device)
	if device < 0 {
		idx = C.Pa_GetDefaultOutputDevice()
	}
	if idx == C.paNoDevice || int(idx) >= int(C.Pa_GetDeviceCount()) {
		return nil, fmt.Errorf("%w: %d", ErrNoDevice, device)
	}
	info := C.Pa_GetDeviceInfo(idx)
	if info == nil || int(info.maxOutputChannels) < channels {
		return nil, fmt.Errorf("%w: %d cannot play %d channels", ErrNoDevice, int(idx), channels)
	}
	params := &C.PaStreamParameters{
		device:                    idx,
		channelCount:              C.int(channels),
		sampleFormat:              C.paInt16,
		suggestedLatency:          info.defaultLowOutputLatency,
		hostApiSpecificStreamInfo: nil,
	}

	var paStream unsafe.Pointer
	err := paError(C.pa_open_stream(
		&paStream,
		nil,
		params,
		C.double(sampleRate),
		C.ulong(framesPerBuffer),
		C.paClipOff,
	))
	if err != nil {
		return nil, err
	}

	bufferSize := framesPerBuffer * channels * 2 // int16 = 2 bytes
	return &Stream{
		stream:     paStream,
		buffer:     C.malloc(C.size_t(bufferSize)),
		channels:   channels,
		bufferSize: bufferSize,
	}, nil
}

// Start starts the audio stream.
func (s *Stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("portaudio: stream closed")
	}
	return paError(C.pa_start_stream(s.stream))
}

// Close closes the audio stream.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	C.pa_stop_stream(s.stream)
	err := paError(C.pa_close_stream(s.stream))
	C.free(s.buffer)
	return err
}

// Write blocks until the interleaved samples have been queued. len(samples)
// must not exceed the buffer the stream was opened with.
func (s *Stream) Write(samples []int16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("portaudio: stream closed")
	}
	if len(samples) == 0 {
		return nil
	}
	if len(samples)*2 > s.bufferSize {
		return fmt.Errorf("portaudio: %d samples exceed buffer", len(samples))
	}

	C.memcpy(s.buffer, unsafe.Pointer(&samples[0]), C.size_t(len(samples)*2))
	frames := len(samples) / s.channels
	return paError(C.pa_write_stream(s.stream, s.buffer, C.ulong(frames)))
}
