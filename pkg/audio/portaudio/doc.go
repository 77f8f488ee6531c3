// Package portaudio lists output devices and plays PCM audio on them
// through the PortAudio C library.
//
// The package needs cgo and portaudio installed via pkg-config
// (brew install portaudio, apt install portaudio19-dev) and is only built
// with the "portaudio" build tag:
//
//	go build -tags portaudio ./cmd/sonify
package portaudio
