package pcm

import (
	"io"
	"time"
)

const (
	// L16Stereo44K represents audio/L16; rate=44100; channels=2
	L16Stereo44K Format = iota
	// L16Mono16K represents audio/L16; rate=16000; channels=1
	L16Mono16K
	// L16Mono44K represents audio/L16; rate=44100; channels=1
	L16Mono44K
	// L16Stereo48K represents audio/L16; rate=48000; channels=2
	L16Stereo48K
)

// Chunk is a chunk of audio data.
type Chunk interface {
	Len() int64
	Format() Format
	WriteTo(w io.Writer) (int64, error)
}

// Format represents an audio format configuration.
type Format int

// SampleRate returns the sample rate in Hz for this format.
func (f Format) SampleRate() int {
	switch f {
	case L16Mono16K:
		return 16000
	case L16Stereo44K, L16Mono44K:
		return 44100
	case L16Stereo48K:
		return 48000
	}
	panic("pcm: invalid audio type")
}

// Channels returns the number of audio channels for this format.
func (f Format) Channels() int {
	switch f {
	case L16Mono16K, L16Mono44K:
		return 1
	case L16Stereo44K, L16Stereo48K:
		return 2
	}
	panic("pcm: invalid audio type")
}

// Depth returns the bit depth for this format.
func (f Format) Depth() int {
	switch f {
	case L16Stereo44K, L16Mono16K, L16Mono44K, L16Stereo48K:
		return 16
	}
	panic("pcm: invalid audio type")
}

// FrameSize returns the number of bytes in one frame (one sample per channel).
func (f Format) FrameSize() int {
	return f.Channels() * f.Depth() / 8
}

// Frames returns the number of frames in the given number of bytes.
func (f Format) Frames(bytes int64) int64 {
	return bytes / int64(f.FrameSize())
}

// FramesInDuration returns the number of frames in the given duration.
func (f Format) FramesInDuration(d time.Duration) int64 {
	return int64(time.Duration(f.SampleRate()) * d / time.Second)
}

// BytesInDuration returns the number of bytes in the given duration.
func (f Format) BytesInDuration(d time.Duration) int64 {
	return f.FramesInDuration(d) * int64(f.FrameSize())
}

// Duration returns the duration of the given number of bytes.
func (f Format) Duration(bytes int64) time.Duration {
	return time.Duration(f.Frames(bytes)) * time.Second / time.Duration(f.SampleRate())
}

// BytesRate returns the byte rate of the audio data.
func (f Format) BytesRate() int {
	return f.SampleRate() * f.FrameSize()
}

// SilenceChunk returns a silence chunk of the given duration.
func (f Format) SilenceChunk(duration time.Duration) Chunk {
	return &SilenceChunk{
		Duration: duration,
		len:      f.BytesInDuration(duration),
		fmt:      f,
	}
}

// DataChunk returns a chunk of audio data.
func (f Format) DataChunk(data []byte) Chunk {
	return &DataChunk{
		Data: data,
		fmt:  f,
	}
}

// ReadChunk reads exactly the given duration of audio data from the reader.
func (f Format) ReadChunk(r io.Reader, duration time.Duration) (Chunk, error) {
	buf := make([]byte, f.BytesInDuration(duration))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return f.DataChunk(buf), nil
}

// String returns a human-readable string representation of the format.
func (f Format) String() string {
	switch f {
	case L16Stereo44K:
		return "audio/L16; rate=44100; channels=2"
	case L16Mono16K:
		return "audio/L16; rate=16000; channels=1"
	case L16Mono44K:
		return "audio/L16; rate=44100; channels=1"
	case L16Stereo48K:
		return "audio/L16; rate=48000; channels=2"
	}
	panic("pcm: invalid audio type")
}

// DataChunk is a chunk of audio data.
type DataChunk struct {
	Data []byte
	fmt  Format
}

// Len returns the length of the audio data in bytes.
func (c *DataChunk) Len() int64 {
	return int64(len(c.Data))
}

// Format returns the audio format of this chunk.
func (c *DataChunk) Format() Format {
	return c.fmt
}

// WriteTo writes the audio data to the writer.
func (c *DataChunk) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.Data)
	return int64(n), err
}

// SilenceChunk is a chunk of silence.
type SilenceChunk struct {
	Duration time.Duration
	len      int64
	fmt      Format
}

// Len returns the length of the silence in bytes.
func (c *SilenceChunk) Len() int64 {
	return c.len
}

// Format returns the audio format of this chunk.
func (c *SilenceChunk) Format() Format {
	return c.fmt
}

var emptyBytes [32768]byte

// WriteTo writes silence (zero bytes) to the writer.
func (c *SilenceChunk) WriteTo(w io.Writer) (int64, error) {
	var wn int64
	for rem := c.len; rem > 0; {
		n := min(rem, int64(len(emptyBytes)))
		m, err := w.Write(emptyBytes[:n])
		wn += int64(m)
		if err != nil {
			return wn, err
		}
		rem -= n
	}
	return wn, nil
}
