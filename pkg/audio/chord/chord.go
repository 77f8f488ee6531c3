// Package chord synthesizes a sustained chord as an unshaped sum of sine
// waves.
//
// A Chord is a streaming source: every call to Fill (or Stream, or Read)
// renders the next block of frames and advances each tone's sample index,
// so the waveform is phase-continuous across blocks of any size. Output is
// stereo with both channels carrying the same signal.
package chord

import (
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/gopxl/beep/v2"

	"github.com/NU-CEM/singing-materials-online/pkg/audio/pcm"
)

// DefaultSampleRate is the sample rate used when none is given.
const DefaultSampleRate = 44100

// tone is a single partial and the index of the next sample it renders.
type tone struct {
	freq  float64
	start int64
}

// Option configures a Chord.
type Option func(*Chord)

// WithGain sets the amplitude applied to every tone.
func WithGain(g float64) Option {
	return func(c *Chord) {
		c.gain = g
		c.gainSet = true
	}
}

// WithRawSum sums tones at unit amplitude. Sums beyond full scale are
// clipped when quantised to 16-bit PCM.
func WithRawSum() Option {
	return WithGain(1)
}

// Chord is a fixed set of sine tones played together.
//
// It is safe to call methods on Chord from multiple goroutines; a speaker
// callback typically runs on its own goroutine.
type Chord struct {
	sampleRate int
	gain       float64
	gainSet    bool

	mu    sync.Mutex
	tones []tone
	buf   [][2]float64
}

// New creates a chord from frequencies in Hz. Duplicate frequencies are
// merged into one tone. A sampleRate of zero selects DefaultSampleRate.
//
// Unless WithGain is given, each tone is scaled by 1/len(tones) so the sum
// stays within [-1, 1].
func New(freqs []float64, sampleRate int, opts ...Option) *Chord {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	c := &Chord{sampleRate: sampleRate}
	seen := make(map[float64]struct{}, len(freqs))
	for _, f := range freqs {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		c.tones = append(c.tones, tone{freq: f})
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.gainSet {
		c.gain = 1
		if len(c.tones) > 0 {
			c.gain = 1 / float64(len(c.tones))
		}
	}
	return c
}

// SampleRate returns the sample rate in Hz.
func (c *Chord) SampleRate() int {
	return c.sampleRate
}

// Gain returns the per-tone amplitude.
func (c *Chord) Gain() float64 {
	return c.gain
}

// Frequencies returns the tone frequencies in Hz.
func (c *Chord) Frequencies() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]float64, len(c.tones))
	for i, t := range c.tones {
		out[i] = t.freq
	}
	return out
}

// Position returns the number of frames rendered so far.
func (c *Chord) Position() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tones) == 0 {
		return 0
	}
	return c.tones[0].start
}

// Reset rewinds every tone to sample zero.
func (c *Chord) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tones {
		c.tones[i].start = 0
	}
}

// Fill renders the next len(out) frames into out and returns the number of
// frames written. An empty chord renders silence.
func (c *Chord) Fill(out [][2]float64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fillLocked(out)
	return len(out)
}

func (c *Chord) fillLocked(out [][2]float64) {
	clear(out)
	sr := float64(c.sampleRate)
	for ti := range c.tones {
		t := &c.tones[ti]
		w := 2 * math.Pi * t.freq
		for i := range out {
			v := c.gain * math.Sin(w*float64(t.start+int64(i))/sr)
			out[i][0] += v
			out[i][1] += v
		}
		t.start += int64(len(out))
	}
}

// Stream implements beep.Streamer. A chord never drains; the caller decides
// how long it plays.
func (c *Chord) Stream(samples [][2]float64) (int, bool) {
	return c.Fill(samples), true
}

// Err implements beep.Streamer.
func (c *Chord) Err() error {
	return nil
}

var _ beep.Streamer = (*Chord)(nil)

// Int16 renders len(out)/2 frames as interleaved stereo 16-bit samples and
// returns the number of frames written.
func (c *Chord) Int16(out []int16) int {
	frames := len(out) / 2
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := c.scratch(frames)
	c.fillLocked(buf)
	for i, f := range buf {
		out[2*i] = quantize(f[0])
		out[2*i+1] = quantize(f[1])
	}
	return frames
}

// Read implements io.Reader, producing audio in pcm.L16Stereo44K layout
// (little-endian, interleaved stereo) at the chord's sample rate. Read only
// returns whole frames.
func (c *Chord) Read(p []byte) (int, error) {
	const frameSize = 4
	frames := len(p) / frameSize
	if frames == 0 {
		return 0, io.ErrShortBuffer
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := c.scratch(frames)
	c.fillLocked(buf)
	for i, f := range buf {
		binary.LittleEndian.PutUint16(p[i*frameSize:], uint16(quantize(f[0])))
		binary.LittleEndian.PutUint16(p[i*frameSize+2:], uint16(quantize(f[1])))
	}
	return frames * frameSize, nil
}

// Format returns the pcm format produced by Read, if the chord's sample rate
// has a matching stereo format.
func (c *Chord) Format() (pcm.Format, bool) {
	switch c.sampleRate {
	case 44100:
		return pcm.L16Stereo44K, true
	case 48000:
		return pcm.L16Stereo48K, true
	}
	return 0, false
}

func (c *Chord) scratch(frames int) [][2]float64 {
	if cap(c.buf) < frames {
		c.buf = make([][2]float64, frames)
	}
	return c.buf[:frames]
}

// quantize converts a float sample to int16, clipping to full scale.
func quantize(v float64) int16 {
	switch {
	case v >= 1:
		return math.MaxInt16
	case v <= -1:
		return -math.MaxInt16
	}
	return int16(v * math.MaxInt16)
}
