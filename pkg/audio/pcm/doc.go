// Package pcm describes the raw 16-bit PCM formats the sonifier renders to
// and provides chunk types for moving that audio between a synthesizer and
// a sink.
//
// The default format is L16Stereo44K: 44.1 kHz, two interleaved channels,
// little-endian signed 16-bit samples.
//
// Example usage:
//
//	format := pcm.L16Stereo44K
//
//	// Bytes needed for one second of audio
//	bytes := format.BytesInDuration(time.Second)
//
//	// Copy a synthesized stream into a chunk writer
//	err := pcm.Copy(ctx, pcm.ChunkWriter(w), io.LimitReader(src, bytes), format)
package pcm
