// Package audio is the umbrella for the audio sub-packages:
//
//   - pcm: PCM formats, chunks and chunk writers
//   - chord: an additive sine-wave chord that streams samples on demand
//   - player: plays a chord for a fixed duration into a WAV file or as a
//     raw PCM stream; player/speaker plays it on the speakers through beep
//   - portaudio: a blocking PortAudio output stream (build tag portaudio)
//
// Example usage:
//
//	import (
//	    "github.com/NU-CEM/singing-materials-online/pkg/audio/chord"
//	    "github.com/NU-CEM/singing-materials-online/pkg/audio/player/speaker"
//	)
//
//	c := chord.New([]float64{220, 440, 660}, chord.DefaultSampleRate)
//	sp := speaker.New(0, nil)
//	defer sp.Close()
//	err := sp.Play(ctx, c, 5*time.Second)
package audio
