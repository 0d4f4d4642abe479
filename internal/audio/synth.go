package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/handiism/yt-mashup/internal/model"
)

const (
	// SynthSampleRate is the sample rate of synthesized clips.
	SynthSampleRate = 44100

	// SynthFade is the length of the fade at each end of a synthesized clip.
	SynthFade = time.Second

	synthAmplitude = 0.3
	synthHarmonic  = 0.1
	int16FullScale = 32767
)

// Tones is the C major scale used by Synthesize, in Hz.
var Tones = []float64{261.63, 293.66, 329.63, 349.23, 392.00, 440.00, 493.88, 523.25}

// Synthesize generates n tone clips of duration d each.
//
// Tone i uses Tones[i%len(Tones)]. Even-numbered tones are reinforced by
// an in-phase partial. Every clip is mono at SynthSampleRate with a
// linear fade in and out of SynthFade, shortened to half the clip when
// the clip is too short. Output depends only on n and d.
func Synthesize(n int, d time.Duration) []model.AudioClip {
	if n <= 0 || d <= 0 {
		return nil
	}

	clips := make([]model.AudioClip, n)
	for i := range clips {
		freq := Tones[i%len(Tones)]
		clips[i] = model.AudioClip{
			Samples:    tone(freq, d, i%2 == 0),
			SampleRate: SynthSampleRate,
			Channels:   1,
			Label:      fmt.Sprintf("Tone %.2f Hz", freq),
		}
	}
	return clips
}

func tone(freq float64, d time.Duration, harmonic bool) []int16 {
	frames := FramesFor(d, SynthSampleRate)
	fade := min(FramesFor(SynthFade, SynthSampleRate), frames/2)

	amp := synthAmplitude
	if harmonic {
		amp += synthHarmonic
	}

	samples := make([]int16, frames)
	step := 2 * math.Pi * freq / SynthSampleRate
	for j := range samples {
		v := math.Sin(step*float64(j)) * amp

		switch {
		case j < fade:
			v *= float64(j) / float64(fade)
		case j >= frames-fade:
			v *= float64(frames-1-j) / float64(fade)
		}

		samples[j] = int16(v * int16FullScale)
	}
	return samples
}
