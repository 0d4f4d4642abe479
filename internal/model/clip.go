package model

import (
	"fmt"
	"time"
)

// AudioClip is a decoded audio buffer.
//
// Samples are interleaved signed 16-bit values: for a stereo clip the
// layout is L0 R0 L1 R1 ... . A frame is one sample per channel, so the
// clip length in frames is len(Samples)/Channels.
//
// Clips are never modified in place once produced. Functions that change
// audio (trimming, fading, concatenation) return new clips.
type AudioClip struct {
	// Samples holds interleaved PCM values.
	Samples []int16

	// SampleRate is the number of frames per second.
	SampleRate int

	// Channels is the number of interleaved channels.
	Channels int

	// Label names the clip in tracklists, e.g. the source video title.
	Label string

	// SourceID is the candidate ID the clip was cut from. Empty for
	// synthesized clips.
	SourceID string
}

// Frames returns the number of frames in the clip.
func (c AudioClip) Frames() int {
	if c.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Duration returns the playback length derived from frame count and rate.
func (c AudioClip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(int64(c.Frames()) * int64(time.Second) / int64(c.SampleRate))
}

// Validate reports whether the clip has a usable format.
func (c AudioClip) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidArgument, c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("%w: channel count must be positive, got %d", ErrInvalidArgument, c.Channels)
	}
	return nil
}

// SameFormat reports whether two clips can be concatenated sample for sample.
func (c AudioClip) SameFormat(other AudioClip) bool {
	return c.SampleRate == other.SampleRate && c.Channels == other.Channels
}
