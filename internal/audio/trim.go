package audio

import (
	"fmt"
	"time"

	"github.com/handiism/yt-mashup/internal/model"
)

// Trim returns the first d of buf as a new clip.
//
// The result holds min(buf frames, d*rate) frames; a buffer shorter than
// d is returned whole. buf is never modified and the result shares no
// memory with it. A zero sample rate or channel count is rejected.
func Trim(buf model.AudioClip, d time.Duration) (model.AudioClip, error) {
	if err := buf.Validate(); err != nil {
		return model.AudioClip{}, err
	}
	if d < 0 {
		return model.AudioClip{}, fmt.Errorf("%w: negative duration %v", model.ErrInvalidArgument, d)
	}

	frames := min(buf.Frames(), FramesFor(d, buf.SampleRate))

	out := buf
	out.Samples = make([]int16, frames*buf.Channels)
	copy(out.Samples, buf.Samples)
	return out, nil
}

// FramesFor converts a duration to a frame count at rate, rounding down.
func FramesFor(d time.Duration, rate int) int {
	if d <= 0 || rate <= 0 {
		return 0
	}
	return int(int64(d) * int64(rate) / int64(time.Second))
}
