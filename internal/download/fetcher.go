package download

import (
	"context"
	"time"

	"github.com/handiism/yt-mashup/internal/model"
)

// Job is one download request handed to a Fetcher.
type Job struct {
	// Candidate is the video being fetched.
	Candidate model.VideoCandidate

	// Locator is the resolved address, see ResolveLocator.
	Locator string

	// Dir is the scratch directory the file must be written into.
	Dir string
}

// Fetcher retrieves the audio of a single video into a local file.
type Fetcher interface {
	// Fetch downloads job and returns the path of the written file.
	Fetch(ctx context.Context, job Job) (string, error)
}

// Decoder turns a downloaded media file into PCM.
type Decoder interface {
	// Decode reads at most max of audio from path. A non-positive max
	// decodes the whole file.
	Decode(ctx context.Context, path string, max time.Duration) (model.AudioClip, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, job Job) (string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, job Job) (string, error) {
	return f(ctx, job)
}
