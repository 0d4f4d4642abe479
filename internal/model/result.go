package model

import "time"

// Origin tells where the clips of a mashup came from.
type Origin int

const (
	// OriginAcquired means the clips were cut from downloaded media.
	OriginAcquired Origin = iota

	// OriginSynthesized means acquisition produced nothing and the clips
	// were generated locally.
	OriginSynthesized
)

// String returns the upper-case tag used in logs and summaries.
func (o Origin) String() string {
	switch o {
	case OriginAcquired:
		return "ACQUIRED"
	case OriginSynthesized:
		return "SYNTHESIZED"
	default:
		return "UNKNOWN"
	}
}

// PipelineResult is the ordered set of clips chosen for a mashup.
//
// Clips are in processing order. A successful pipeline never produces an
// empty result.
type PipelineResult struct {
	Clips  []AudioClip
	Origin Origin
}

// Duration returns the sum of all clip durations.
func (r PipelineResult) Duration() time.Duration {
	var total time.Duration
	for _, c := range r.Clips {
		total += c.Duration()
	}
	return total
}

// OutputFormat identifies the encoded container of a mashup.
type OutputFormat string

// FormatMP3 is the only output format.
const FormatMP3 OutputFormat = "mp3"

// Extension returns the file extension for the format, including the dot.
func (f OutputFormat) Extension() string {
	return "." + string(f)
}

// MashupOutput describes an encoded mashup file. Ownership of the file
// passes to the caller, which must remove it when done.
type MashupOutput struct {
	// Path is the absolute location of the encoded file.
	Path string

	// Format is the container/codec of the file.
	Format OutputFormat

	// Duration is the encoded length.
	Duration time.Duration

	// Size is the file size in bytes.
	Size int64
}
