package mashup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/handiism/yt-mashup/internal/audio"
	ioutils "github.com/handiism/yt-mashup/internal/io"
	"github.com/handiism/yt-mashup/internal/model"
)

// Encoder writes a PCM clip to an encoded file.
type Encoder interface {
	Encode(ctx context.Context, clip model.AudioClip, path string) error
}

// Concat joins clips end to end into a new buffer.
//
// There is no crossfade or gain change. All clips must share one sample
// rate and channel count. The inputs are not modified.
func Concat(clips []model.AudioClip) (model.AudioClip, error) {
	if len(clips) == 0 {
		return model.AudioClip{}, fmt.Errorf("%w: no clips to concatenate", model.ErrInvalidArgument)
	}

	first := clips[0]
	if err := first.Validate(); err != nil {
		return model.AudioClip{}, fmt.Errorf("clip 0: %w", err)
	}

	total := 0
	for i, c := range clips {
		if !c.SameFormat(first) {
			return model.AudioClip{}, fmt.Errorf("%w: clip %d is %d Hz/%d ch, clip 0 is %d Hz/%d ch",
				audio.ErrFormatMismatch, i, c.SampleRate, c.Channels, first.SampleRate, first.Channels)
		}
		total += c.Frames() * c.Channels
	}

	samples := make([]int16, 0, total)
	for _, c := range clips {
		samples = append(samples, c.Samples[:c.Frames()*c.Channels]...)
	}

	return model.AudioClip{
		Samples:    samples,
		SampleRate: first.SampleRate,
		Channels:   first.Channels,
	}, nil
}

// Assembler concatenates clips and encodes them to a single MP3.
type Assembler struct {
	encoder Encoder
	probe   func(path string) (time.Duration, error)
	log     zerolog.Logger
}

// NewAssembler creates an Assembler that encodes with encoder.
func NewAssembler(encoder Encoder, logger zerolog.Logger) *Assembler {
	return &Assembler{
		encoder: encoder,
		probe:   audio.MP3Duration,
		log:     logger,
	}
}

// Assemble encodes clips, in order, to path.
//
// The file is first encoded next to path and then moved into place, so
// a failed run never leaves a partial output behind. An empty clip list
// is rejected with model.ErrInvalidArgument before anything is written.
func (a *Assembler) Assemble(ctx context.Context, clips []model.AudioClip, path string) (*model.MashupOutput, error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("%w: cannot assemble an empty clip list", model.ErrInvalidArgument)
	}

	joined, err := Concat(clips)
	if err != nil {
		return nil, err
	}
	expected := joined.Duration()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if err := ioutils.EnsureDir(filepath.Dir(abs)); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), ".mashup-*.part")
	if err != nil {
		return nil, fmt.Errorf("creating temporary output: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	start := time.Now()
	if err := a.encoder.Encode(ctx, joined, tmpPath); err != nil {
		return nil, fmt.Errorf("encoding mashup: %w", err)
	}
	if err := ioutils.MoveFile(ctx, tmpPath, abs); err != nil {
		return nil, fmt.Errorf("moving mashup into place: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}

	duration := expected
	if measured, err := a.probe(abs); err != nil {
		a.log.Warn().Err(err).Str("path", abs).Msg("could not measure encoded duration")
	} else if measured > 0 {
		duration = measured
	}

	a.log.Info().
		Str("path", abs).
		Int("clips", len(clips)).
		Dur("duration", duration).
		Dur("expected", expected).
		Int64("bytes", info.Size()).
		Dur("took", time.Since(start)).
		Msg("mashup encoded")

	return &model.MashupOutput{
		Path:     abs,
		Format:   model.FormatMP3,
		Duration: duration,
		Size:     info.Size(),
	}, nil
}
