package mashup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/handiism/yt-mashup/internal/audio"
	"github.com/handiism/yt-mashup/internal/config"
	"github.com/handiism/yt-mashup/internal/download"
	ioutils "github.com/handiism/yt-mashup/internal/io"
	"github.com/handiism/yt-mashup/internal/logging"
	"github.com/handiism/yt-mashup/internal/model"
)

// Searcher finds candidates for a search term.
type Searcher interface {
	Search(ctx context.Context, term string, desired int) ([]model.VideoCandidate, error)
}

// Request is the input of one pipeline run.
type Request struct {
	// Query is the artist or search term. Required.
	Query string

	// CandidateCount is both the number of candidates searched for and
	// the number of clips wanted.
	CandidateCount int

	// ClipDuration is the maximum length of each clip.
	ClipDuration time.Duration

	// OutputName is coerced to a file name ending in ".mp3".
	OutputName string

	// OutputDir receives the mashup. Empty means the working directory.
	OutputDir string
}

// Validate checks the request bounds without touching the network or
// the filesystem.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("%w: query must not be empty", model.ErrInvalidArgument)
	}
	if r.CandidateCount < 1 || r.CandidateCount > config.MaxCandidateCount {
		return fmt.Errorf("%w: candidate count must be between 1 and %d, got %d",
			model.ErrInvalidArgument, config.MaxCandidateCount, r.CandidateCount)
	}
	maxClip := config.MaxClipSeconds * time.Second
	if r.ClipDuration <= 0 || r.ClipDuration > maxClip {
		return fmt.Errorf("%w: clip duration must be in (0, %v], got %v",
			model.ErrInvalidArgument, maxClip, r.ClipDuration)
	}
	return nil
}

// Result is what a successful run hands back to its caller.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Output is the encoded mashup. The caller owns the file.
	Output *model.MashupOutput

	// ClipCount is the number of clips in the mashup.
	ClipCount int

	// Origin tells whether the clips were downloaded or synthesized.
	Origin model.Origin

	// Candidates is the number of unique candidates the search returned.
	Candidates int

	// Tracks lists each clip's title and offset in the mashup.
	Tracks []audio.TrackEntry

	// TracklistPath is the sidecar file, when one was written.
	TracklistPath string

	// Warnings are advisory messages about degraded results.
	Warnings []string
}

// Options wires a Pipeline to its collaborators.
type Options struct {
	Searcher  Searcher
	Fetcher   download.Fetcher
	Decoder   download.Decoder
	Assembler *Assembler

	// Retry and Pacing configure the download orchestrator.
	Retry  download.RetryPolicy
	Pacing time.Duration

	// Tagger writes ID3 tags to the result. Nil disables tagging.
	Tagger *audio.Tagger

	// Cover is embedded as front cover art when tagging. Optional.
	Cover []byte

	// Tracklist writes a sidecar next to the result. Nil disables it.
	Tracklist *audio.TracklistCreator

	// ScratchParent is where per-run scratch directories are created.
	// Empty means os.TempDir().
	ScratchParent string

	Logger     zerolog.Logger
	OnEvent    func(download.ProgressEvent)
	OnProgress download.ProgressFunc
}

// Pipeline runs search, download, fallback synthesis, and assembly.
//
// A Pipeline holds no per-run state and may be reused; concurrent runs
// each get their own scratch directory and candidate set.
type Pipeline struct {
	opts Options
	log  zerolog.Logger
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	return &Pipeline{opts: opts, log: opts.Logger}
}

// Run executes one mashup request.
//
// Invalid requests fail with model.ErrInvalidArgument before any I/O.
// Search variant failures and per-candidate download failures are
// absorbed; if nothing could be downloaded the clips are synthesized and
// the result's Origin says so. The scratch directory is removed before
// Run returns, on every path.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Query = strings.TrimSpace(req.Query)
	name := model.CoerceOutputName(req.OutputName)
	outDir := req.OutputDir
	if outDir == "" {
		outDir = "."
	}

	runID := uuid.NewString()
	log := logging.WithRun(p.log, runID)
	res := &Result{RunID: runID}

	log.Info().
		Str("query", req.Query).
		Int("count", req.CandidateCount).
		Dur("clip", req.ClipDuration).
		Str("output", name).
		Msg("pipeline started")

	scratch, err := ioutils.NewScratchDir(p.opts.ScratchParent, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := scratch.Remove(); err != nil {
			log.Warn().Err(err).Str("dir", scratch.Path).Msg("could not remove scratch directory")
		}
	}()

	p.event(fmt.Sprintf("Searching for %s", req.Query), download.LevelInfo)
	candidates, err := p.opts.Searcher.Search(ctx, req.Query, req.CandidateCount)
	if err != nil {
		return nil, fmt.Errorf("searching for %q: %w", req.Query, err)
	}
	res.Candidates = len(candidates)
	if len(candidates) == 0 {
		res.Warnings = append(res.Warnings, "no videos found for "+req.Query)
		p.event("No videos found", download.LevelWarning)
	} else {
		p.event(fmt.Sprintf("Found %d videos", len(candidates)), download.LevelInfo)
	}

	manager := download.NewManager(p.opts.Fetcher, p.opts.Decoder, download.Options{
		Retry:      p.opts.Retry,
		Pacing:     p.opts.Pacing,
		ScratchDir: scratch.Path,
		Logger:     log.With().Str("component", "download").Logger(),
		OnEvent:    p.opts.OnEvent,
		OnProgress: p.opts.OnProgress,
	})

	clips, err := manager.Acquire(ctx, candidates, req.ClipDuration, req.CandidateCount)
	if err != nil {
		return nil, fmt.Errorf("downloading clips: %w", err)
	}

	res.Origin = model.OriginAcquired
	if len(clips) == 0 {
		clips = audio.Synthesize(req.CandidateCount, req.ClipDuration)
		res.Origin = model.OriginSynthesized
		res.Warnings = append(res.Warnings, "could not download videos, created synthesized mashup")
		p.event("Could not download videos, creating synthesized mashup", download.LevelWarning)
		log.Warn().Int("clips", len(clips)).Msg("acquisition produced nothing, synthesizing")
	} else if len(clips) < req.CandidateCount {
		res.Warnings = append(res.Warnings, fmt.Sprintf("only %d of %d clips could be downloaded", len(clips), req.CandidateCount))
	}

	result := model.PipelineResult{Clips: clips, Origin: res.Origin}
	res.ClipCount = len(result.Clips)
	res.Tracks = audio.EntriesFromClips(result.Clips)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.event(fmt.Sprintf("Creating mashup from %d clips", res.ClipCount), download.LevelInfo)
	out, err := p.opts.Assembler.Assemble(ctx, result.Clips, filepath.Join(outDir, name))
	if err != nil {
		return nil, fmt.Errorf("assembling mashup: %w", err)
	}
	res.Output = out

	if p.opts.Tagger != nil {
		tags := audio.Tags{
			Title:   strings.TrimSuffix(name, model.FormatMP3.Extension()),
			Artist:  req.Query,
			Album:   "Mashup",
			Year:    time.Now().Format("2006"),
			Comment: fmt.Sprintf("%s mashup of %d clips", res.Origin, res.ClipCount),
			Artwork: p.opts.Cover,
		}
		if err := p.opts.Tagger.SaveTags(out.Path, tags); err != nil {
			res.Warnings = append(res.Warnings, "could not tag mashup: "+err.Error())
			log.Warn().Err(err).Msg("tagging failed")
		} else if info, err := os.Stat(out.Path); err == nil {
			out.Size = info.Size()
		}
	}

	if p.opts.Tracklist != nil {
		path := strings.TrimSuffix(out.Path, filepath.Ext(out.Path)) + p.opts.Tracklist.Format().Extension()
		content := p.opts.Tracklist.CreateTracklist(out.Path, req.Query, res.Tracks)
		if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
			res.Warnings = append(res.Warnings, "could not write tracklist: "+err.Error())
			log.Warn().Err(err).Msg("tracklist failed")
		} else {
			res.TracklistPath = path
		}
	}

	p.event(fmt.Sprintf("Mashup ready: %s (%s, %d clips)", out.Path, res.Origin, res.ClipCount), download.LevelSuccess)
	log.Info().
		Str("origin", res.Origin.String()).
		Int("clips", res.ClipCount).
		Str("path", out.Path).
		Dur("duration", out.Duration).
		Msg("pipeline finished")

	return res, nil
}

func (p *Pipeline) event(msg string, level download.ProgressLevel) {
	if p.opts.OnEvent != nil {
		p.opts.OnEvent(download.ProgressEvent{Message: msg, Level: level})
	}
}
