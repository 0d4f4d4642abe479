package mashup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/yt-mashup/internal/audio"
	"github.com/handiism/yt-mashup/internal/download"
	"github.com/handiism/yt-mashup/internal/model"
	"github.com/handiism/yt-mashup/internal/search"
)

// pcmEncoder writes raw samples instead of MP3 and remembers the clip.
type pcmEncoder struct {
	mu    sync.Mutex
	clips []model.AudioClip
	err   error
}

func (e *pcmEncoder) Encode(ctx context.Context, clip model.AudioClip, path string) error {
	e.mu.Lock()
	e.clips = append(e.clips, clip)
	e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	return os.WriteFile(path, audio.SamplesToBytes(clip.Samples), 0644)
}

func newTestAssembler(enc Encoder) *Assembler {
	a := NewAssembler(enc, zerolog.Nop())
	a.probe = func(string) (time.Duration, error) { return 0, nil }
	return a
}

// scriptedFetcher fails every ID in fail and writes a stub file otherwise.
type scriptedFetcher struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls []string
}

func (f *scriptedFetcher) Fetch(ctx context.Context, job download.Job) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, job.Candidate.ID)
	f.mu.Unlock()

	if f.fail["*"] || f.fail[job.Candidate.ID] {
		return "", errors.New("HTTP Error 403: Forbidden")
	}
	path := filepath.Join(job.Dir, job.Candidate.ID+".mp3")
	return path, os.WriteFile(path, []byte("stub"), 0644)
}

func (f *scriptedFetcher) attempted() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int{}
	for _, id := range f.calls {
		out[id]++
	}
	return out
}

// stubDecoder returns a minute of 1 kHz stereo audio.
type stubDecoder struct{}

func (stubDecoder) Decode(ctx context.Context, path string, max time.Duration) (model.AudioClip, error) {
	return model.AudioClip{Samples: make([]int16, 1000*2*60), SampleRate: 1000, Channels: 2}, nil
}

type countingSearcher struct {
	search.Source
	calls int
}

func (s *countingSearcher) Search(ctx context.Context, term string, desired int) ([]model.VideoCandidate, error) {
	s.calls++
	return s.Source.Search(ctx, term, desired)
}

func staticSource(ids ...string) search.Source {
	return search.SourceFunc(func(ctx context.Context, query string, limit int) ([]model.VideoCandidate, error) {
		out := make([]model.VideoCandidate, 0, len(ids))
		for _, id := range ids {
			out = append(out, model.VideoCandidate{ID: id, Title: "Song " + id})
		}
		if len(out) > limit {
			out = out[:limit]
		}
		return out, nil
	})
}

type fixture struct {
	pipeline *Pipeline
	fetcher  *scriptedFetcher
	encoder  *pcmEncoder
	searcher *countingSearcher
	outDir   string
	scratch  string
}

func newFixture(t *testing.T, src search.Source, fail map[string]bool) *fixture {
	t.Helper()
	f := &fixture{
		fetcher:  &scriptedFetcher{fail: fail},
		encoder:  &pcmEncoder{},
		searcher: &countingSearcher{Source: src},
		outDir:   t.TempDir(),
		scratch:  t.TempDir(),
	}
	f.pipeline = New(Options{
		Searcher:      search.NewVariantSearcher(f.searcher, nil, zerolog.Nop()),
		Fetcher:       f.fetcher,
		Decoder:       stubDecoder{},
		Assembler:     newTestAssembler(f.encoder),
		Retry:         download.RetryPolicy{MaxAttempts: 3},
		ScratchParent: f.scratch,
		Logger:        zerolog.Nop(),
	})
	return f
}

func (f *fixture) assertScratchClean(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.scratch)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directories must be removed")
}

func TestPipeline_AllDownloadsFailSynthesizes(t *testing.T) {
	ids := make([]string, 10)
	for i := range ids {
		ids[i] = fmt.Sprintf("v%d", i)
	}
	f := newFixture(t, staticSource(ids...), map[string]bool{"*": true})

	res, err := f.pipeline.Run(context.Background(), Request{
		Query:          "Artist X",
		CandidateCount: 10,
		ClipDuration:   30 * time.Second,
		OutputDir:      f.outDir,
	})
	require.NoError(t, err)

	assert.Equal(t, model.OriginSynthesized, res.Origin)
	assert.Equal(t, 10, res.ClipCount)
	assert.Equal(t, 300*time.Second, res.Output.Duration)
	assert.Equal(t, filepath.Join(f.outDir, "mashup.mp3"), res.Output.Path)
	assert.NotEmpty(t, res.Warnings)

	for _, n := range f.fetcher.attempted() {
		assert.Equal(t, 3, n, "each candidate gets the full retry budget")
	}

	require.Len(t, f.encoder.clips, 1)
	assert.Equal(t, audio.SynthSampleRate, f.encoder.clips[0].SampleRate)
	f.assertScratchClean(t)
}

func TestPipeline_PartialSuccessKeepsOrder(t *testing.T) {
	f := newFixture(t, staticSource("a", "b", "c", "d", "e"), map[string]bool{"b": true, "d": true})

	res, err := f.pipeline.Run(context.Background(), Request{
		Query:          "Artist Y",
		CandidateCount: 5,
		ClipDuration:   20 * time.Second,
		OutputName:     "party",
		OutputDir:      f.outDir,
	})
	require.NoError(t, err)

	assert.Equal(t, model.OriginAcquired, res.Origin)
	assert.Equal(t, 3, res.ClipCount)
	require.Len(t, res.Tracks, 3)
	assert.Equal(t, "Song a", res.Tracks[0].Title)
	assert.Equal(t, "Song c", res.Tracks[1].Title)
	assert.Equal(t, "Song e", res.Tracks[2].Title)
	assert.Equal(t, 40*time.Second, res.Tracks[2].Start)
	assert.Equal(t, 60*time.Second, res.Output.Duration)
	assert.Equal(t, "party.mp3", filepath.Base(res.Output.Path))
	f.assertScratchClean(t)
}

func TestPipeline_EmptyQueryRejectedBeforeSearch(t *testing.T) {
	f := newFixture(t, staticSource("a"), nil)

	_, err := f.pipeline.Run(context.Background(), Request{
		Query:          "  ",
		CandidateCount: 5,
		ClipDuration:   20 * time.Second,
		OutputDir:      f.outDir,
	})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	assert.Zero(t, f.searcher.calls)
	assert.Empty(t, f.fetcher.calls)

	entries, _ := os.ReadDir(f.outDir)
	assert.Empty(t, entries)
	f.assertScratchClean(t)
}

func TestPipeline_DuplicateAcrossVariantsDownloadedOnce(t *testing.T) {
	src := search.SourceFunc(func(ctx context.Context, query string, limit int) ([]model.VideoCandidate, error) {
		switch query {
		case "Artist Z":
			return []model.VideoCandidate{{ID: "dup"}, {ID: "one"}}, nil
		case "Artist Z audio":
			return []model.VideoCandidate{{ID: "dup"}, {ID: "two"}}, nil
		}
		return nil, nil
	})

	f := newFixture(t, src, nil)
	f.pipeline.opts.Searcher = search.NewVariantSearcher(src, []string{"{term}", "{term} audio"}, zerolog.Nop())

	res, err := f.pipeline.Run(context.Background(), Request{
		Query:          "Artist Z",
		CandidateCount: 4,
		ClipDuration:   10 * time.Second,
		OutputDir:      f.outDir,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Candidates)
	assert.Equal(t, 1, f.fetcher.attempted()["dup"])
	assert.Equal(t, 3, res.ClipCount)
}

func TestPipeline_NoCandidatesSynthesizes(t *testing.T) {
	f := newFixture(t, staticSource(), nil)

	res, err := f.pipeline.Run(context.Background(), Request{
		Query:          "nobody",
		CandidateCount: 3,
		ClipDuration:   5 * time.Second,
		OutputDir:      f.outDir,
	})
	require.NoError(t, err)
	assert.Equal(t, model.OriginSynthesized, res.Origin)
	assert.Equal(t, 3, res.ClipCount)
	assert.Zero(t, res.Candidates)
}

func TestPipeline_SourceUnavailableFails(t *testing.T) {
	src := search.SourceFunc(func(ctx context.Context, query string, limit int) ([]model.VideoCandidate, error) {
		return nil, fmt.Errorf("%w: yt-dlp missing", search.ErrSourceUnavailable)
	})
	f := newFixture(t, src, nil)

	_, err := f.pipeline.Run(context.Background(), Request{
		Query:          "Artist",
		CandidateCount: 3,
		ClipDuration:   5 * time.Second,
		OutputDir:      f.outDir,
	})
	assert.ErrorIs(t, err, search.ErrSourceUnavailable)
	f.assertScratchClean(t)
}

func TestPipeline_EncodeFailureCleansUp(t *testing.T) {
	f := newFixture(t, staticSource("a"), nil)
	f.encoder.err = errors.New("libmp3lame not available")

	_, err := f.pipeline.Run(context.Background(), Request{
		Query:          "Artist",
		CandidateCount: 1,
		ClipDuration:   5 * time.Second,
		OutputDir:      f.outDir,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "libmp3lame")

	entries, _ := os.ReadDir(f.outDir)
	assert.Empty(t, entries, "no partial output")
	f.assertScratchClean(t)
}

func TestPipeline_TagsAndTracklist(t *testing.T) {
	f := newFixture(t, staticSource("a", "b"), nil)
	f.pipeline.opts.Tagger = audio.NewTagger()
	f.pipeline.opts.Tracklist = audio.NewTracklistCreator(audio.FormatCUE)

	res, err := f.pipeline.Run(context.Background(), Request{
		Query:          "Artist",
		CandidateCount: 2,
		ClipDuration:   5 * time.Second,
		OutputName:     "mix.MP3",
		OutputDir:      f.outDir,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.outDir, "mix.cue"), res.TracklistPath)

	cue, err := os.ReadFile(res.TracklistPath)
	require.NoError(t, err)
	assert.Contains(t, string(cue), `FILE "mix.mp3" MP3`)
	assert.Contains(t, string(cue), "INDEX 01 00:05:00")
	assert.Empty(t, res.Warnings)
}

func TestPipeline_ProgressObserver(t *testing.T) {
	f := newFixture(t, staticSource("a", "b", "c"), map[string]bool{"b": true})

	var calls [][2]int
	f.pipeline.opts.OnProgress = func(done, target int) {
		calls = append(calls, [2]int{done, target})
	}

	_, err := f.pipeline.Run(context.Background(), Request{
		Query:          "Artist",
		CandidateCount: 3,
		ClipDuration:   5 * time.Second,
		OutputDir:      f.outDir,
	})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}, {1, 3}, {2, 3}}, calls)
}

func TestPipeline_Cancelled(t *testing.T) {
	f := newFixture(t, staticSource("a", "b"), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.pipeline.Run(ctx, Request{
		Query:          "Artist",
		CandidateCount: 2,
		ClipDuration:   5 * time.Second,
		OutputDir:      f.outDir,
	})
	assert.ErrorIs(t, err, context.Canceled)
	f.assertScratchClean(t)
}

func TestRequest_Validate(t *testing.T) {
	valid := Request{Query: "x", CandidateCount: 10, ClipDuration: 30 * time.Second}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty query", func(r *Request) { r.Query = "" }},
		{"zero count", func(r *Request) { r.CandidateCount = 0 }},
		{"count too high", func(r *Request) { r.CandidateCount = 51 }},
		{"zero duration", func(r *Request) { r.ClipDuration = 0 }},
		{"negative duration", func(r *Request) { r.ClipDuration = -time.Second }},
		{"duration too long", func(r *Request) { r.ClipDuration = 121 * time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			assert.ErrorIs(t, r.Validate(), model.ErrInvalidArgument)
		})
	}
}

func TestConcat(t *testing.T) {
	a := model.AudioClip{Samples: []int16{1, 2, 3, 4}, SampleRate: 2, Channels: 2}
	b := model.AudioClip{Samples: []int16{5, 6}, SampleRate: 2, Channels: 2}

	got, err := Concat([]model.AudioClip{a, b})
	require.NoError(t, err)
	assert.Equal(t, []int16{1, 2, 3, 4, 5, 6}, got.Samples)
	assert.Equal(t, a.Duration()+b.Duration(), got.Duration())

	got.Samples[0] = 99
	assert.Equal(t, int16(1), a.Samples[0], "inputs must not be modified")
}

func TestConcat_Errors(t *testing.T) {
	_, err := Concat(nil)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	mono := model.AudioClip{Samples: []int16{1}, SampleRate: 44100, Channels: 1}
	stereo := model.AudioClip{Samples: []int16{1, 1}, SampleRate: 44100, Channels: 2}
	_, err = Concat([]model.AudioClip{mono, stereo})
	assert.ErrorIs(t, err, audio.ErrFormatMismatch)

	_, err = Concat([]model.AudioClip{{Samples: []int16{1}, Channels: 1}})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestAssembler_EmptyInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	enc := &pcmEncoder{}

	_, err := newTestAssembler(enc).Assemble(context.Background(), nil, filepath.Join(dir, "out.mp3"))
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	assert.Empty(t, enc.clips)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestAssembler_DurationIsSumOfClips(t *testing.T) {
	dir := t.TempDir()
	clips := audio.Synthesize(3, 2*time.Second)

	out, err := newTestAssembler(&pcmEncoder{}).Assemble(context.Background(), clips, filepath.Join(dir, "nested", "out.mp3"))
	require.NoError(t, err)
	assert.Equal(t, 6*time.Second, out.Duration)
	assert.Equal(t, model.FormatMP3, out.Format)
	assert.Equal(t, int64(3*2*audio.SynthSampleRate*2), out.Size)
}

func TestAssembler_RealEncode(t *testing.T) {
	if !audio.Available("") {
		t.Skip("ffmpeg not found in PATH")
	}

	clips := audio.Synthesize(2, 3*time.Second)
	asm := NewAssembler(&audio.Encoder{}, zerolog.Nop())

	out, err := asm.Assemble(context.Background(), clips, filepath.Join(t.TempDir(), "real.mp3"))
	require.NoError(t, err)
	assert.InDelta(t, 6.0, out.Duration.Seconds(), 0.25)
}
