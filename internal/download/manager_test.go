package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/yt-mashup/internal/model"
)

// fakeFetcher writes an empty file per job and fails the IDs listed in
// failures for the configured number of calls (-1 fails forever).
type fakeFetcher struct {
	mu       sync.Mutex
	failures map[string]int
	calls    map[string]int
	order    []string
}

func newFakeFetcher(failures map[string]int) *fakeFetcher {
	return &fakeFetcher{failures: failures, calls: map[string]int{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, job Job) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := job.Candidate.ID
	f.calls[id]++
	f.order = append(f.order, id)

	if n, ok := f.failures[id]; ok && (n < 0 || f.calls[id] <= n) {
		return "", errors.New("HTTP 429: too many requests")
	}

	path := filepath.Join(job.Dir, id+".mp3")
	if err := os.WriteFile(path, []byte(job.Locator), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// fakeDecoder returns ten seconds of 100 Hz mono audio for every file.
type fakeDecoder struct {
	seconds int
	err     error
}

func (d fakeDecoder) Decode(ctx context.Context, path string, max time.Duration) (model.AudioClip, error) {
	if d.err != nil {
		return model.AudioClip{}, d.err
	}
	if _, err := os.Stat(path); err != nil {
		return model.AudioClip{}, err
	}
	seconds := d.seconds
	if seconds == 0 {
		seconds = 10
	}
	samples := make([]int16, 100*seconds)
	for i := range samples {
		samples[i] = int16(i)
	}
	return model.AudioClip{Samples: samples, SampleRate: 100, Channels: 1}, nil
}

func candidates(ids ...string) []model.VideoCandidate {
	out := make([]model.VideoCandidate, len(ids))
	for i, id := range ids {
		out[i] = model.VideoCandidate{ID: id, Title: "Video " + id}
	}
	return out
}

func testOptions(t *testing.T) Options {
	return Options{
		Retry:      RetryPolicy{MaxAttempts: 3},
		ScratchDir: t.TempDir(),
	}
}

func TestManager_AcquireStopsAtTarget(t *testing.T) {
	fetcher := newFakeFetcher(nil)
	m := NewManager(fetcher, fakeDecoder{}, testOptions(t))

	clips, err := m.Acquire(context.Background(), candidates("a", "b", "c", "d"), 3*time.Second, 2)
	require.NoError(t, err)
	require.Len(t, clips, 2)

	assert.Equal(t, []string{"a", "b"}, fetcher.order)
	for _, c := range clips {
		assert.Equal(t, 300, c.Frames())
		assert.LessOrEqual(t, c.Duration(), 3*time.Second)
	}
	assert.Equal(t, "a", clips[0].SourceID)
	assert.Equal(t, "Video a", clips[0].Label)
}

func TestManager_PartialFailurePreservesOrder(t *testing.T) {
	fetcher := newFakeFetcher(map[string]int{"b": -1, "d": -1})
	m := NewManager(fetcher, fakeDecoder{}, testOptions(t))

	clips, err := m.Acquire(context.Background(), candidates("a", "b", "c", "d", "e"), 30*time.Second, 5)
	require.NoError(t, err)
	require.Len(t, clips, 3)

	assert.Equal(t, "a", clips[0].SourceID)
	assert.Equal(t, "c", clips[1].SourceID)
	assert.Equal(t, "e", clips[2].SourceID)
	assert.Equal(t, 3, fetcher.calls["b"])
	assert.Equal(t, 3, fetcher.calls["d"])
}

func TestManager_RetryRecovers(t *testing.T) {
	fetcher := newFakeFetcher(map[string]int{"a": 2})
	m := NewManager(fetcher, fakeDecoder{}, testOptions(t))

	clips, err := m.Acquire(context.Background(), candidates("a"), 5*time.Second, 1)
	require.NoError(t, err)
	require.Len(t, clips, 1)
	assert.Equal(t, 3, fetcher.calls["a"])
}

func TestManager_AllFailIsNotAnError(t *testing.T) {
	fetcher := newFakeFetcher(map[string]int{"a": -1, "b": -1})
	m := NewManager(fetcher, fakeDecoder{}, testOptions(t))

	clips, err := m.Acquire(context.Background(), candidates("a", "b"), 5*time.Second, 2)
	require.NoError(t, err)
	assert.Empty(t, clips)
}

func TestManager_DecodeFailureSkipsCandidate(t *testing.T) {
	m := NewManager(newFakeFetcher(nil), fakeDecoder{err: errors.New("invalid data")}, testOptions(t))

	clips, err := m.Acquire(context.Background(), candidates("a"), 5*time.Second, 1)
	require.NoError(t, err)
	assert.Empty(t, clips)
}

func TestManager_ShortSourceKeepsLength(t *testing.T) {
	m := NewManager(newFakeFetcher(nil), fakeDecoder{seconds: 2}, testOptions(t))

	clips, err := m.Acquire(context.Background(), candidates("a"), 30*time.Second, 1)
	require.NoError(t, err)
	require.Len(t, clips, 1)
	assert.Equal(t, 2*time.Second, clips[0].Duration())
}

func TestManager_DuplicateIDsAttemptedOnce(t *testing.T) {
	fetcher := newFakeFetcher(nil)
	m := NewManager(fetcher, fakeDecoder{}, testOptions(t))

	clips, err := m.Acquire(context.Background(), candidates("a", "a", "b"), 5*time.Second, 5)
	require.NoError(t, err)
	assert.Len(t, clips, 2)
	assert.Equal(t, []string{"a", "b"}, fetcher.order)
}

func TestManager_UnresolvableCandidateSkipped(t *testing.T) {
	fetcher := newFakeFetcher(nil)
	m := NewManager(fetcher, fakeDecoder{}, testOptions(t))

	list := []model.VideoCandidate{{ID: ""}, {ID: "b"}}
	clips, err := m.Acquire(context.Background(), list, 5*time.Second, 2)
	require.NoError(t, err)
	assert.Len(t, clips, 1)
	assert.Equal(t, []string{"b"}, fetcher.order)
}

func TestManager_ScratchFilesRemoved(t *testing.T) {
	opts := testOptions(t)
	m := NewManager(newFakeFetcher(nil), fakeDecoder{}, opts)

	_, err := m.Acquire(context.Background(), candidates("a", "b"), 5*time.Second, 2)
	require.NoError(t, err)

	entries, err := os.ReadDir(opts.ScratchDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestManager_ProgressCallbacks(t *testing.T) {
	opts := testOptions(t)

	var progress [][2]int
	var events []ProgressEvent
	opts.OnProgress = func(completed, target int) {
		progress = append(progress, [2]int{completed, target})
	}
	opts.OnEvent = func(e ProgressEvent) {
		events = append(events, e)
	}

	fetcher := newFakeFetcher(map[string]int{"b": -1})
	m := NewManager(fetcher, fakeDecoder{}, opts)

	_, err := m.Acquire(context.Background(), candidates("a", "b", "c"), 5*time.Second, 3)
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{1, 3}, {1, 3}, {2, 3}}, progress)

	attempted, acquired, target := m.GetProgress()
	assert.Equal(t, 3, attempted)
	assert.Equal(t, 2, acquired)
	assert.Equal(t, 3, target)

	var warnings int
	for _, e := range events {
		if e.Level == LevelWarning {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings, "two retries for the failing candidate")
}

func TestManager_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fetcher := FetcherFunc(func(ctx context.Context, job Job) (string, error) {
		cancel()
		path := filepath.Join(job.Dir, job.Candidate.ID)
		return path, os.WriteFile(path, nil, 0644)
	})
	m := NewManager(fetcher, fakeDecoder{}, testOptions(t))

	clips, err := m.Acquire(ctx, candidates("a", "b"), 5*time.Second, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, len(clips), 1)
}

func TestManager_InvalidArguments(t *testing.T) {
	m := NewManager(newFakeFetcher(nil), fakeDecoder{}, testOptions(t))

	_, err := m.Acquire(context.Background(), candidates("a"), 0, 1)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = m.Acquire(context.Background(), candidates("a"), time.Second, 0)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestManager_PacingBetweenSuccesses(t *testing.T) {
	opts := testOptions(t)
	opts.Pacing = 30 * time.Millisecond
	m := NewManager(newFakeFetcher(nil), fakeDecoder{}, opts)

	start := time.Now()
	clips, err := m.Acquire(context.Background(), candidates("a", "b", "c"), time.Second, 3)
	require.NoError(t, err)
	assert.Len(t, clips, 3)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestResolveLocator(t *testing.T) {
	tests := []struct {
		name   string
		c      model.VideoCandidate
		want   string
		wantOK bool
	}{
		{"direct url", model.VideoCandidate{ID: "x", URL: "https://cdn.example/a", WebpageURL: "https://www.youtube.com/watch?v=x"}, "https://cdn.example/a", true},
		{"webpage url", model.VideoCandidate{ID: "x", WebpageURL: "https://www.youtube.com/watch?v=x"}, "https://www.youtube.com/watch?v=x", true},
		{"id only", model.VideoCandidate{ID: "dQw4w9WgXcQ"}, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"bare id in url field", model.VideoCandidate{ID: "abc", URL: "abc"}, "https://www.youtube.com/watch?v=abc", true},
		{"nothing", model.VideoCandidate{}, "", false},
		{"bad id", model.VideoCandidate{ID: "a b"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveLocator(tt.c)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMimeToExt(t *testing.T) {
	assert.Equal(t, "m4a", mimeToExt(`audio/mp4; codecs="mp4a.40.2"`))
	assert.Equal(t, "webm", mimeToExt(`audio/webm; codecs="opus"`))
	assert.Equal(t, "3gp", mimeToExt("video/3gpp"))
	assert.Equal(t, "bin", mimeToExt("garbage"))
}
