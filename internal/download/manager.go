package download

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/handiism/yt-mashup/internal/audio"
	"github.com/handiism/yt-mashup/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns a short lower-case name for the level.
func (l ProgressLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// ProgressFunc is invoked after every candidate attempt with the number
// of clips acquired so far and the target count. It is advisory only.
type ProgressFunc func(completed, target int)

// Options configures a Manager.
type Options struct {
	// Retry bounds the attempts made for each candidate.
	Retry RetryPolicy

	// Pacing is the quiet period after each successful download.
	Pacing time.Duration

	// ScratchDir receives downloaded files. When empty, Acquire creates
	// and removes its own temporary directory.
	ScratchDir string

	// Logger receives structured logs. The zero value discards them.
	Logger zerolog.Logger

	// OnEvent receives human readable progress messages.
	OnEvent func(ProgressEvent)

	// OnProgress receives (completed, target) after every attempt.
	OnProgress ProgressFunc
}

// Manager turns an ordered candidate list into audio clips.
//
// Candidates are processed one at a time. A candidate that cannot be
// resolved, downloaded, or decoded is skipped; only context cancellation
// stops the run early.
type Manager struct {
	fetcher    Fetcher
	decoder    Decoder
	retry      RetryPolicy
	pacer      *Pacer
	scratchDir string
	log        zerolog.Logger
	onEvent    func(ProgressEvent)
	onProgress ProgressFunc

	attempted int32
	acquired  int32
	target    int32
}

// NewManager creates a new download Manager.
func NewManager(fetcher Fetcher, decoder Decoder, opts Options) *Manager {
	return &Manager{
		fetcher:    fetcher,
		decoder:    decoder,
		retry:      opts.Retry,
		pacer:      NewPacer(opts.Pacing),
		scratchDir: opts.ScratchDir,
		log:        opts.Logger,
		onEvent:    opts.OnEvent,
		onProgress: opts.OnProgress,
	}
}

// GetProgress returns the counters of the current or last Acquire call.
func (m *Manager) GetProgress() (attempted, acquired, target int) {
	return int(atomic.LoadInt32(&m.attempted)),
		int(atomic.LoadInt32(&m.acquired)),
		int(atomic.LoadInt32(&m.target))
}

// Acquire downloads candidates in order until target clips exist or the
// list is exhausted. Each clip is at most clipDuration long.
//
// An empty result with a nil error means nothing could be acquired. The
// returned error is non-nil only for invalid arguments or a cancelled
// context; clips gathered before cancellation are still returned.
func (m *Manager) Acquire(ctx context.Context, candidates []model.VideoCandidate, clipDuration time.Duration, target int) ([]model.AudioClip, error) {
	if clipDuration <= 0 {
		return nil, fmt.Errorf("%w: clip duration must be positive, got %v", model.ErrInvalidArgument, clipDuration)
	}
	if target <= 0 {
		return nil, fmt.Errorf("%w: target count must be positive, got %d", model.ErrInvalidArgument, target)
	}

	atomic.StoreInt32(&m.attempted, 0)
	atomic.StoreInt32(&m.acquired, 0)
	atomic.StoreInt32(&m.target, int32(target))

	dir := m.scratchDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "mashup-dl-*")
		if err != nil {
			return nil, fmt.Errorf("creating scratch directory: %w", err)
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	clips := make([]model.AudioClip, 0, min(target, len(candidates)))
	tried := make(map[string]struct{}, len(candidates))
	pace := false

	for i, c := range candidates {
		if len(clips) >= target {
			break
		}
		if err := ctx.Err(); err != nil {
			return clips, err
		}

		if _, dup := tried[c.ID]; dup && c.ID != "" {
			m.log.Debug().Str("id", c.ID).Msg("skipping duplicate candidate")
			continue
		}
		tried[c.ID] = struct{}{}

		locator, ok := ResolveLocator(c)
		if !ok {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping candidate %d: no usable locator", i+1), Level: LevelWarning})
			m.log.Warn().Int("index", i).Str("id", c.ID).Msg("candidate has no locator")
			m.report(len(clips), target)
			continue
		}

		if pace {
			if err := m.pacer.Wait(ctx); err != nil {
				return clips, err
			}
			pace = false
		}

		atomic.AddInt32(&m.attempted, 1)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Processing video %d/%d: %s", i+1, len(candidates), c.Label()), Level: LevelInfo})

		clip, err := m.acquireOne(ctx, c, locator, dir, clipDuration)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return clips, ctxErr
			}
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping %s: %v", c.Label(), err), Level: LevelError})
			m.log.Warn().Err(err).Str("id", c.ID).Str("locator", locator).Msg("candidate abandoned")
			m.report(len(clips), target)
			continue
		}

		clips = append(clips, clip)
		atomic.AddInt32(&m.acquired, 1)
		m.pacer.Mark()
		pace = true

		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", c.Label()), Level: LevelSuccess})
		m.log.Info().
			Str("id", c.ID).
			Dur("clip", clip.Duration()).
			Int("acquired", len(clips)).
			Int("target", target).
			Msg("clip acquired")
		m.report(len(clips), target)
	}

	return clips, nil
}

func (m *Manager) acquireOne(ctx context.Context, c model.VideoCandidate, locator, dir string, clipDuration time.Duration) (model.AudioClip, error) {
	job := Job{Candidate: c, Locator: locator, Dir: dir}

	var path string
	err := m.retry.Do(ctx, func(ctx context.Context) error {
		p, err := m.fetcher.Fetch(ctx, job)
		if err != nil {
			return err
		}
		path = p
		return nil
	}, func(attempt int, err error) {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Retry %d/%d for %s", attempt, m.retry.attempts(), c.Label()),
			Level:   LevelWarning,
		})
		m.log.Debug().Err(err).Str("id", c.ID).Int("attempt", attempt).Msg("fetch failed, retrying")
	})
	if err != nil {
		return model.AudioClip{}, err
	}
	defer os.Remove(path)

	decoded, err := m.decoder.Decode(ctx, path, clipDuration)
	if err != nil {
		return model.AudioClip{}, fmt.Errorf("decoding: %w", err)
	}

	clip, err := audio.Trim(decoded, clipDuration)
	if err != nil {
		return model.AudioClip{}, err
	}
	if clip.Frames() == 0 {
		return model.AudioClip{}, fmt.Errorf("decoded audio is empty")
	}
	clip.Label = c.Label()
	clip.SourceID = c.ID
	return clip, nil
}

func (m *Manager) report(completed, target int) {
	if m.onProgress != nil {
		m.onProgress(completed, target)
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onEvent != nil {
		m.onEvent(event)
	}
}
