package mashup

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/handiism/yt-mashup/internal/audio"
	"github.com/handiism/yt-mashup/internal/config"
	"github.com/handiism/yt-mashup/internal/download"
	"github.com/handiism/yt-mashup/internal/http"
	ioutils "github.com/handiism/yt-mashup/internal/io"
	"github.com/handiism/yt-mashup/internal/search"
)

// Hooks receive progress from a pipeline built by NewFromSettings.
type Hooks struct {
	OnEvent    func(download.ProgressEvent)
	OnProgress download.ProgressFunc
}

// NewFromSettings wires a production Pipeline from settings: yt-dlp
// search, the configured fetch backend, ffmpeg decoding and encoding,
// and optional tagging and tracklists.
//
// A cover art path or URL that cannot be loaded is logged and skipped.
func NewFromSettings(ctx context.Context, s *config.Settings, logger zerolog.Logger, hooks Hooks) (*Pipeline, error) {
	profile := s.Profile()

	httpClient := http.NewClient(
		http.WithTimeout(s.HTTPTimeout()),
		http.WithUserAgent(s.UserAgent),
	)

	source := &search.YTDLPSource{
		Executable:    s.YTDLPPath,
		SocketTimeout: profile.SocketTimeout,
		Logger:        logger.With().Str("component", "search").Logger(),
	}
	searcher := search.NewVariantSearcher(source, profile.QueryVariants, logger.With().Str("component", "search").Logger())

	var fetcher download.Fetcher
	switch strings.ToLower(s.FetchBackend) {
	case config.BackendNative:
		fetcher = download.NewNativeFetcher(httpClient, profile.PreferLowBitrate)
	case config.BackendYTDLP, "":
		fetcher = &download.YTDLPFetcher{
			Executable:    s.YTDLPPath,
			FFmpegPath:    s.FFmpegPath,
			Format:        profile.Format,
			AudioQuality:  profile.AudioQuality,
			SocketTimeout: profile.SocketTimeout,
		}
	default:
		return nil, fmt.Errorf("unknown fetch backend %q", s.FetchBackend)
	}

	encoder := &audio.Encoder{Executable: s.FFmpegPath, BitrateKbps: s.OutputBitrateKbps}

	opts := Options{
		Searcher:   searcher,
		Fetcher:    fetcher,
		Decoder:    &audio.FFmpegDecoder{Executable: s.FFmpegPath},
		Assembler:  NewAssembler(encoder, logger.With().Str("component", "audio").Logger()),
		Retry:      profile.RetryPolicy(),
		Pacing:     profile.Pacing,
		Logger:     logger.With().Str("component", "mashup").Logger(),
		OnEvent:    hooks.OnEvent,
		OnProgress: hooks.OnProgress,
	}

	if s.TagOutput {
		opts.Tagger = audio.NewTagger()
		if s.CoverArtPath != "" {
			cover, err := loadCover(ctx, httpClient, s.CoverArtPath, s.CoverArtMaxSize)
			if err != nil {
				logger.Warn().Err(err).Str("cover", s.CoverArtPath).Msg("ignoring cover art")
			} else {
				opts.Cover = cover
			}
		}
	}
	if s.WriteTracklist {
		opts.Tracklist = audio.NewTracklistCreator(audio.ParseTracklistFormat(s.TracklistFormat))
	}

	return New(opts), nil
}

func loadCover(ctx context.Context, client *http.Client, source string, maxSize int) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = client.DownloadBytes(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}
	return ioutils.NewImageService().PrepareCover(ctx, data, maxSize)
}
