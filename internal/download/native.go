package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/handiism/yt-mashup/internal/http"
)

// NativeFetcher downloads audio-only streams with the pure Go YouTube
// client. It needs no external executable but only understands YouTube
// locators.
type NativeFetcher struct {
	client *youtube.Client

	// PreferLowBitrate selects the smallest audio stream instead of the
	// largest.
	PreferLowBitrate bool

	// OnBytes, when set, receives byte progress for the current stream.
	OnBytes func(written, total int64)
}

// NewNativeFetcher creates a NativeFetcher on top of httpClient.
func NewNativeFetcher(httpClient *http.Client, preferLowBitrate bool) *NativeFetcher {
	return &NativeFetcher{
		client:           &youtube.Client{HTTPClient: httpClient.HTTP()},
		PreferLowBitrate: preferLowBitrate,
	}
}

// Fetch streams the chosen audio format to <Dir>/<id>.<ext>.
func (f *NativeFetcher) Fetch(ctx context.Context, job Job) (string, error) {
	video, err := f.client.GetVideoContext(ctx, job.Locator)
	if err != nil {
		return "", classifyYouTubeError(fmt.Errorf("fetching metadata for %s: %w", job.Locator, err))
	}

	format, err := pickAudioFormat(video.Formats, f.PreferLowBitrate)
	if err != nil {
		return "", Permanent(fmt.Errorf("%s: %w", job.Locator, err))
	}

	stream, size, err := f.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", classifyYouTubeError(fmt.Errorf("starting stream for %s: %w", job.Locator, err))
	}
	defer stream.Close()

	dest := filepath.Join(job.Dir, fileStem(job)+"."+mimeToExt(format.MimeType))
	if err := http.StreamToFile(ctx, stream, size, dest, f.OnBytes); err != nil {
		return "", fmt.Errorf("downloading %s: %w", job.Locator, err)
	}
	return dest, nil
}

// pickAudioFormat returns the audio-only format with the lowest or
// highest bitrate, falling back to muxed formats that carry audio.
func pickAudioFormat(formats youtube.FormatList, preferLow bool) (*youtube.Format, error) {
	withAudio := formats.WithAudioChannels()

	var audioOnly youtube.FormatList
	for _, f := range withAudio {
		if strings.HasPrefix(f.MimeType, "audio/") {
			audioOnly = append(audioOnly, f)
		}
	}
	if len(audioOnly) == 0 {
		audioOnly = withAudio
	}
	if len(audioOnly) == 0 {
		return nil, errors.New("no audio formats available")
	}

	sort.SliceStable(audioOnly, func(i, j int) bool {
		bi, bj := formatBitrate(audioOnly[i]), formatBitrate(audioOnly[j])
		if preferLow {
			return bi < bj
		}
		return bi > bj
	})
	chosen := audioOnly[0]
	return &chosen, nil
}

func formatBitrate(f youtube.Format) int {
	if f.AverageBitrate > 0 {
		return f.AverageBitrate
	}
	return f.Bitrate
}

func classifyYouTubeError(err error) error {
	switch {
	case errors.Is(err, youtube.ErrLoginRequired),
		errors.Is(err, youtube.ErrVideoPrivate),
		errors.Is(err, youtube.ErrNotPlayableInEmbed),
		errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return Permanent(err)
	}

	var statusErr *youtube.ErrPlayabiltyStatus
	if errors.As(err, &statusErr) {
		return Permanent(err)
	}
	return err
}

func mimeToExt(mime string) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	switch mime {
	case "audio/mp4":
		return "m4a"
	case "audio/webm":
		return "webm"
	case "audio/mpeg":
		return "mp3"
	}
	if parts := strings.Split(mime, "/"); len(parts) == 2 && parts[1] != "" {
		if parts[1] == "3gpp" {
			return "3gp"
		}
		return parts[1]
	}
	return "bin"
}
