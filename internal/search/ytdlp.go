package search

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/rs/zerolog"

	"github.com/handiism/yt-mashup/internal/model"
	"github.com/handiism/yt-mashup/internal/search/dto"
)

// YTDLPSource searches YouTube through the yt-dlp executable.
type YTDLPSource struct {
	// Executable is the yt-dlp binary name or path. Empty means "yt-dlp".
	Executable string

	// SocketTimeout bounds each network read inside yt-dlp. Optional.
	SocketTimeout time.Duration

	// Logger receives parse diagnostics. The zero value discards them.
	Logger zerolog.Logger
}

// Search runs a flat "ytsearchN:" query and returns the printed entries.
func (s *YTDLPSource) Search(ctx context.Context, query string, limit int) ([]model.VideoCandidate, error) {
	if limit <= 0 {
		return nil, nil
	}

	exe := s.Executable
	if exe == "" {
		exe = "yt-dlp"
	}
	resolved, err := exec.LookPath(exe)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	cmd := ytdlp.New().
		SetExecutable(resolved).
		FlatPlaylist().
		Print(dto.PrintTemplate).
		PlaylistItems(fmt.Sprintf("1-%d", limit)).
		NoWarnings().
		IgnoreConfig()
	if s.SocketTimeout > 0 {
		cmd = cmd.SocketTimeout(s.SocketTimeout.Seconds())
	}

	res, err := cmd.Run(ctx, fmt.Sprintf("ytsearch%d:%s", limit, query))
	if err != nil {
		if res != nil && strings.TrimSpace(res.Stderr) != "" {
			return nil, fmt.Errorf("yt-dlp search %q: %w: %s", query, err, strings.TrimSpace(res.Stderr))
		}
		return nil, fmt.Errorf("yt-dlp search %q: %w", query, err)
	}

	entries, skipped := dto.ParseEntries(res.Stdout)
	if skipped > 0 {
		s.Logger.Debug().Str("query", query).Int("skipped", skipped).Msg("ignored unparseable search rows")
	}

	out := make([]model.VideoCandidate, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].ToCandidate())
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
