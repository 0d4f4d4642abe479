package download

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// YTDLPFetcher extracts audio with the yt-dlp executable.
type YTDLPFetcher struct {
	// Executable is the yt-dlp binary name or path. Empty means "yt-dlp".
	Executable string

	// FFmpegPath is passed to yt-dlp for post-processing. Optional.
	FFmpegPath string

	// Format is the yt-dlp format selector, e.g. "worstaudio/worst".
	Format string

	// AudioQuality is the target bitrate of the extracted MP3, e.g. "64K".
	AudioQuality string

	// SocketTimeout bounds each network read inside yt-dlp.
	SocketTimeout time.Duration
}

// Fetch downloads job.Locator as <Dir>/<id>.mp3.
func (f *YTDLPFetcher) Fetch(ctx context.Context, job Job) (string, error) {
	exe := f.Executable
	if exe == "" {
		exe = "yt-dlp"
	}
	resolved, err := exec.LookPath(exe)
	if err != nil {
		return "", fmt.Errorf("yt-dlp: %w", err)
	}

	name := fileStem(job)
	cmd := ytdlp.New().
		SetExecutable(resolved).
		Format(orDefault(f.Format, "worstaudio/worst")).
		ExtractAudio().
		AudioFormat("mp3").
		AudioQuality(orDefault(f.AudioQuality, "64K")).
		Output(filepath.Join(job.Dir, name+".%(ext)s")).
		Print("after_move:filepath").
		NoSimulate().
		NoPlaylist().
		NoWarnings().
		IgnoreConfig()

	if f.SocketTimeout > 0 {
		cmd = cmd.SocketTimeout(f.SocketTimeout.Seconds())
	}
	if f.FFmpegPath != "" {
		cmd = cmd.FFmpegLocation(f.FFmpegPath)
	}

	res, err := cmd.Run(ctx, job.Locator)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if res != nil && strings.TrimSpace(res.Stderr) != "" {
			return "", fmt.Errorf("yt-dlp %s: %w: %s", job.Locator, err, lastLine(res.Stderr))
		}
		return "", fmt.Errorf("yt-dlp %s: %w", job.Locator, err)
	}

	for _, line := range strings.Split(strings.TrimSpace(res.Stdout), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, err := os.Stat(line); err == nil {
			return line, nil
		}
	}

	// Older yt-dlp builds print nothing for after_move; look for the file.
	matches, _ := filepath.Glob(filepath.Join(job.Dir, name+".*"))
	for _, m := range matches {
		if !strings.HasSuffix(m, ".part") {
			return m, nil
		}
	}
	return "", fmt.Errorf("yt-dlp %s: no output file produced", job.Locator)
}

func fileStem(job Job) string {
	id := job.Candidate.ID
	if id == "" {
		id = "clip"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, id)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
