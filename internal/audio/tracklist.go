package audio

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/handiism/yt-mashup/internal/model"
)

// TracklistFormat represents supported tracklist sidecar formats.
type TracklistFormat int

const (
	// FormatCUE creates .cue sheets with one TRACK per clip.
	FormatCUE TracklistFormat = iota

	// FormatM3U creates extended .m3u files that seek into the mashup
	// using VLC start/stop options.
	FormatM3U
)

// ParseTracklistFormat maps a settings value to a TracklistFormat.
// Unknown values give FormatCUE.
func ParseTracklistFormat(s string) TracklistFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m3u", "m3u8":
		return FormatM3U
	default:
		return FormatCUE
	}
}

// Extension returns the file extension for the format, including the dot.
func (f TracklistFormat) Extension() string {
	if f == FormatM3U {
		return ".m3u"
	}
	return ".cue"
}

// TrackEntry is one clip's position inside the mashup.
type TrackEntry struct {
	Title    string
	Start    time.Duration
	Duration time.Duration
}

// EntriesFromClips lays clips end to end starting at zero.
func EntriesFromClips(clips []model.AudioClip) []TrackEntry {
	entries := make([]TrackEntry, len(clips))
	var offset time.Duration
	for i, c := range clips {
		title := c.Label
		if title == "" {
			title = fmt.Sprintf("Clip %d", i+1)
		}
		entries[i] = TrackEntry{Title: title, Start: offset, Duration: c.Duration()}
		offset += c.Duration()
	}
	return entries
}

// TracklistCreator generates tracklist sidecars for a mashup file.
//
// Example:
//
//	creator := NewTracklistCreator(FormatCUE)
//	content := creator.CreateTracklist("/out/mashup.mp3", "Artist X", EntriesFromClips(clips))
//	os.WriteFile("/out/mashup.cue", []byte(content), 0644)
//
//	// Result:
//	// PERFORMER "Artist X"
//	// TITLE "mashup"
//	// FILE "mashup.mp3" MP3
//	//   TRACK 01 AUDIO
//	//     TITLE "Song"
//	//     INDEX 01 00:00:00
type TracklistCreator struct {
	format TracklistFormat
}

// NewTracklistCreator creates a new TracklistCreator.
func NewTracklistCreator(format TracklistFormat) *TracklistCreator {
	return &TracklistCreator{format: format}
}

// Format returns the format the creator writes.
func (c *TracklistCreator) Format() TracklistFormat {
	return c.format
}

// CreateTracklist returns the sidecar content. The audio file is
// referenced by base name, so the sidecar belongs next to it.
func (c *TracklistCreator) CreateTracklist(audioPath, performer string, entries []TrackEntry) string {
	switch c.format {
	case FormatM3U:
		return c.createM3U(audioPath, performer, entries)
	default:
		return c.createCUE(audioPath, performer, entries)
	}
}

// createCUE generates a cue sheet. Offsets use mm:ss:ff with 75 frames
// per second.
func (c *TracklistCreator) createCUE(audioPath, performer string, entries []TrackEntry) string {
	var sb strings.Builder

	base := filepath.Base(audioPath)
	if performer != "" {
		sb.WriteString(fmt.Sprintf("PERFORMER %s\n", quoteCUE(performer)))
	}
	sb.WriteString(fmt.Sprintf("TITLE %s\n", quoteCUE(strings.TrimSuffix(base, filepath.Ext(base)))))
	sb.WriteString(fmt.Sprintf("FILE %s MP3\n", quoteCUE(base)))

	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("  TRACK %02d AUDIO\n", i+1))
		sb.WriteString(fmt.Sprintf("    TITLE %s\n", quoteCUE(e.Title)))
		if performer != "" {
			sb.WriteString(fmt.Sprintf("    PERFORMER %s\n", quoteCUE(performer)))
		}
		sb.WriteString(fmt.Sprintf("    INDEX 01 %s\n", cueTimestamp(e.Start)))
	}

	return sb.String()
}

// createM3U generates an extended M3U playlist.
//
//	#EXTM3U
//	#EXTINF:30,Artist - Song
//	#EXTVLCOPT:start-time=0
//	#EXTVLCOPT:stop-time=30
//	mashup.mp3
func (c *TracklistCreator) createM3U(audioPath, performer string, entries []TrackEntry) string {
	var sb strings.Builder

	base := filepath.Base(audioPath)
	sb.WriteString("#EXTM3U\n")

	for _, e := range entries {
		title := e.Title
		if performer != "" {
			title = performer + " - " + title
		}
		start := e.Start.Seconds()
		sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", int(e.Duration.Seconds()), title))
		sb.WriteString(fmt.Sprintf("#EXTVLCOPT:start-time=%g\n", start))
		sb.WriteString(fmt.Sprintf("#EXTVLCOPT:stop-time=%g\n", start+e.Duration.Seconds()))
		sb.WriteString(base + "\n")
	}

	return sb.String()
}

func cueTimestamp(d time.Duration) string {
	frames := int64(d) * 75 / int64(time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", frames/(75*60), (frames/75)%60, frames%75)
}

func quoteCUE(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "'") + `"`
}
