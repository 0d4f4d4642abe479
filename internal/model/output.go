package model

import (
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultOutputName is used when the caller supplies no output name.
const DefaultOutputName = "mashup.mp3"

var (
	invalidChars    = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots    = regexp.MustCompile(`\.+$`)
	multiWhitespace = regexp.MustCompile(`\s+`)
)

// CoerceOutputName returns a safe output file name ending in ".mp3".
//
// Directory components are discarded, invalid characters are replaced with
// underscores and the extension is appended when missing (compared
// case-insensitively). An empty result falls back to DefaultOutputName.
func CoerceOutputName(name string) string {
	name = strings.TrimSpace(name)
	name = filepath.Base(filepath.ToSlash(name))
	if name == "." || name == "/" {
		name = ""
	}
	name = sanitizeFileName(name)

	ext := FormatMP3.Extension()
	if strings.EqualFold(strings.TrimSuffix(name, filepath.Ext(name))+ext, name) {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ext
	}
	if !strings.HasSuffix(name, ext) {
		name += ext
	}
	if name == ext {
		return DefaultOutputName
	}
	return name
}

// sanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
//
// Example:
//
//	sanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
func sanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = multiWhitespace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}
