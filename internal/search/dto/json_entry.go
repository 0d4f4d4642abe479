package dto

import (
	"bufio"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/handiism/yt-mashup/internal/model"
)

// PrintTemplate makes yt-dlp print one JSONEntry per line.
const PrintTemplate = "%(.{id,url,webpage_url,title,duration,channel})j"

// JSONEntry represents one search result printed by yt-dlp.
type JSONEntry struct {
	ID         string   `json:"id"`
	URL        string   `json:"url"`
	WebpageURL string   `json:"webpage_url"`
	Title      string   `json:"title"`
	Duration   *float64 `json:"duration"`
	Channel    string   `json:"channel"`
}

// ToCandidate converts JSONEntry to a model.VideoCandidate.
func (e *JSONEntry) ToCandidate() model.VideoCandidate {
	c := model.VideoCandidate{
		ID:         strings.TrimSpace(e.ID),
		URL:        strings.TrimSpace(e.URL),
		WebpageURL: strings.TrimSpace(e.WebpageURL),
		Title:      strings.TrimSpace(e.Title),
		Raw:        map[string]string{},
	}
	if e.Duration != nil && *e.Duration > 0 {
		c.Duration = time.Duration(*e.Duration * float64(time.Second))
	}

	for k, v := range map[string]string{
		"id":          c.ID,
		"url":         c.URL,
		"webpage_url": c.WebpageURL,
		"title":       c.Title,
		"channel":     e.Channel,
	} {
		if v != "" {
			c.Raw[k] = v
		}
	}
	if e.Duration != nil {
		c.Raw["duration"] = strconv.FormatFloat(*e.Duration, 'f', -1, 64)
	}
	return c
}

// ParseEntries decodes yt-dlp output produced with PrintTemplate.
//
// Blank lines, lines that are not JSON objects, and entries without an
// ID are skipped; the second return value counts skipped non-blank lines.
func ParseEntries(output string) ([]JSONEntry, int) {
	var (
		entries []JSONEntry
		skipped int
	)

	sc := bufio.NewScanner(strings.NewReader(output))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e JSONEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil || strings.TrimSpace(e.ID) == "" {
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, skipped
}
