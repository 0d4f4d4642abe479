package model

import (
	"strings"
	"time"
)

// VideoCandidate represents a media item returned by a search backend.
//
// Two candidates are duplicates if and only if their IDs match. The
// locator fields are tried in order by the downloader:
//   - URL is a direct media URL, when the backend provides one
//   - WebpageURL is the watch page of the video
//
// When neither is present the downloader builds a canonical watch URL
// from the ID.
type VideoCandidate struct {
	// ID is the stable, source-assigned identifier.
	ID string

	// URL is the direct locator reported by the backend. May be empty.
	URL string

	// WebpageURL is the human-facing page for the video. May be empty.
	WebpageURL string

	// Title is the video title, used for tracklists and progress messages.
	Title string

	// Duration is the reported media length. Zero when unknown.
	Duration time.Duration

	// Raw holds every field the backend printed, keyed by field name.
	Raw map[string]string
}

// Label returns a human readable name for the candidate.
func (c VideoCandidate) Label() string {
	if c.Title != "" {
		return c.Title
	}
	return c.ID
}

// SearchQuery is a base term plus the ordered list of query variants
// derived from it.
type SearchQuery struct {
	Term     string
	Variants []string
}

// NewSearchQuery expands templates into query variants.
//
// Each template may contain the {term} placeholder. A template without the
// placeholder is treated as a suffix, so "audio" becomes "<term> audio".
// Blank results and repeated variants are dropped; order is preserved.
// With no templates the term itself is the only variant.
func NewSearchQuery(term string, templates []string) SearchQuery {
	term = strings.TrimSpace(term)
	q := SearchQuery{Term: term}

	seen := make(map[string]struct{}, len(templates))
	add := func(v string) {
		v = strings.Join(strings.Fields(v), " ")
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		q.Variants = append(q.Variants, v)
	}

	for _, tmpl := range templates {
		if strings.Contains(tmpl, "{term}") {
			add(strings.ReplaceAll(tmpl, "{term}", term))
		} else {
			add(term + " " + tmpl)
		}
	}
	if len(q.Variants) == 0 {
		add(term)
	}
	return q
}
