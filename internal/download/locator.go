package download

import (
	"net/url"
	"strings"

	"github.com/handiism/yt-mashup/internal/model"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// ResolveLocator picks the address a Fetcher should be given for c.
//
// The direct URL wins, then the webpage URL, then a watch URL built from
// the ID. It reports false when none of these is usable.
func ResolveLocator(c model.VideoCandidate) (string, bool) {
	for _, candidate := range []string{c.URL, c.WebpageURL} {
		candidate = strings.TrimSpace(candidate)
		if isFetchableURL(candidate) {
			return candidate, true
		}
	}

	id := strings.TrimSpace(c.ID)
	if id == "" || strings.ContainsAny(id, " /?&#") {
		return "", false
	}
	return watchURLPrefix + url.QueryEscape(id), true
}

func isFetchableURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
