package config

import (
	"strings"
	"time"

	"github.com/handiism/yt-mashup/internal/download"
)

// Profile names.
const (
	ProfileConservative = "conservative"
	ProfileAggressive   = "aggressive"
)

// Profile bundles the settings that control how hard the pipeline pushes
// against the upstream video site.
type Profile struct {
	// Name is the profile identifier.
	Name string

	// QueryVariants are templates expanded against the search term, tried
	// in order. "{term}" is replaced by the term.
	QueryVariants []string

	// Format is the yt-dlp format selector.
	Format string

	// AudioQuality is the yt-dlp audio quality for the extracted MP3.
	AudioQuality string

	// PreferLowBitrate makes the native backend pick the smallest audio stream.
	PreferLowBitrate bool

	// MaxAttempts is the number of download attempts per candidate.
	MaxAttempts int

	// RetryDelay is the fixed wait between attempts.
	RetryDelay time.Duration

	// AttemptTimeout bounds a single download attempt.
	AttemptTimeout time.Duration

	// Pacing is the quiet period after each successful download.
	Pacing time.Duration

	// SocketTimeout is passed to yt-dlp.
	SocketTimeout time.Duration
}

var profiles = map[string]Profile{
	ProfileConservative: {
		Name:             ProfileConservative,
		QueryVariants:    []string{"{term} official audio", "{term}", "{term} audio"},
		Format:           "worstaudio/worst",
		AudioQuality:     "64K",
		PreferLowBitrate: true,
		MaxAttempts:      3,
		RetryDelay:       2 * time.Second,
		AttemptTimeout:   90 * time.Second,
		Pacing:           5 * time.Second,
		SocketTimeout:    15 * time.Second,
	},
	ProfileAggressive: {
		Name:           ProfileAggressive,
		QueryVariants:  []string{"{term}", "{term} audio", "{term} song", "{term} official audio", "{term} lyrics"},
		Format:         "bestaudio/best",
		AudioQuality:   "128K",
		MaxAttempts:    3,
		RetryDelay:     2 * time.Second,
		AttemptTimeout: 120 * time.Second,
		Pacing:         time.Second,
		SocketTimeout:  30 * time.Second,
	},
}

// LookupProfile returns the profile registered under name.
// Unknown or empty names resolve to the conservative profile.
func LookupProfile(name string) Profile {
	if p, ok := profiles[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p
	}
	return profiles[ProfileConservative]
}

// ProfileNames returns the registered profile names in a stable order.
func ProfileNames() []string {
	return []string{ProfileConservative, ProfileAggressive}
}

// RetryPolicy converts the profile's retry settings for the downloader.
func (p Profile) RetryPolicy() download.RetryPolicy {
	return download.RetryPolicy{
		MaxAttempts:    p.MaxAttempts,
		Delay:          p.RetryDelay,
		AttemptTimeout: p.AttemptTimeout,
	}
}
