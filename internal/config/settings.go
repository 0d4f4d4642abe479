package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Bounds enforced on pipeline requests.
const (
	MaxCandidateCount = 50
	MaxClipSeconds    = 120
)

// Fetch backends.
const (
	BackendYTDLP  = "ytdlp"
	BackendNative = "native"
)

// Settings holds all configuration options.
type Settings struct {
	// Acquisition settings
	ProfileName    string `json:"profile" yaml:"profile"`
	CandidateCount int    `json:"candidate_count" yaml:"candidate_count"`
	ClipSeconds    int    `json:"clip_seconds" yaml:"clip_seconds"`
	FetchBackend   string `json:"fetch_backend" yaml:"fetch_backend"` // ytdlp, native

	// Output settings
	OutputDir         string `json:"output_dir" yaml:"output_dir"`
	OutputName        string `json:"output_name" yaml:"output_name"`
	OutputBitrateKbps int    `json:"output_bitrate_kbps" yaml:"output_bitrate_kbps"`

	// Tag settings
	TagOutput       bool   `json:"tag_output" yaml:"tag_output"`
	CoverArtPath    string `json:"cover_art_path" yaml:"cover_art_path"`
	CoverArtMaxSize int    `json:"cover_art_max_size" yaml:"cover_art_max_size"`

	// Tracklist settings
	WriteTracklist  bool   `json:"write_tracklist" yaml:"write_tracklist"`
	TracklistFormat string `json:"tracklist_format" yaml:"tracklist_format"` // cue, m3u

	// Tool paths
	YTDLPPath  string `json:"ytdlp_path" yaml:"ytdlp_path"`
	FFmpegPath string `json:"ffmpeg_path" yaml:"ffmpeg_path"`

	// HTTP settings (native backend)
	HTTPTimeoutSeconds int    `json:"http_timeout_seconds" yaml:"http_timeout_seconds"`
	UserAgent          string `json:"user_agent" yaml:"user_agent"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		ProfileName:    ProfileConservative,
		CandidateCount: 10,
		ClipSeconds:    30,
		FetchBackend:   BackendYTDLP,

		OutputDir:         ".",
		OutputName:        "mashup.mp3",
		OutputBitrateKbps: 192,

		TagOutput:       true,
		CoverArtMaxSize: 1000,

		WriteTracklist:  false,
		TracklistFormat: "cue",

		YTDLPPath:  "yt-dlp",
		FFmpegPath: "ffmpeg",

		HTTPTimeoutSeconds: 60,
		UserAgent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	}
}

// Load reads settings from a JSON or YAML file.
//
// Files ending in .yaml or .yml are decoded as YAML, everything else as
// JSON. Fields absent from the file keep their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Profile resolves the configured profile name.
func (s *Settings) Profile() Profile {
	return LookupProfile(s.ProfileName)
}

// ClipDuration returns ClipSeconds as a time.Duration.
func (s *Settings) ClipDuration() time.Duration {
	return time.Duration(s.ClipSeconds) * time.Second
}

// HTTPTimeout returns HTTPTimeoutSeconds as a time.Duration.
func (s *Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
