// Package config provides configuration management for yt-mashup.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Named acquisition profiles (conservative, aggressive)
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// 10 candidates, 30 second clips, conservative profile
//	// Output written to the current directory as mashup.mp3
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Profiles
//
// A Profile bundles everything that makes acquisition more or less
// aggressive: how many query variants are tried, which yt-dlp format is
// requested, retry counts and the pacing delay between downloads.
//
//	profile := settings.Profile()
//	policy := profile.RetryPolicy()
package config
