// Package http provides the shared HTTP client used for media streams
// and cover art.
//
// The Client in this package handles:
//   - a configurable User-Agent header
//   - an overall request timeout
//   - streaming response bodies to disk with progress tracking
//
// # Basic Usage
//
//	client := http.NewClient(http.WithTimeout(30*time.Second))
//
//	// Fetch a cover image
//	art, err := client.DownloadBytes(ctx, "https://example.com/cover.jpg")
//
//	// Hand the underlying client to a library
//	yt := &youtube.Client{HTTPClient: client.HTTP()}
//
// # Progress Tracking
//
// ProgressWriter wraps any io.Writer and reports bytes written:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    size,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
