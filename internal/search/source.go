package search

import (
	"context"
	"errors"

	"github.com/handiism/yt-mashup/internal/model"
)

// ErrSourceUnavailable means the search backend cannot run at all, for
// example because its executable is missing. It is not a per-query
// failure and aborts the whole search.
var ErrSourceUnavailable = errors.New("search source unavailable")

// Source runs a single query against a video site.
type Source interface {
	// Search returns up to limit candidates for query, best match first.
	Search(ctx context.Context, query string, limit int) ([]model.VideoCandidate, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, query string, limit int) ([]model.VideoCandidate, error)

// Search calls f.
func (f SourceFunc) Search(ctx context.Context, query string, limit int) ([]model.VideoCandidate, error) {
	return f(ctx, query, limit)
}
