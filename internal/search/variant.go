package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/handiism/yt-mashup/internal/model"
)

// VariantSearcher expands a term into query variants and queries a Source
// with each until enough unique candidates are found.
type VariantSearcher struct {
	src       Source
	templates []string
	log       zerolog.Logger
}

// NewVariantSearcher creates a VariantSearcher. templates follow
// model.NewSearchQuery; with none, the bare term is the only query.
func NewVariantSearcher(src Source, templates []string, logger zerolog.Logger) *VariantSearcher {
	return &VariantSearcher{src: src, templates: templates, log: logger}
}

// Search returns up to desired unique candidates for term in discovery
// order.
//
// A failing or empty variant is logged and skipped. The result is empty,
// with a nil error, when every variant fails. Only ErrSourceUnavailable,
// context cancellation, and invalid arguments are returned as errors.
func (s *VariantSearcher) Search(ctx context.Context, term string, desired int) ([]model.VideoCandidate, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("%w: search term is empty", model.ErrInvalidArgument)
	}
	if desired <= 0 {
		return nil, fmt.Errorf("%w: desired count must be positive, got %d", model.ErrInvalidArgument, desired)
	}

	query := model.NewSearchQuery(term, s.templates)
	seen := make(map[string]struct{}, desired)
	found := make([]model.VideoCandidate, 0, desired)

	for i, variant := range query.Variants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results, err := s.src.Search(ctx, variant, desired)
		if err != nil {
			if errors.Is(err, ErrSourceUnavailable) {
				return nil, err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.log.Warn().Err(err).Str("variant", variant).Int("index", i).Msg("search variant failed")
			continue
		}

		fresh := Dedupe(seen, results)
		s.log.Debug().
			Str("variant", variant).
			Int("results", len(results)).
			Int("new", len(fresh)).
			Msg("search variant done")

		found = append(found, fresh...)
		if len(found) >= desired {
			return found[:desired], nil
		}
	}

	if len(found) == 0 {
		s.log.Warn().Str("term", query.Term).Msg("no candidates found for any variant")
	}
	return found, nil
}
