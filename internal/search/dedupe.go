package search

import "github.com/handiism/yt-mashup/internal/model"

// Dedupe returns the candidates of in whose ID is not yet in seen, in
// their original order, and adds those IDs to seen. Repeats within in
// are dropped as well. Candidates with an empty ID are dropped since they
// cannot be told apart. seen must not be nil.
func Dedupe(seen map[string]struct{}, in []model.VideoCandidate) []model.VideoCandidate {
	out := make([]model.VideoCandidate, 0, len(in))
	for _, c := range in {
		if c.ID == "" {
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
