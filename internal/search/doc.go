// Package search finds video candidates for a search term.
//
// A Source answers a single query; YTDLPSource is the production one.
// VariantSearcher tries several rewrites of the term against a Source and
// merges the results with Dedupe, so a video found by two variants is
// only returned once.
package search
