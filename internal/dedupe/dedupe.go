// Package dedupe filters candidate leads against the set of URLs already in
// the ledger, and against each other within a run.
package dedupe

import (
	"go.uber.org/zap"

	"github.com/beatfindr/leadscout/internal/model"
)

// SeenSet tracks the lead URLs already accepted, both the ones read from the
// ledger at run start and the ones admitted during the current run. It is
// never persisted: it's derivable by re-reading the ledger.
type SeenSet map[string]struct{}

// NewSeenSet builds a SeenSet from the ledger's existing URLs.
func NewSeenSet(urls []string) SeenSet {
	s := make(SeenSet, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		s[u] = struct{}{}
	}
	return s
}

// Has reports whether the URL has been seen.
func (s SeenSet) Has(url string) bool {
	_, ok := s[url]
	return ok
}

// Add marks a URL as seen.
func (s SeenSet) Add(url string) {
	s[url] = struct{}{}
}

// Filter returns the ordered subsequence of candidates whose URL is not in
// the seen set, adding each accepted URL immediately so later duplicates in
// the same batch (including cross-source ones) are dropped too. Single pass,
// order-preserving.
func Filter(seen SeenSet, candidates []model.Lead) []model.Lead {
	var fresh []model.Lead
	for _, lead := range candidates {
		if seen.Has(lead.URL) {
			continue
		}
		seen.Add(lead.URL)
		fresh = append(fresh, lead)
	}

	if dropped := len(candidates) - len(fresh); dropped > 0 {
		zap.L().Debug("dedupe: dropped already-seen leads",
			zap.Int("candidates", len(candidates)),
			zap.Int("fresh", len(fresh)),
			zap.Int("dropped", dropped),
		)
	}

	return fresh
}
