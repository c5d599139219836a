package scan

import (
	"time"

	"github.com/beatfindr/leadscout/internal/lexicon"
	"github.com/beatfindr/leadscout/internal/model"
	"github.com/beatfindr/leadscout/pkg/feeds"
	"github.com/beatfindr/leadscout/pkg/reddit"
)

const (
	sourceReddit = "Reddit"
	sourceSync   = "Sync RSS"
)

// buildPostLead maps one raw search result into a Lead. Returns false when
// the record is dropped: empty title, noise, rule failure, or no
// constructible URL. A post surfaced by several seed queries yields one
// candidate per query; the deduplicator resolves those, not the builder.
func (s *Scanner) buildPostLead(post reddit.Post, query string) (model.Lead, bool) {
	if post.Title == "" {
		return model.Lead{}, false
	}

	norm := lexicon.Normalize(post.Title)
	if s.classifier.IsNoise(norm) || !s.classifier.LooksLikeBuyer(norm) {
		return model.Lead{}, false
	}

	author := post.Author
	if author == "" {
		author = "unknown"
	}

	// Permalink is the canonical post location; the outbound URL is only a
	// fallback.
	url := post.URL
	if post.Permalink != "" {
		url = s.permalinkBase + post.Permalink
	}
	if url == "" {
		return model.Lead{}, false
	}

	return model.Lead{
		Timestamp: s.now().UTC().Truncate(time.Second),
		Source:    sourceReddit,
		Author:    "u/" + author,
		Title:     post.Title,
		URL:       url,
		Tags:      []string{"reddit", query},
	}, true
}

// buildFeedLead maps one syndication entry into a Lead. Entries without a
// link are dropped; the feed's declared title doubles as source and author.
func (s *Scanner) buildFeedLead(feedTitle string, entry feeds.Entry) (model.Lead, bool) {
	if entry.Link == "" {
		return model.Lead{}, false
	}

	norm := lexicon.Normalize(entry.Title)
	if s.classifier.IsNoise(norm) || !s.classifier.LooksLikeSyncLead(norm) {
		return model.Lead{}, false
	}

	source := feedTitle
	if source == "" {
		source = sourceSync
	}

	return model.Lead{
		Timestamp: s.now().UTC().Truncate(time.Second),
		Source:    source,
		Author:    source,
		Title:     entry.Title,
		URL:       entry.Link,
		Tags:      []string{"sync", "rss"},
	}, true
}
