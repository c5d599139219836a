// Package classify decides whether a post or feed title is a genuine
// buyer/sync lead. All matching is literal substring containment over
// normalized text; the term sets come from an explicit lexicon value so
// tests can swap them out.
package classify

import (
	"strings"

	"github.com/beatfindr/leadscout/internal/lexicon"
)

// Classifier applies the lexicon's combination rules to normalized titles.
type Classifier struct {
	lex lexicon.Lexicon
}

// New creates a Classifier over the given lexicon.
func New(lex lexicon.Lexicon) *Classifier {
	return &Classifier{lex: lex}
}

// IsNoise reports whether the text matches a seller self-promotion marker.
// Noise rejection takes precedence over both acceptance rules: a title that
// matches a negative term is never accepted, whatever else it matches.
func (c *Classifier) IsNoise(text string) bool {
	return lexicon.ContainsAny(text, c.lex.Negative)
}

// LooksLikeBuyer is the social-post rule: the title must name an asset, show
// buying intent (an intent phrase or a literal "$"), and show either a genre
// fit or a sync/use-case signal. Asset+intent alone is too noisy: it catches
// sellers describing their own product.
func (c *Classifier) LooksLikeBuyer(text string) bool {
	if c.IsNoise(text) {
		return false
	}
	intent := lexicon.ContainsAny(text, c.lex.Intent) || strings.Contains(text, "$")
	asset := lexicon.ContainsAny(text, c.lex.Asset)
	style := lexicon.ContainsAny(text, c.lex.Genre)
	syncy := lexicon.ContainsAny(text, c.lex.UseCase) || lexicon.ContainsAny(text, c.lex.SyncSignals)
	return asset && intent && (style || syncy)
}

// LooksLikeSyncLead is the syndication-entry rule: feed titles are already
// pre-filtered by the search query behind the feed, so an intent phrase plus
// a genre/style token is enough and no asset mention is required.
func (c *Classifier) LooksLikeSyncLead(text string) bool {
	if c.IsNoise(text) {
		return false
	}
	intentish := lexicon.ContainsAny(text, c.lex.FeedIntent)
	styleish := lexicon.ContainsAny(text, c.lex.Genre) || lexicon.ContainsAny(text, c.lex.FeedStyle)
	return intentish && styleish
}
