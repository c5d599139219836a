// Package lexicon holds the term sets driving lead classification, plus the
// text normalization and substring matching they are applied with.
package lexicon

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Lexicon is the versioned matching configuration. It is loaded once at
// startup and passed explicitly to the classifier; tests override individual
// sets as needed.
type Lexicon struct {
	// Intent holds buyer-action phrases. The "$" signal is handled
	// separately by the classifier via direct containment.
	Intent []string `yaml:"intent"`
	// Asset holds nouns naming the product being bought.
	Asset []string `yaml:"asset"`
	// Genre holds style qualifiers.
	Genre []string `yaml:"genre"`
	// UseCase holds downstream-usage phrases ("for video", ...).
	UseCase []string `yaml:"use_case"`
	// Negative holds seller self-promotion markers. Any match rejects the
	// text outright, before either acceptance rule runs.
	Negative []string `yaml:"negative"`
	// SyncSignals is the alternate sync/licensing signal used by the social
	// rule alongside UseCase.
	SyncSignals []string `yaml:"sync_signals"`
	// FeedIntent holds the intent phrases accepted for syndication entries.
	FeedIntent []string `yaml:"feed_intent"`
	// FeedStyle holds extra style tokens accepted for syndication entries
	// in addition to Genre.
	FeedStyle []string `yaml:"feed_style"`
}

// Default returns the built-in lexicon.
func Default() Lexicon {
	return Lexicon{
		Intent: []string{
			"buy", "buying", "purchase", "pay", "paying", "budget", "usd",
			"need", "looking for", "seeking", "request", "requests", "commission",
			"hire", "hiring", "brief", "placement", "sync", "licensing", "supervisor",
			"exclusive rights", "non-exclusive", "nonexclusive", "custom",
		},
		Asset: []string{
			"beat", "beats", "instrumental", "instrumentals", "track", "tracks",
			"music", "cue", "cues", "score", "soundtrack",
		},
		Genre: []string{
			"trap", "hip hop", "hip-hop", "rap", "drill", "boom bap",
			"cinematic", "orchestral", "dark", "epic", "cinematic hip hop",
			"orchestral hip hop",
		},
		UseCase: []string{
			"for video", "for film", "for movie", "for short film", "for youtube",
			"for tiktok", "for ad", "for trailer", "for commercial", "for podcast",
			"for game", "for tv", "for tv show",
		},
		Negative: []string{
			"check my beat", "my new beat", "free beats", "i sell beats", "selling beats",
			"beat store", "beatstars.com", "airbit.com", "type beat pack", "beat pack",
			"prod by", "producer tag", "stream my beat",
		},
		SyncSignals: []string{"sync", "licensing", "placement", "brief"},
		FeedIntent: []string{
			"sync", "licensing", "placement", "brief", "supervisor",
			"call for submissions", "music wanted",
		},
		FeedStyle: []string{"hiphop", "urban"},
	}
}

// Load reads a lexicon override from a YAML file and merges it over the
// defaults: a set present in the file replaces the default set wholesale, a
// set absent from the file keeps the default. Terms are normalized so a
// hand-written file with stray casing still matches.
func Load(path string) (Lexicon, error) {
	lex := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return lex, eris.Wrapf(err, "lexicon: read %s", path)
	}

	var override Lexicon
	if err := yaml.Unmarshal(data, &override); err != nil {
		return lex, eris.Wrap(err, "lexicon: parse override")
	}

	merge := func(dst *[]string, src []string) {
		if len(src) == 0 {
			return
		}
		out := make([]string, 0, len(src))
		for _, t := range src {
			if n := Normalize(t); n != "" {
				out = append(out, n)
			}
		}
		*dst = out
	}

	merge(&lex.Intent, override.Intent)
	merge(&lex.Asset, override.Asset)
	merge(&lex.Genre, override.Genre)
	merge(&lex.UseCase, override.UseCase)
	merge(&lex.Negative, override.Negative)
	merge(&lex.SyncSignals, override.SyncSignals)
	merge(&lex.FeedIntent, override.FeedIntent)
	merge(&lex.FeedStyle, override.FeedStyle)

	return lex, nil
}
