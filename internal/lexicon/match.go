package lexicon

import "strings"

// ContainsAny reports whether any term occurs as a literal substring of the
// (already normalized) text. Matching is deliberately substring-based rather
// than token-based: "trap" inside "trapped" matches. The recall/precision
// trade-off of the term sets is tuned around that, so don't switch to
// word-boundary matching.
func ContainsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
