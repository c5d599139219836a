package lexicon

import "strings"

// Normalize lowercases text, collapses every whitespace run (including
// newlines) to a single space, and trims the ends. Idempotent; empty input
// normalizes to "".
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
