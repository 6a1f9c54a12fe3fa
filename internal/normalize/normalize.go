// Package normalize canonicalizes token names and keywords into comparable
// word sequences. The same function is applied to stored keywords at
// add-time and to incoming token names at match-time, so both sides always
// compare the same canonical form.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics decomposes text and strips combining marks,
// so "café" and "cafe" normalize identically.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Words splits text into an ordered sequence of lowercase word tokens.
// Punctuation, underscores and dashes collapse into single separators,
// diacritics are folded, and surrounding whitespace is trimmed.
func Words(text string) []string {
	if text == "" {
		return nil
	}

	folded, _, err := transform.String(foldDiacritics, text)
	if err != nil {
		// Malformed UTF-8; fall back to the raw input rather than drop it.
		folded = text
	}

	lower := strings.ToLower(folded)

	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(words) == 0 {
		return nil
	}
	return words
}

// Join returns the canonical single-string form of text: its word tokens
// joined by single spaces. Join is idempotent: Join(Join(x)) == Join(x).
func Join(text string) string {
	return strings.Join(Words(text), " ")
}

// WordSet builds a set from the word tokens of text.
func WordSet(text string) map[string]struct{} {
	words := Words(text)
	if len(words) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
