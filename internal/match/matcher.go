// Package match implements bidirectional word-overlap matching between
// token names and tenant keywords.
package match

import (
	"solana-keyword-sniper/internal/normalize"
)

// DefaultThreshold is the overlap ratio at or above which a match succeeds.
const DefaultThreshold = 0.75

// Matcher evaluates keyword matches against token names. It is stateless
// and safe for unbounded concurrent use.
type Matcher struct {
	threshold float64
}

// New creates a Matcher with the given overlap threshold.
// Non-positive thresholds fall back to DefaultThreshold.
func New(threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold}
}

// Threshold returns the configured overlap threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Matches reports whether tokenName and keyword overlap enough to count as
// a match. Both sides are normalized identically, then two ratios are
// computed from the word-set intersection: coverage of the keyword and
// coverage of the token name. Either ratio reaching the threshold is a
// match, so a short keyword fully contained in a longer token name matches
// and vice versa. Empty word sets never match.
func (m *Matcher) Matches(tokenName, keyword string) bool {
	tokenWords := normalize.WordSet(tokenName)
	keywordWords := normalize.WordSet(keyword)
	return m.MatchesWordSets(tokenWords, keywordWords)
}

// MatchesWordSets is the set-level form of Matches for callers that have
// already normalized both sides.
func (m *Matcher) MatchesWordSets(tokenWords, keywordWords map[string]struct{}) bool {
	if len(tokenWords) == 0 || len(keywordWords) == 0 {
		return false
	}

	intersection := 0
	for w := range keywordWords {
		if _, ok := tokenWords[w]; ok {
			intersection++
		}
	}
	if intersection == 0 {
		return false
	}

	ratioKeyword := float64(intersection) / float64(len(keywordWords))
	ratioToken := float64(intersection) / float64(len(tokenWords))

	return ratioKeyword >= m.threshold || ratioToken >= m.threshold
}
