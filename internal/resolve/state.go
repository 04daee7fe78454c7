package resolve

import "homecmd/internal/domain"

// State returns the first word of text matching p. It reports false for
// PatternNone or when nothing matches; the caller picks the default.
func State(p domain.StatePattern, text string) (string, bool) {
	if p == domain.PatternNone {
		return "", false
	}
	for _, word := range domain.Tokenize(text) {
		if p.Matches(word) {
			return word, true
		}
	}
	return "", false
}
