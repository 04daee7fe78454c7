package domain

import (
	"strings"
	"unicode"
)

// Tokenize lower-cases text and splits it into words. Anything that is not a
// letter or a digit separates words, so "bedroom-mark" yields two tokens.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), isSeparator)
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
