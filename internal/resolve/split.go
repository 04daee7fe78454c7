package resolve

import (
	"iter"
	"strings"
)

const conjunction = " and "

// Split lower-cases text and lazily yields the sub-commands separated by
// " and ". Empty pieces are yielded as-is; they fail to resolve later.
func Split(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := strings.ToLower(text)
		for {
			i := strings.Index(rest, conjunction)
			if i < 0 {
				yield(rest)
				return
			}
			if !yield(rest[:i]) {
				return
			}
			rest = rest[i+len(conjunction):]
		}
	}
}
