package resolve

import (
	"fmt"
	"iter"
	"slices"

	"homecmd/internal/domain"
)

// Outcome is the result for one sub-command.
type Outcome struct {
	// Source is the sub-command text, or the intent name for tagged input.
	Source  string
	Command domain.Command
	Err     error
}

// Resolver binds the resolution functions to one vocabulary.
type Resolver struct {
	vocab *domain.Vocabulary
}

func New(vocab *domain.Vocabulary) *Resolver {
	return &Resolver{vocab: vocab}
}

// Resolve yields one outcome per sub-command, left to right. Tagged input
// always yields exactly one.
func (r *Resolver) Resolve(in domain.Input) iter.Seq[Outcome] {
	return func(yield func(Outcome) bool) {
		switch in := in.(type) {
		case domain.FreeText:
			for sub := range Split(string(in)) {
				cmd, err := Text(r.vocab, sub)
				if !yield(Outcome{Source: sub, Command: cmd, Err: err}) {
					return
				}
			}
		case domain.TaggedIntent:
			cmd, err := Tree(r.vocab, in.Tree)
			yield(Outcome{Source: string(in.Tree.Intent), Command: cmd, Err: err})
		default:
			yield(Outcome{Err: fmt.Errorf("%w: %T", ErrUnsupportedInput, in)})
		}
	}
}

// Relevant reports whether the input is worth handing to Resolve: free text
// must contain an item or action keyword, tagged input a known intent.
// Location words alone do not count, so "kitchen on" is not relevant.
func (r *Resolver) Relevant(in domain.Input) bool {
	switch in := in.(type) {
	case domain.FreeText:
		for _, word := range domain.Tokenize(string(in)) {
			if r.isKeyword(word) {
				return true
			}
		}
		return false
	case domain.TaggedIntent:
		return slices.Contains(domain.Intents, in.Tree.Intent)
	default:
		return false
	}
}

func (r *Resolver) isKeyword(word string) bool {
	for item := range r.vocab.Items() {
		if item.Keyword == word {
			return true
		}
	}
	for action := range r.vocab.Actions() {
		if action.Keyword == word {
			return true
		}
	}
	return false
}
