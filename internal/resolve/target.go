package resolve

import (
	"fmt"

	"homecmd/internal/domain"
)

// target is what the item/action stage decided for one sub-command.
type target struct {
	suffix     string
	pattern    domain.StatePattern
	fixedState string
}

// resolveTarget runs the two-stage lookup. The item table is consulted first;
// the action table only when no item matched or the matched item requires an
// action, in which case the action's suffix and pattern replace the item's.
func resolveTarget(v *domain.Vocabulary, words map[string]bool) (target, error) {
	item, itemFound := lookupItem(v, words)
	if itemFound && !item.ActionRequired {
		return target{suffix: item.Suffix, pattern: item.Pattern}, nil
	}

	action, actionFound := lookupAction(v, words)
	switch {
	case actionFound:
		t := target{suffix: action.Suffix, pattern: action.Pattern, fixedState: action.FixedState}
		if t.pattern == domain.PatternNone && itemFound {
			t.pattern = item.Pattern
		}
		return t, nil
	case itemFound:
		return target{}, fmt.Errorf("%w: %q", ErrActionRequired, item.Keyword)
	default:
		return target{}, ErrNoTarget
	}
}

func lookupItem(v *domain.Vocabulary, words map[string]bool) (domain.ItemDefinition, bool) {
	for item := range v.Items() {
		if words[item.Keyword] {
			return item, true
		}
	}
	return domain.ItemDefinition{}, false
}

func lookupAction(v *domain.Vocabulary, words map[string]bool) (domain.ActionDefinition, bool) {
	for action := range v.Actions() {
		if words[action.Keyword] {
			return action, true
		}
	}
	return domain.ActionDefinition{}, false
}

// Text resolves one free-text sub-command.
func Text(v *domain.Vocabulary, text string) (domain.Command, error) {
	tokens := domain.Tokenize(text)
	words := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		words[t] = true
	}

	t, err := resolveTarget(v, words)
	if err != nil {
		return domain.Command{}, err
	}

	state := domain.DefaultState
	if t.fixedState != "" {
		state = t.fixedState
	} else if s, ok := State(t.pattern, text); ok {
		state = s
	}

	return domain.Command{
		Location: Location(v, text),
		Suffix:   t.suffix,
		State:    state,
	}, nil
}
