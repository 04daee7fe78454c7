package domain

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Location names a room. It is the second segment of every topic.
type Location string

const (
	// LocationBedroom is shared by two occupants and cannot be resolved from
	// text alone.
	LocationBedroom Location = "bedroom"
	// LocationUnknown replaces LocationBedroom for tagged input.
	LocationUnknown Location = "unknown"
)

// DefaultState is published when nothing in the sub-command names a state.
const DefaultState = "ON"

// ItemDefinition describes a device category keyword.
type ItemDefinition struct {
	Keyword string
	// Suffix is appended to the location to form the topic. It carries one
	// leading separator, e.g. "/lights".
	Suffix string
	// ActionRequired marks items that cannot be addressed without an action
	// keyword in the same sub-command.
	ActionRequired bool
	Pattern        StatePattern
}

// ActionDefinition describes a verb-like keyword that overrides an item.
type ActionDefinition struct {
	Keyword string
	Suffix  string
	// Pattern overrides the item's pattern unless it is PatternNone.
	Pattern StatePattern
	// FixedState, when set, is published regardless of the sub-command text.
	FixedState string
}

// Vocabulary holds the read-only lookup tables. Build it once with
// NewVocabulary or DefaultVocabulary and share it between requests.
type Vocabulary struct {
	locations []Location
	items     []ItemDefinition
	actions   []ActionDefinition
}

func NewVocabulary(locations []Location, items []ItemDefinition, actions []ActionDefinition) (*Vocabulary, error) {
	if len(locations) == 0 {
		return nil, errors.New("vocabulary needs at least one location")
	}

	v := &Vocabulary{
		locations: make([]Location, 0, len(locations)),
		items:     make([]ItemDefinition, 0, len(items)),
		actions:   make([]ActionDefinition, 0, len(actions)),
	}

	seen := make(map[string]bool)
	for _, l := range locations {
		l = Location(strings.ToLower(strings.TrimSpace(string(l))))
		if l == "" {
			return nil, errors.New("empty location")
		}
		if slices.Contains(v.locations, l) {
			return nil, fmt.Errorf("duplicate location %q", l)
		}
		v.locations = append(v.locations, l)
	}

	for _, it := range items {
		it.Keyword = strings.ToLower(strings.TrimSpace(it.Keyword))
		if err := checkKeyword(seen, it.Keyword, it.Suffix, it.Pattern); err != nil {
			return nil, fmt.Errorf("item %q: %w", it.Keyword, err)
		}
		v.items = append(v.items, it)
	}

	for _, a := range actions {
		a.Keyword = strings.ToLower(strings.TrimSpace(a.Keyword))
		if err := checkKeyword(seen, a.Keyword, a.Suffix, a.Pattern); err != nil {
			return nil, fmt.Errorf("action %q: %w", a.Keyword, err)
		}
		v.actions = append(v.actions, a)
	}

	return v, nil
}

func checkKeyword(seen map[string]bool, keyword, suffix string, p StatePattern) error {
	switch {
	case keyword == "":
		return errors.New("empty keyword")
	case strings.ContainsFunc(keyword, isSeparator):
		return errors.New("keyword must be a single word")
	case seen[keyword]:
		return errors.New("duplicate keyword")
	case !strings.HasPrefix(suffix, "/") || len(suffix) < 2:
		return fmt.Errorf("suffix %q must start with a single '/'", suffix)
	case strings.HasPrefix(suffix, "//"):
		return fmt.Errorf("suffix %q must start with a single '/'", suffix)
	case !p.valid():
		return fmt.Errorf("invalid pattern %d", p)
	}
	seen[keyword] = true
	return nil
}

// DefaultLocation is the first declared location.
func (v *Vocabulary) DefaultLocation() Location {
	return v.locations[0]
}

// Locations yields locations in declaration order.
func (v *Vocabulary) Locations() iter.Seq[Location] {
	return slices.Values(v.locations)
}

// Items yields item definitions in table order.
func (v *Vocabulary) Items() iter.Seq[ItemDefinition] {
	return slices.Values(v.items)
}

// Actions yields action definitions in table order.
func (v *Vocabulary) Actions() iter.Seq[ActionDefinition] {
	return slices.Values(v.actions)
}
