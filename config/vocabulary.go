package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"homecmd/internal/domain"
)

// VocabularyFile is the YAML layout of a vocabulary override:
//
//	locations: [bedroom-mark, bedroom, kitchen]
//	items:
//	  - {keyword: lights, suffix: /lights, pattern: binary}
//	  - {keyword: media, suffix: /media, action_required: true}
//	actions:
//	  - {keyword: volume, suffix: /media/volume, pattern: integer}
//	  - {keyword: movie, suffix: /scene, fixed_state: movie}
type VocabularyFile struct {
	Locations []string      `yaml:"locations"`
	Items     []itemEntry   `yaml:"items"`
	Actions   []actionEntry `yaml:"actions"`
}

type itemEntry struct {
	Keyword        string `yaml:"keyword"`
	Suffix         string `yaml:"suffix"`
	ActionRequired bool   `yaml:"action_required"`
	Pattern        string `yaml:"pattern"`
}

type actionEntry struct {
	Keyword    string `yaml:"keyword"`
	Suffix     string `yaml:"suffix"`
	Pattern    string `yaml:"pattern"`
	FixedState string `yaml:"fixed_state"`
}

// LoadVocabulary returns the built-in vocabulary when path is empty and
// otherwise builds one from the file.
func LoadVocabulary(path string) (*domain.Vocabulary, error) {
	if path == "" {
		return domain.DefaultVocabulary(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary file: %w", err)
	}

	var file VocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing vocabulary file: %w", err)
	}

	return file.Build()
}

func (f VocabularyFile) Build() (*domain.Vocabulary, error) {
	locations := make([]domain.Location, len(f.Locations))
	for i, l := range f.Locations {
		locations[i] = domain.Location(l)
	}

	items := make([]domain.ItemDefinition, 0, len(f.Items))
	for _, e := range f.Items {
		p, err := domain.ParseStatePattern(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", e.Keyword, err)
		}
		items = append(items, domain.ItemDefinition{
			Keyword:        e.Keyword,
			Suffix:         e.Suffix,
			ActionRequired: e.ActionRequired,
			Pattern:        p,
		})
	}

	actions := make([]domain.ActionDefinition, 0, len(f.Actions))
	for _, e := range f.Actions {
		p, err := domain.ParseStatePattern(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", e.Keyword, err)
		}
		actions = append(actions, domain.ActionDefinition{
			Keyword:    e.Keyword,
			Suffix:     e.Suffix,
			Pattern:    p,
			FixedState: e.FixedState,
		})
	}

	v, err := domain.NewVocabulary(locations, items, actions)
	if err != nil {
		return nil, fmt.Errorf("building vocabulary: %w", err)
	}
	return v, nil
}
