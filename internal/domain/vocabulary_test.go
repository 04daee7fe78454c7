package domain_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homecmd/internal/domain"
)

func TestDefaultVocabulary(t *testing.T) {
	v := domain.DefaultVocabulary()

	assert.Equal(t, domain.Location("bedroom-mark"), v.DefaultLocation())
	assert.Contains(t, slices.Collect(v.Locations()), domain.LocationBedroom)

	for item := range v.Items() {
		assert.Equal(t, "/", item.Suffix[:1], item.Keyword)
	}
}

func TestNewVocabulary_Validation(t *testing.T) {
	locs := []domain.Location{"den"}

	tests := []struct {
		name    string
		locs    []domain.Location
		items   []domain.ItemDefinition
		actions []domain.ActionDefinition
	}{
		{name: "no locations"},
		{name: "blank location", locs: []domain.Location{" "}},
		{name: "duplicate location", locs: []domain.Location{"den", "DEN"}},
		{name: "empty keyword", locs: locs, items: []domain.ItemDefinition{{Suffix: "/x"}}},
		{name: "multi-word keyword", locs: locs, items: []domain.ItemDefinition{{Keyword: "ceiling fan", Suffix: "/fan"}}},
		{name: "suffix without separator", locs: locs, items: []domain.ItemDefinition{{Keyword: "fan", Suffix: "fan"}}},
		{name: "suffix with two separators", locs: locs, items: []domain.ItemDefinition{{Keyword: "fan", Suffix: "//fan"}}},
		{name: "bare separator", locs: locs, items: []domain.ItemDefinition{{Keyword: "fan", Suffix: "/"}}},
		{
			name:    "keyword shared by item and action",
			locs:    locs,
			items:   []domain.ItemDefinition{{Keyword: "fan", Suffix: "/fan"}},
			actions: []domain.ActionDefinition{{Keyword: "Fan", Suffix: "/fan/spin"}},
		},
		{name: "bad pattern", locs: locs, actions: []domain.ActionDefinition{{Keyword: "spin", Suffix: "/spin", Pattern: 8}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewVocabulary(tt.locs, tt.items, tt.actions)
			assert.Error(t, err)
		})
	}
}

func TestNewVocabulary_NormalisesKeywords(t *testing.T) {
	v, err := domain.NewVocabulary(
		[]domain.Location{" Den "},
		[]domain.ItemDefinition{{Keyword: " Blinds", Suffix: "/blinds"}},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, domain.Location("den"), v.DefaultLocation())
	items := slices.Collect(v.Items())
	require.Len(t, items, 1)
	assert.Equal(t, "blinds", items[0].Keyword)
}

func TestParseStatePattern(t *testing.T) {
	tests := []struct {
		in   string
		want domain.StatePattern
	}{
		{"", domain.PatternNone},
		{"binary", domain.PatternBinary},
		{"Integer", domain.PatternInteger},
		{"binary|integer", domain.PatternAny},
		{"integer | binary", domain.PatternAny},
	}
	for _, tt := range tests {
		got, err := domain.ParseStatePattern(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := domain.ParseStatePattern("colour")
	assert.Error(t, err)
}

func TestStatePattern_Matches(t *testing.T) {
	assert.True(t, domain.PatternBinary.Matches("on"))
	assert.False(t, domain.PatternBinary.Matches("20"))
	assert.True(t, domain.PatternInteger.Matches("007"))
	assert.False(t, domain.PatternInteger.Matches("-1"))
	assert.True(t, domain.PatternAny.Matches("off"))
	assert.False(t, domain.PatternNone.Matches("on"))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"turn", "on", "bedroom", "mark", "lights", "20"},
		domain.Tokenize("Turn ON bedroom-mark lights, 20!"))
	assert.Empty(t, domain.Tokenize("  ... "))
}
