package domain

// DefaultVocabulary returns the built-in English tables. Table order is
// significant: locations are scanned last-match-wins, items and actions
// first-match-wins.
func DefaultVocabulary() *Vocabulary {
	v, err := NewVocabulary(defaultLocations, defaultItems, defaultActions)
	if err != nil {
		panic("domain: invalid built-in vocabulary: " + err.Error())
	}
	return v
}

var defaultLocations = []Location{
	"bedroom-mark",
	LocationBedroom,
	"study",
	"kitchen",
	"lounge",
	"library",
	"hall",
	"ballroom",
}

var defaultItems = []ItemDefinition{
	{Keyword: "lights", Suffix: "/lights", Pattern: PatternBinary},
	{Keyword: "light", Suffix: "/lights", Pattern: PatternBinary},
	{Keyword: "lamp", Suffix: "/lamp", Pattern: PatternBinary},
	{Keyword: "amp", Suffix: "/amp", Pattern: PatternBinary},
	{Keyword: "amplifier", Suffix: "/amp", Pattern: PatternBinary},
	{Keyword: "fan", Suffix: "/fan", Pattern: PatternBinary},
	{Keyword: "heating", Suffix: "/heating", Pattern: PatternBinary},
	{Keyword: "dimmer", Suffix: "/dimmer", Pattern: PatternAny},
	{Keyword: "dimmers", Suffix: "/dimmer", Pattern: PatternAny},
	{Keyword: "thermostat", Suffix: "/setpoint", Pattern: PatternInteger},
	{Keyword: "temperature", Suffix: "/setpoint", Pattern: PatternInteger},
	{Keyword: "media", Suffix: "/media", ActionRequired: true},
	{Keyword: "music", Suffix: "/media", ActionRequired: true},
	{Keyword: "scene", Suffix: "/scene", ActionRequired: true},
}

var defaultActions = []ActionDefinition{
	{Keyword: "play", Suffix: "/media/play"},
	{Keyword: "pause", Suffix: "/media/pause"},
	{Keyword: "stop", Suffix: "/media/stop"},
	{Keyword: "off", Suffix: "/media/stop"},
	{Keyword: "next", Suffix: "/media/next"},
	{Keyword: "volume", Suffix: "/media/volume", Pattern: PatternInteger},
	{Keyword: "movie", Suffix: "/scene", FixedState: "movie"},
	{Keyword: "relax", Suffix: "/scene", FixedState: "relax"},
	{Keyword: "bedtime", Suffix: "/scene", FixedState: "bedtime"},
	{Keyword: "morning", Suffix: "/scene", FixedState: "morning"},
}
