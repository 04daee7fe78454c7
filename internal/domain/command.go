package domain

import "strings"

// DefaultTopicRoot prefixes every published topic.
const DefaultTopicRoot = "ha/"

// Command is a fully resolved device instruction.
type Command struct {
	Location Location
	// Suffix may carry one leading separator ("/lights") or none ("lights").
	Suffix string
	State  string
}

// Valid reports whether the command can be published.
func (c Command) Valid() bool {
	return c.Suffix != "" && c.State != ""
}

// Path is "<location>/<suffix>" with exactly one leading separator stripped
// from the suffix.
func (c Command) Path() string {
	return string(c.Location) + "/" + strings.TrimPrefix(c.Suffix, "/")
}

// Topic joins root and Path. The root is expected to end with "/".
func (c Command) Topic(root string) string {
	return root + c.Path()
}

// Payload is the upper-cased state.
func (c Command) Payload() string {
	return strings.ToUpper(c.State)
}

// Subject is Path with separators spoken as spaces, e.g. "kitchen media volume".
func (c Command) Subject() string {
	return strings.ReplaceAll(c.Path(), "/", " ")
}

// Phrase is the spoken confirmation, e.g. "kitchen media volume 50".
func (c Command) Phrase() string {
	return c.Subject() + " " + c.State
}
