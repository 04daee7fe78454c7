package domain

import (
	"fmt"
	"strings"
)

// StatePattern selects which tokens of a sub-command count as a state value.
type StatePattern uint8

const (
	PatternNone    StatePattern = 0
	PatternBinary  StatePattern = 1 << 0
	PatternInteger StatePattern = 1 << 1
	PatternAny                  = PatternBinary | PatternInteger
)

// ParseStatePattern accepts the textual forms used by vocabulary files:
// "", "binary", "integer" and "binary|integer" (in either order).
func ParseStatePattern(s string) (StatePattern, error) {
	var p StatePattern
	for _, part := range strings.Split(strings.ToLower(strings.TrimSpace(s)), "|") {
		switch strings.TrimSpace(part) {
		case "", "none":
		case "binary":
			p |= PatternBinary
		case "integer":
			p |= PatternInteger
		default:
			return PatternNone, fmt.Errorf("unknown state pattern %q", s)
		}
	}
	return p, nil
}

// Matches reports whether a lower-cased token satisfies the pattern.
func (p StatePattern) Matches(token string) bool {
	if p&PatternBinary != 0 && (token == "on" || token == "off") {
		return true
	}
	if p&PatternInteger != 0 && isDigits(token) {
		return true
	}
	return false
}

func (p StatePattern) String() string {
	switch p {
	case PatternNone:
		return ""
	case PatternBinary:
		return "binary"
	case PatternInteger:
		return "integer"
	case PatternAny:
		return "binary|integer"
	default:
		return fmt.Sprintf("StatePattern(%d)", uint8(p))
	}
}

func (p StatePattern) valid() bool {
	return p&^PatternAny == 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
