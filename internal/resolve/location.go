package resolve

import (
	"strings"

	"homecmd/internal/domain"
)

// Location finds the room named in a free-text sub-command. Every location is
// checked and the last one in table order that occurs as a substring wins, so
// "bedroom-mark" loses to the later "bedroom" entry and is then mapped back to
// the default alias.
func Location(v *domain.Vocabulary, text string) domain.Location {
	text = strings.ToLower(text)

	loc := v.DefaultLocation()
	for l := range v.Locations() {
		if strings.Contains(text, string(l)) {
			loc = l
		}
	}

	if loc == domain.LocationBedroom {
		return v.DefaultLocation()
	}
	return loc
}

// taggedRoom reads the room slot. The generic bedroom is shared, so tagged
// input naming it resolves to the unknown location.
func taggedRoom(v *domain.Vocabulary, tree domain.EntityTree) domain.Location {
	room, ok := tree.Slot(domain.SlotRoom)
	if !ok || room == "" {
		return v.DefaultLocation()
	}
	if domain.Location(room) == domain.LocationBedroom {
		return domain.LocationUnknown
	}
	return domain.Location(room)
}
