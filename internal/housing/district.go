package housing

import "strings"

// District is one of the four purchasable housing zones of a server.
type District int

const (
	Goblet District = iota
	LavenderBeds
	Mist
	Shirogane
)

// Districts lists all districts in the fixed report order.
var Districts = [...]District{Goblet, LavenderBeds, Mist, Shirogane}

// String returns the storage/callout name (no spaces, used in file paths
// and role names).
func (d District) String() string {
	switch d {
	case Goblet:
		return "Goblet"
	case LavenderBeds:
		return "LavenderBeds"
	case Mist:
		return "Mist"
	case Shirogane:
		return "Shirogane"
	}
	return "Unknown"
}

// Display returns the human-facing name.
func (d District) Display() string {
	if d == LavenderBeds {
		return "Lavender Beds"
	}
	return d.String()
}

// Emoji returns the marker used in sweep reports.
func (d District) Emoji() string {
	switch d {
	case Goblet:
		return "☀"
	case LavenderBeds:
		return "\U0001f490"
	case Mist:
		return "\U0001F30A"
	case Shirogane:
		return "⛩"
	}
	return ""
}

// districtRules maps command-text substrings to districts, first match wins.
// Order matters: "mi" overlaps with nearly everything ("medium", "shiro*mi*"
// does not, but free text can), so it is tried last.
var districtRules = []struct {
	token string
	d     District
}{
	{"lb", LavenderBeds},
	{"lav", LavenderBeds},
	{"gob", Goblet},
	{"shir", Shirogane},
	{"mi", Mist},
}

// MatchDistrict scans command text for a district keyword.
func MatchDistrict(text string) (District, bool) {
	text = strings.ToLower(text)
	for _, r := range districtRules {
		if strings.Contains(text, r.token) {
			return r.d, true
		}
	}
	return 0, false
}
