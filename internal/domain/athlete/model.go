package athlete

import (
	"strings"
	"time"
)

// Profile is the identity/metadata row for one athlete. BirthDate may be
// zero when the source has no record; age-derived values treat that as
// unknown rather than an error.
type Profile struct {
	ID          string
	Name        string
	BirthDate   time.Time
	Position    string
	CurrentTeam string
}

func (p Profile) HasBirthDate() bool {
	return !p.BirthDate.IsZero()
}

// AgeAt returns the athlete's age in years at the given date. The second
// return value is false when the birth date is unknown.
func (p Profile) AgeAt(at time.Time) (float64, bool) {
	if !p.HasBirthDate() || at.IsZero() || at.Before(p.BirthDate) {
		return 0, false
	}
	return at.Sub(p.BirthDate).Hours() / 24 / 365.25, true
}

const (
	GroupGoalkeeper = "GOALKEEPER"
	GroupDefensive  = "DEFENSIVE"
	GroupMidfield   = "MIDFIELD"
	GroupAttacking  = "ATTACKING"
	GroupUnknown    = "UNKNOWN"
)

var positionGroups = []struct {
	group string
	codes []string
}{
	{GroupGoalkeeper, []string{"GK"}},
	{GroupDefensive, []string{"CB", "LB", "RB", "FB", "LWB", "RWB", "SW", "D"}},
	{GroupMidfield, []string{"CM", "DM", "MF", "AM"}},
	{GroupAttacking, []string{"CF", "ST", "F", "FW", "LW", "RW", "WF", "IF", "OL", "OR"}},
}

// PositionGroup maps a raw position code (possibly a compound like "AM,CM")
// onto one of the coarse groups. Matching is by substring, first group wins.
func PositionGroup(position string) string {
	position = strings.ToUpper(strings.TrimSpace(position))
	if position == "" {
		return GroupUnknown
	}
	for _, pg := range positionGroups {
		for _, code := range pg.codes {
			if strings.Contains(position, code) {
				return pg.group
			}
		}
	}
	return GroupUnknown
}
