package pbp

import "strings"

var zonePhrases = [...]struct {
	phrase string
	zone   Zone
}{
	{"def. zone", ZoneDefensive},
	{"off. zone", ZoneOffensive},
	{"neu. zone", ZoneNeutral},
}

// Flip returns the same spot seen from the other bench
func Flip(z Zone) Zone {
	switch z {
	case ZoneOffensive:
		return ZoneDefensive
	case ZoneDefensive:
		return ZoneOffensive
	}
	return z
}

// zoneIn finds the zone phrase in a description; matching ignores case
func zoneIn(desc string) (Zone, bool) {
	low := strings.ToLower(desc)
	for _, p := range zonePhrases {
		if strings.Contains(low, p.phrase) {
			return p.zone, true
		}
	}
	return "", false
}

// resolveZones builds [away, home] for an event attributed to team (canonical).
// Blocked shots name the zone from the blocker's side, so their pair is reversed
// to keep the shooter's perspective
func resolveZones(desc string, team, away string, cat Category) *ZonePair {
	if team == "" {
		return nil
	}
	z, ok := zoneIn(desc)
	if !ok {
		return nil
	}
	pair := ZonePair{Flip(z), z}
	if team == away {
		pair = ZonePair{z, Flip(z)}
	}
	if cat == CategoryBlockedShot {
		pair[0], pair[1] = pair[1], pair[0]
	}
	return &pair
}
