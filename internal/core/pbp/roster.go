package pbp

import "sort"

type rosterKey struct {
	team   string
	jersey int
}

// RosterIndex resolves (canonical team, jersey) to a player id
type RosterIndex struct {
	players map[rosterKey]int64
	dupes   map[rosterKey][]int64
}

// BuildRosterIndex indexes dressed players. Players without a jersey number are
// left out; two players sharing a jersey on one team make that key ambiguous
func BuildRosterIndex(players []RosterPlayer) *RosterIndex {
	ix := &RosterIndex{
		players: make(map[rosterKey]int64, len(players)),
		dupes:   map[rosterKey][]int64{},
	}
	for _, p := range players {
		if p.Jersey == nil {
			continue
		}
		k := rosterKey{team: p.Team, jersey: *p.Jersey}
		if prev, ok := ix.players[k]; ok && prev != p.ID {
			if len(ix.dupes[k]) == 0 {
				ix.dupes[k] = append(ix.dupes[k], prev)
			}
			ix.dupes[k] = append(ix.dupes[k], p.ID)
			continue
		}
		ix.players[k] = p.ID
	}
	for k, ids := range ix.dupes {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		delete(ix.players, k)
	}
	return ix
}

// Len returns the number of resolvable keys
func (ix *RosterIndex) Len() int { return len(ix.players) }

// Lookup returns the player id for a canonical team and jersey
func (ix *RosterIndex) Lookup(team string, jersey int) (int64, bool) {
	id, ok := ix.players[rosterKey{team: team, jersey: jersey}]
	return id, ok
}
