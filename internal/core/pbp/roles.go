package pbp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Grammar extracts role tokens from a folded (lowercase) description.
// team is the canonical event team, sides holds the canonical away and home codes
type Grammar func(desc, team string, sides Header) ([]RoleToken, error)

var grammars = map[Category]Grammar{
	CategoryHit:         hitGrammar,
	CategoryBlockedShot: blockedShotGrammar,
	CategoryMissedShot:  missedShotGrammar,
	CategoryShot:        shotGrammar,
	CategoryFaceoff:     faceoffGrammar,
	CategoryGoal:        goalGrammar,
	CategoryPenalty:     penaltyGrammar,
}

// GrammarFor returns the extractor for a role-bearing category
func GrammarFor(c Category) (Grammar, bool) {
	g, ok := grammars[c]
	return g, ok
}

var (
	// "tor #3", "n.j #9"; the team must not be the tail of a longer word
	teamTokenRe = regexp.MustCompile(`(?:^|[^a-z.])([a-z.]{3}) #(\d+)`)
	jerseyRe    = regexp.MustCompile(`#(\d+)`)
	// clause after "served by:" or "drawn by:", team prefix optional
	clauseRe = regexp.MustCompile(`^(?:([a-z.]{3}) )?#(\d+)`)
)

type missingRole string

func (m missingRole) Error() string { return fmt.Sprintf("no %s token", string(m)) }

func firstToken(s, role string) (RoleToken, bool) {
	m := teamTokenRe.FindStringSubmatch(s)
	if m == nil {
		return RoleToken{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return RoleToken{}, false
	}
	return RoleToken{Role: role, Team: m[1], Jersey: n}, true
}

func jerseys(s string) []int {
	var out []int
	for _, m := range jerseyRe.FindAllStringSubmatch(s, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// pairGrammar handles "<A> sep <B>" descriptions such as hits and blocks
func pairGrammar(sep, left, right string) Grammar {
	return func(desc, _ string, _ Header) ([]RoleToken, error) {
		a, b, ok := strings.Cut(desc, sep)
		if !ok {
			return nil, missingRole(left)
		}
		l, ok := firstToken(a, left)
		if !ok {
			return nil, missingRole(left)
		}
		r, ok := firstToken(b, right)
		if !ok {
			return nil, missingRole(right)
		}
		return []RoleToken{l, r}, nil
	}
}

var (
	hitGrammar         = pairGrammar(" hit ", RoleHitter, RoleHittee)
	blockedShotGrammar = pairGrammar(" blocked by ", RoleShooter, RoleBlocker)
)

func missedShotGrammar(desc, _ string, _ Header) ([]RoleToken, error) {
	t, ok := firstToken(desc, RoleShooter)
	if !ok {
		return nil, missingRole(RoleShooter)
	}
	return []RoleToken{t}, nil
}

// shots only print the jersey, the team comes from attribution
func shotGrammar(desc, team string, _ Header) ([]RoleToken, error) {
	js := jerseys(desc)
	if len(js) == 0 || team == "" {
		return nil, missingRole(RoleShooter)
	}
	return []RoleToken{{Role: RoleShooter, Team: team, Jersey: js[0]}}, nil
}

// faceoffs list the away player first; the event team won the draw
func faceoffGrammar(desc, team string, sides Header) ([]RoleToken, error) {
	a, b, ok := strings.Cut(desc, " vs ")
	if !ok {
		return nil, missingRole(RoleWinner)
	}
	away, ok1 := firstToken(a, "")
	home, ok2 := firstToken(b, "")
	if !ok1 || !ok2 {
		return nil, missingRole(RoleWinner)
	}
	switch team {
	case sides.Away:
		away.Role, home.Role = RoleWinner, RoleLoser
		return []RoleToken{away, home}, nil
	case sides.Home:
		home.Role, away.Role = RoleWinner, RoleLoser
		return []RoleToken{home, away}, nil
	}
	return nil, missingRole(RoleWinner)
}

func goalGrammar(desc, _ string, _ Header) ([]RoleToken, error) {
	scorer, ok := firstToken(desc, RoleScorer)
	if !ok {
		return nil, missingRole(RoleScorer)
	}
	out := []RoleToken{scorer}
	for _, sep := range [...]string{" assists: ", " assist: "} {
		_, tail, found := strings.Cut(desc, sep)
		if !found {
			continue
		}
		for i, n := range jerseys(tail) {
			out = append(out, RoleToken{Role: RoleAssist(i + 1), Team: scorer.Team, Jersey: n})
		}
		break
	}
	return out, nil
}

func penaltyGrammar(desc, team string, _ Header) ([]RoleToken, error) {
	var out []RoleToken

	words := strings.Fields(desc)
	if len(words) >= 2 && strings.Contains(words[1], "#") {
		js := jerseys(words[1])
		if len(js) == 0 {
			return nil, missingRole(RolePenaltyOn)
		}
		out = append(out, RoleToken{Role: RolePenaltyOn, Team: words[0], Jersey: js[0]})
	}
	for _, c := range [...]struct{ sep, role string }{
		{" served by: ", RoleServedBy},
		{" drawn by: ", RoleDrewBy},
	} {
		_, tail, found := strings.Cut(desc, c.sep)
		if !found {
			continue
		}
		t, ok := clauseToken(tail, c.role, team)
		if !ok {
			return nil, missingRole(c.role)
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, missingRole(RolePenaltyOn)
	}
	return out, nil
}

// clauseToken reads "mtl #8" or "#8"; a bare jersey belongs to the event team
func clauseToken(s, role, team string) (RoleToken, bool) {
	m := clauseRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return RoleToken{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return RoleToken{}, false
	}
	if m[1] != "" {
		team = m[1]
	}
	if team == "" {
		return RoleToken{}, false
	}
	return RoleToken{Role: role, Team: team, Jersey: n}, true
}
