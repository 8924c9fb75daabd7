package pbp

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the canonical event type
type Category string

const (
	CategoryPeriodStart Category = "period_start"
	CategoryPeriodEnd   Category = "period_end"
	CategoryGameEnd     Category = "game_end"
	CategoryFaceoff     Category = "faceoff"
	CategoryStop        Category = "stop"
	CategoryGoal        Category = "goal"
	CategoryShot        Category = "shot"
	CategoryBlockedShot Category = "blocked_shot"
	CategoryMissedShot  Category = "missed_shot"
	CategoryTakeaway    Category = "takeaway"
	CategoryGiveaway    Category = "giveaway"
	CategoryHit         Category = "hit"
	CategoryPenalty     Category = "penalty"
)

// PeriodType distinguishes regulation, overtime and shootout periods
type PeriodType string

const (
	PeriodRegular  PeriodType = "regular"
	PeriodOvertime PeriodType = "overtime"
	PeriodShootout PeriodType = "shootout"
)

// Zone is a rink zone relative to one team's attacking direction
type Zone string

const (
	ZoneOffensive Zone = "o"
	ZoneDefensive Zone = "d"
	ZoneNeutral   Zone = "n"
)

// ZonePair holds [relative to away, relative to home]
type ZonePair [2]Zone

// Role tags used in Player entries
const (
	RoleHitter    = "hitter"
	RoleHittee    = "hittee"
	RoleShooter   = "shooter"
	RoleBlocker   = "blocker"
	RoleWinner    = "winner"
	RoleLoser     = "loser"
	RoleScorer    = "scorer"
	RolePenaltyOn = "penaltyon"
	RoleServedBy  = "servedby"
	RoleDrewBy    = "drewby"
)

// RoleAssist returns the role tag of the n-th assist (1 based)
func RoleAssist(n int) string { return "assist" + strconv.Itoa(n) }

// RawPlayRow is one event row of the HTML report, in document order
type RawPlayRow struct {
	ID          int
	Period      int
	Elapsed     string // "MM:SS MM:SS", elapsed then remaining
	Code        string // e.g. "FAC", "PENL"
	Description string // cell text, line breaks joined by spaces
}

// Player is a resolved participant of an event
type Player struct {
	Role     string `json:"role"`
	PlayerID int64  `json:"playerId"`
}

// Event is one normalized play, shaped to slot into liveData.plays.allPlays
type Event struct {
	ID          int        `json:"id"`
	Period      int        `json:"period"`
	PeriodType  PeriodType `json:"periodType"`
	Time        int        `json:"time"`
	Type        Category   `json:"type"`
	Description string     `json:"description"`
	Team        string     `json:"team,omitempty"`
	Zones       *ZonePair  `json:"zones,omitempty"`
	Players     []Player   `json:"players,omitempty"`
	PenMins     *int       `json:"penMins,omitempty"`
	PenSeverity string     `json:"penSeverity,omitempty"`
}

// RoleToken is a raw "<team> #<jersey>" mention tagged with its role.
// Team is in report form until the resolver canonicalizes it
type RoleToken struct {
	Role   string
	Team   string
	Jersey int
}

func (t RoleToken) String() string { return fmt.Sprintf("%s:%s #%d", t.Role, t.Team, t.Jersey) }

// Header carries the two team codes declared by the report, raw and lowercased
type Header struct {
	Away string
	Home string
}

// RosterPlayer is a dressed (or scratched) player from the feed boxscore
type RosterPlayer struct {
	Team     string // canonical, lowercase
	ID       int64
	Name     string
	Position string
	Jersey   *int
}

// GameRef identifies a game the way both NHL sources key it:
// season start year plus the six digit game number (type prefix + sequence)
type GameRef struct {
	Season int
	Number int
}

// GamePk returns the statsapi game id, e.g. 2016020001
func (g GameRef) GamePk() int64 { return int64(g.Season)*1_000_000 + int64(g.Number) }

// GameType returns the two digit type prefix: 1 preseason, 2 regular, 3 playoffs
func (g GameRef) GameType() int { return g.Number / 10000 }

// RegularSeason reports whether the game number is in the regular-season range
func (g GameRef) RegularSeason() bool { return g.GameType() == 2 }

// SeasonLabel returns the report path form, e.g. "20162017"
func (g GameRef) SeasonLabel() string { return fmt.Sprintf("%d%d", g.Season, g.Season+1) }

func (g GameRef) String() string { return strconv.FormatInt(g.GamePk(), 10) }

// ParseGamePk splits a ten digit statsapi id into a GameRef
func ParseGamePk(s string) (GameRef, error) {
	s = strings.TrimSpace(s)
	pk, err := strconv.ParseInt(s, 10, 64)
	if err != nil || len(s) != 10 {
		return GameRef{}, fmt.Errorf("game id %q: want 10 digits like 2016020001", s)
	}
	return GameRef{Season: int(pk / 1_000_000), Number: int(pk % 1_000_000)}, nil
}
