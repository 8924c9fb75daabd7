package pbp

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
)

// Feed is the statsapi live feed with the boxscore pieces the reconciler needs.
// The document itself is kept raw so everything else survives the merge
type Feed struct {
	GamePk int64
	Away   string // canonical team code
	Home   string
	Roster []RosterPlayer

	raw map[string]json.RawMessage
}

type feedPlayer struct {
	Person struct {
		ID       int64  `json:"id"`
		FullName string `json:"fullName"`
	} `json:"person"`
	JerseyNumber string `json:"jerseyNumber"`
	Position     struct {
		Code string `json:"code"`
	} `json:"position"`
}

type feedTeam struct {
	Team struct {
		Abbreviation string `json:"abbreviation"`
		TriCode      string `json:"triCode"`
	} `json:"team"`
	Players map[string]feedPlayer `json:"players"`
}

type feedDoc struct {
	GamePk   int64 `json:"gamePk"`
	LiveData struct {
		Boxscore struct {
			Teams struct {
				Away *feedTeam `json:"away"`
				Home *feedTeam `json:"home"`
			} `json:"teams"`
		} `json:"boxscore"`
		Plays json.RawMessage `json:"plays"`
	} `json:"liveData"`
}

// ParseFeed decodes a live feed document and collects both boxscore rosters
func ParseFeed(data []byte) (*Feed, error) {
	f := &Feed{}
	if err := json.Unmarshal(data, &f.raw); err != nil {
		return nil, &Failure{Kind: ErrMalformedFeed, Detail: err.Error()}
	}
	var doc feedDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &Failure{Kind: ErrMalformedFeed, Detail: err.Error()}
	}
	teams := doc.LiveData.Boxscore.Teams
	if teams.Away == nil || teams.Home == nil {
		return nil, &Failure{Kind: ErrMalformedFeed, Detail: "boxscore is missing a team"}
	}

	f.GamePk = doc.GamePk
	var ok bool
	if f.Away, ok = teams.Away.code(); !ok {
		return nil, &Failure{Kind: ErrMalformedFeed, Detail: "away team has no abbreviation"}
	}
	if f.Home, ok = teams.Home.code(); !ok {
		return nil, &Failure{Kind: ErrMalformedFeed, Detail: "home team has no abbreviation"}
	}
	if absent(doc.LiveData.Plays) {
		return nil, &Failure{Kind: ErrMalformedFeed, Detail: "liveData.plays is missing"}
	}
	f.Roster = append(teams.Away.roster(f.Away), teams.Home.roster(f.Home)...)
	return f, nil
}

func (t *feedTeam) code() (string, bool) {
	c := t.Team.Abbreviation
	if c == "" {
		c = t.Team.TriCode
	}
	c = strings.ToLower(strings.TrimSpace(c))
	return c, c != ""
}

// roster flattens the players dictionary in a stable order (by id)
func (t *feedTeam) roster(team string) []RosterPlayer {
	out := make([]RosterPlayer, 0, len(t.Players))
	for _, p := range t.Players {
		rp := RosterPlayer{
			Team:     team,
			ID:       p.Person.ID,
			Name:     p.Person.FullName,
			Position: p.Position.Code,
		}
		if n, err := strconv.Atoi(strings.TrimSpace(p.JerseyNumber)); err == nil {
			rp.Jersey = &n
		}
		out = append(out, rp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// WithPlays returns the feed document with liveData.plays.allPlays replaced by events.
// Other members keep their original raw values
func (f *Feed) WithPlays(events []Event) ([]byte, error) {
	if events == nil {
		events = []Event{}
	}
	plays, err := json.Marshal(events)
	if err != nil {
		return nil, err
	}

	live, err := object(f.raw["liveData"])
	if err != nil {
		return nil, &Failure{Kind: ErrMalformedFeed, Detail: "liveData: " + err.Error()}
	}
	pl, err := object(live["plays"])
	if err != nil {
		return nil, &Failure{Kind: ErrMalformedFeed, Detail: "liveData.plays: " + err.Error()}
	}
	pl["allPlays"] = plays

	if live["plays"], err = json.Marshal(pl); err != nil {
		return nil, err
	}
	doc := make(map[string]json.RawMessage, len(f.raw))
	for k, v := range f.raw {
		doc[k] = v
	}
	if doc["liveData"], err = json.Marshal(live); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func absent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// object decodes a member that must be present as a JSON object
func object(raw json.RawMessage) (map[string]json.RawMessage, error) {
	if absent(raw) {
		return nil, errors.New("missing")
	}
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
