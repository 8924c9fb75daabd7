// Package repo reads stored games and plays from postgres
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"rinkfeed/internal/core/pbp"
	"rinkfeed/internal/modkit/repokit"
	perr "rinkfeed/internal/platform/errors"
	"rinkfeed/internal/platform/store"
	"rinkfeed/internal/services/api/games/domain"
)

// Repo is the read surface of the games module
type Repo interface {
	Game(ctx context.Context, gamePk int64) (domain.Game, bool, error)
	Plays(ctx context.Context, gamePk int64) ([]pbp.Event, error)
}

type (
	// PG binds the repo to a Queryer
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns the postgres binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) Game(ctx context.Context, gamePk int64) (domain.Game, bool, error) {
	g, err := store.One(ctx, r.q, scanGame, `
		SELECT game_pk, season, game_number, game_type, away, home, event_count, updated_at
		FROM games WHERE game_pk = $1
	`, gamePk)
	if errors.Is(err, perr.ErrNotFound) {
		return domain.Game{}, false, nil
	}
	if err != nil {
		return domain.Game{}, false, err
	}
	return g, true, nil
}

func scanGame(row store.Row) (domain.Game, error) {
	var g domain.Game
	err := row.Scan(&g.GamePk, &g.Season, &g.GameNumber, &g.GameType, &g.Away, &g.Home, &g.EventCount, &g.UpdatedAt)
	return g, err
}

// PlayColumns is the select list ScanPlay expects
const PlayColumns = `event_id, period, period_type, time_s, type, COALESCE(team, ''), description,
	COALESCE(zone_away, ''), COALESCE(zone_home, ''), players, pen_mins, COALESCE(pen_severity, '')`

func (r *queries) Plays(ctx context.Context, gamePk int64) ([]pbp.Event, error) {
	out, err := store.Many(ctx, r.q, func(row store.Row) (pbp.Event, error) { return ScanPlay(row) },
		`SELECT `+PlayColumns+` FROM plays WHERE game_pk = $1 ORDER BY event_id`, gamePk)
	if out == nil {
		out = []pbp.Event{}
	}
	return out, err
}

// ScanPlay reads one row selected with PlayColumns, plus any leading extra dests
func ScanPlay(row repokit.Row, extra ...any) (pbp.Event, error) {
	var (
		ev           pbp.Event
		ptype, typ   string
		zAway, zHome string
		players      []byte
	)
	dest := append(extra, &ev.ID, &ev.Period, &ptype, &ev.Time, &typ, &ev.Team, &ev.Description,
		&zAway, &zHome, &players, &ev.PenMins, &ev.PenSeverity)
	if err := row.Scan(dest...); err != nil {
		return pbp.Event{}, err
	}
	ev.PeriodType, ev.Type = pbp.PeriodType(ptype), pbp.Category(typ)
	if zAway != "" && zHome != "" {
		ev.Zones = &pbp.ZonePair{pbp.Zone(zAway), pbp.Zone(zHome)}
	}
	if len(players) > 0 {
		if err := json.Unmarshal(players, &ev.Players); err != nil {
			return pbp.Event{}, fmt.Errorf("decode players of event %d: %w", ev.ID, err)
		}
		if len(ev.Players) == 0 {
			ev.Players = nil
		}
	}
	return ev, nil
}
