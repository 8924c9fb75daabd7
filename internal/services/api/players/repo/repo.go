// Package repo reads players and their plays from postgres
package repo

import (
	"context"
	"errors"
	"strconv"

	"rinkfeed/internal/core/pbp"
	"rinkfeed/internal/modkit/repokit"
	perr "rinkfeed/internal/platform/errors"
	"rinkfeed/internal/platform/store"
	"rinkfeed/internal/services/api/games/repo"
	"rinkfeed/internal/services/api/players/domain"
)

// Repo is the read surface of the players module
type Repo interface {
	Player(ctx context.Context, id int64) (domain.Player, bool, error)
	CountEvents(ctx context.Context, id int64) (int, error)
	Events(ctx context.Context, id int64, limit, offset int) ([]EventRow, error)
}

// EventRow is a play keyed by its game
type EventRow struct {
	GamePk int64
	Event  pbp.Event
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

func (r *queries) Player(ctx context.Context, id int64) (domain.Player, bool, error) {
	p, err := store.One(ctx, r.q, func(row store.Row) (domain.Player, error) {
		var p domain.Player
		err := row.Scan(&p.ID, &p.Name, &p.Position, &p.Team, &p.Jersey, &p.LastGamePk, &p.UpdatedAt)
		return p, err
	}, `
		SELECT player_id, full_name, COALESCE(position, ''), team, jersey, last_game_pk, updated_at
		FROM players WHERE player_id = $1
	`, id)
	if errors.Is(err, perr.ErrNotFound) {
		return domain.Player{}, false, nil
	}
	if err != nil {
		return domain.Player{}, false, err
	}
	return p, true, nil
}

// containsPlayer is the jsonb containment probe the plays GIN index serves
func containsPlayer(id int64) string {
	return `[{"playerId":` + strconv.FormatInt(id, 10) + `}]`
}

func (r *queries) CountEvents(ctx context.Context, id int64) (int, error) {
	n, err := store.Scalar[int64](ctx, r.q, `SELECT count(*) FROM plays WHERE players @> $1::jsonb`, containsPlayer(id))
	return int(n), err
}

func (r *queries) Events(ctx context.Context, id int64, limit, offset int) ([]EventRow, error) {
	return store.Many(ctx, r.q, func(row store.Row) (EventRow, error) {
		var er EventRow
		ev, err := repo.ScanPlay(row, &er.GamePk)
		er.Event = ev
		return er, err
	}, `
		SELECT game_pk, `+repo.PlayColumns+`
		FROM plays WHERE players @> $1::jsonb
		ORDER BY game_pk, event_id
		LIMIT $2 OFFSET $3
	`, containsPlayer(id), limit, offset)
}
