// Package repo provides postgres access for backfill writes
package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"rinkfeed/internal/core/pbp"
	"rinkfeed/internal/modkit/repokit"
	"rinkfeed/internal/services/backfill/domain"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: repokit.RequireQueryer(q)} }

// PreseedGames inserts pending ledger rows and puts failed ones back in the queue
func (r *queries) PreseedGames(ctx context.Context, games []domain.GameRef) (int, error) {
	if len(games) == 0 {
		return 0, nil
	}
	pks := make([]int64, len(games))
	seasons := make([]int32, len(games))
	numbers := make([]int32, len(games))
	for i, g := range games {
		pks[i], seasons[i], numbers[i] = g.GamePk(), int32(g.Season), int32(g.Number)
	}

	tag, err := r.q.Exec(ctx, `
		INSERT INTO ingest_games (game_pk, season, game_number, status)
		SELECT t.pk, t.season, t.num, 'pending'
		FROM UNNEST($1::bigint[], $2::int[], $3::int[]) AS t(pk, season, num)
		ON CONFLICT (game_pk) DO UPDATE
		SET status = 'pending'
		WHERE ingest_games.status = 'error'
	`, pks, seasons, numbers)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

const claimSQL = `
	WITH cte AS (
		SELECT game_pk
		FROM ingest_games
		WHERE status = 'pending' %s
		ORDER BY game_pk
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	)
	UPDATE ingest_games g
	SET status = 'running', attempts = g.attempts + 1, started_at = now()
	FROM cte
	WHERE g.game_pk = cte.game_pk
	RETURNING g.season, g.game_number
`

// NextGame claims the lowest pending game in [from, to] of one season
func (r *queries) NextGame(ctx context.Context, season, from, to int) (domain.GameRef, bool, error) {
	return r.claim(ctx, fmt.Sprintf(claimSQL, "AND season = $1 AND game_number BETWEEN $2 AND $3"), season, from, to)
}

// NextGameAny claims the lowest pending game of any season
func (r *queries) NextGameAny(ctx context.Context) (domain.GameRef, bool, error) {
	return r.claim(ctx, fmt.Sprintf(claimSQL, ""))
}

func (r *queries) claim(ctx context.Context, sql string, args ...any) (domain.GameRef, bool, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return domain.GameRef{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return domain.GameRef{}, false, rows.Err()
	}
	var g domain.GameRef
	if err := rows.Scan(&g.Season, &g.Number); err != nil {
		return domain.GameRef{}, false, err
	}
	return g, true, rows.Err()
}

// RequeueFailed moves every failed game back to pending
func (r *queries) RequeueFailed(ctx context.Context) (int, error) {
	tag, err := r.q.Exec(ctx, `UPDATE ingest_games SET status = 'pending' WHERE status = 'error'`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// StartGame marks a game running (idempotent)
func (r *queries) StartGame(ctx context.Context, g domain.GameRef, runID string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ingest_games (game_pk, season, game_number, status, run_id, started_at, attempts)
		VALUES ($1, $2, $3, 'running', $4, now(), 1)
		ON CONFLICT (game_pk) DO UPDATE
		SET status = 'running', run_id = $4, started_at = now(), finished_at = null,
			error = null, error_code = null
	`, g.GamePk(), g.Season, g.Number, runID)
	return err
}

// FinishGame records the outcome of one attempt (idempotent)
func (r *queries) FinishGame(ctx context.Context, g domain.GameRef, fin domain.GameFinish) error {
	_, err := r.q.Exec(ctx, `
		UPDATE ingest_games SET
			finished_at = now(),
			status = $2,
			run_id = $3,
			cache_hits = $4,
			report_bytes = $5,
			feed_bytes = $6,
			events = $7,
			players = $8,
			fetch_ms = $9,
			transform_ms = $10,
			db_ms = $11,
			sink_ms = $12,
			elapsed_ms = $13,
			error_code = NULLIF($14, ''),
			error = NULLIF($15, '')
		WHERE game_pk = $1
	`,
		g.GamePk(), fin.Status, fin.RunID, fin.CacheHits, fin.ReportBytes, fin.FeedBytes,
		fin.Events, fin.Players, fin.FetchMS, fin.TransformMS, fin.DBMS, fin.SinkMS, fin.ElapsedMS,
		fin.ErrCode, fin.ErrText,
	)
	return err
}

// ReplaceGame writes the game row, upserts its roster and swaps its plays.
// Callers run it inside one transaction so readers never see a half game
func (r *queries) ReplaceGame(ctx context.Context, rec domain.GameRecord) error {
	g := rec.Game
	if _, err := r.q.Exec(ctx, `
		INSERT INTO games (game_pk, season, game_number, game_type, away, home, event_count, run_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (game_pk) DO UPDATE
		SET away = excluded.away, home = excluded.home, event_count = excluded.event_count,
			run_id = excluded.run_id, updated_at = now()
	`, g.GamePk(), g.Season, g.Number, g.GameType(), rec.Away, rec.Home, len(rec.Events), rec.RunID); err != nil {
		return fmt.Errorf("upsert game %s: %w", g, err)
	}

	if err := r.upsertRoster(ctx, rec); err != nil {
		return err
	}

	if _, err := r.q.Exec(ctx, `DELETE FROM plays WHERE game_pk = $1`, g.GamePk()); err != nil {
		return fmt.Errorf("delete plays %s: %w", g, err)
	}
	if len(rec.Events) == 0 {
		return nil
	}
	cols, err := playColumns(rec)
	if err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, `
		INSERT INTO plays (
			game_pk, event_id, period, period_type, time_s, type, team,
			description, zone_away, zone_home, players, pen_mins, pen_severity
		)
		SELECT $1, t.id, t.period, t.ptype, t.ts, t.typ, NULLIF(t.team, ''),
			t.descr, NULLIF(t.za, ''), NULLIF(t.zh, ''), t.players::jsonb,
			NULLIF(t.pen, -1), NULLIF(t.sev, '')
		FROM UNNEST(
			$2::int[], $3::int[], $4::text[], $5::int[], $6::text[], $7::text[],
			$8::text[], $9::text[], $10::text[], $11::text[], $12::int[], $13::text[]
		) AS t(id, period, ptype, ts, typ, team, descr, za, zh, players, pen, sev)
	`, append([]any{g.GamePk()}, cols...)...); err != nil {
		return fmt.Errorf("insert plays %s: %w", g, err)
	}
	return nil
}

func (r *queries) upsertRoster(ctx context.Context, rec domain.GameRecord) error {
	if len(rec.Roster) == 0 {
		return nil
	}
	n := len(rec.Roster)
	ids := make([]int64, n)
	names := make([]string, n)
	positions := make([]string, n)
	teams := make([]string, n)
	jerseys := make([]int32, n)
	for i, p := range rec.Roster {
		ids[i], names[i], positions[i], teams[i] = p.ID, p.Name, p.Position, p.Team
		jerseys[i] = -1
		if p.Jersey != nil {
			jerseys[i] = int32(*p.Jersey)
		}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO players (player_id, full_name, position, team, jersey, last_game_pk, updated_at)
		SELECT t.id, t.name, NULLIF(t.pos, ''), t.team, NULLIF(t.jersey, -1), $6, now()
		FROM UNNEST($1::bigint[], $2::text[], $3::text[], $4::text[], $5::int[])
			AS t(id, name, pos, team, jersey)
		ON CONFLICT (player_id) DO UPDATE
		SET full_name = excluded.full_name,
			position = COALESCE(excluded.position, players.position),
			team = excluded.team,
			jersey = excluded.jersey,
			last_game_pk = excluded.last_game_pk,
			updated_at = now()
		WHERE players.last_game_pk IS NULL OR players.last_game_pk <= excluded.last_game_pk
	`, ids, names, positions, teams, jerseys, rec.Game.GamePk())
	if err != nil {
		return fmt.Errorf("upsert roster %s: %w", rec.Game, err)
	}
	return nil
}

// playColumns flattens events into the UNNEST argument arrays; absent
// values travel as "" or -1 and become NULL in SQL
func playColumns(rec domain.GameRecord) ([]any, error) {
	n := len(rec.Events)
	ids, periods, times, pens := make([]int32, n), make([]int32, n), make([]int32, n), make([]int32, n)
	ptypes, types, teams, descs := make([]string, n), make([]string, n), make([]string, n), make([]string, n)
	zaway, zhome, players, severities := make([]string, n), make([]string, n), make([]string, n), make([]string, n)
	for i, ev := range rec.Events {
		ids[i], periods[i], times[i] = int32(ev.ID), int32(ev.Period), int32(ev.Time)
		ptypes[i], types[i], teams[i], descs[i] = string(ev.PeriodType), string(ev.Type), ev.Team, ev.Description
		if ev.Zones != nil {
			zaway[i], zhome[i] = string(ev.Zones[0]), string(ev.Zones[1])
		}
		pens[i] = -1
		if ev.PenMins != nil {
			pens[i] = int32(*ev.PenMins)
		}
		severities[i] = ev.PenSeverity

		ps := ev.Players
		if ps == nil {
			ps = []pbp.Player{}
		}
		b, err := json.Marshal(ps)
		if err != nil {
			return nil, fmt.Errorf("encode players of event %d: %w", ev.ID, err)
		}
		players[i] = string(b)
	}
	return []any{ids, periods, ptypes, times, types, teams, descs, zaway, zhome, players, pens, severities}, nil
}
