// Package service serves stored plays and live combines
package service

import (
	"context"

	"rinkfeed/internal/adapters/ingest/nhl"
	"rinkfeed/internal/core/pbp"
	"rinkfeed/internal/modkit/repokit"
	perr "rinkfeed/internal/platform/errors"
	"rinkfeed/internal/platform/logger"
	"rinkfeed/internal/services/api/games/domain"
	"rinkfeed/internal/services/api/games/repo"
)

// Service is the games service contract
type Service interface {
	domain.ServicePort
}

// Svc implements Service
type Svc struct {
	Repo  repo.Repo
	Fetch nhl.Fetcher
	Rec   *pbp.Reconciler
}

// New constructs the service; f and rec may be nil when combine is not offered
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], f nhl.Fetcher, rec *pbp.Reconciler) *Svc {
	if db == nil {
		panic("games.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("games.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), Fetch: f, Rec: rec}
}

// Plays returns a stored game and its events in id order
func (s *Svc) Plays(ctx context.Context, gamePk int64) (domain.Plays, error) {
	g, ok, err := s.Repo.Game(ctx, gamePk)
	if err != nil {
		return domain.Plays{}, err
	}
	if !ok {
		return domain.Plays{}, perr.NotFoundf("game %d not found", gamePk)
	}
	events, err := s.Repo.Plays(ctx, gamePk)
	if err != nil {
		return domain.Plays{}, err
	}
	return domain.Plays{Game: g, Events: events}, nil
}

// Combine fetches both documents and reconciles them without storing anything
func (s *Svc) Combine(ctx context.Context, in domain.CombineInput) (domain.Combined, error) {
	if s.Fetch == nil || s.Rec == nil {
		return domain.Combined{}, perr.Unavailablef("combine is not configured")
	}
	g := in.Ref()
	docs, err := nhl.FetchGame(ctx, s.Fetch, g)
	if err != nil {
		return domain.Combined{}, err
	}
	res, err := s.Rec.Reconcile(g, docs.Report, docs.Feed)
	if err != nil {
		return domain.Combined{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "reconcile %s", g)
	}
	logger.C(ctx).Debug().Int64("game_pk", g.GamePk()).Int("events", len(res.Events)).
		Int("cache_hits", docs.CacheHits).Msg("games: combined")
	return domain.Combined{
		GamePk: g.GamePk(),
		Away:   res.Away,
		Home:   res.Home,
		Roster: len(res.Roster),
		Events: res.Events,
	}, nil
}
