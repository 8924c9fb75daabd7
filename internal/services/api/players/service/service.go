// Package service resolves players and the plays they appear in
package service

import (
	"context"

	"rinkfeed/internal/modkit/repokit"
	perr "rinkfeed/internal/platform/errors"
	"rinkfeed/internal/services/api/players/domain"
	"rinkfeed/internal/services/api/players/repo"
)

// Page limits
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Service is the players service contract
type Service interface {
	domain.ServicePort
}

// Svc implements Service
type Svc struct {
	Repo repo.Repo
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("players.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("players.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db)}
}

// Player returns the stored roster entry for id
func (s *Svc) Player(ctx context.Context, id int64) (domain.Player, error) {
	p, ok, err := s.Repo.Player(ctx, id)
	if err != nil {
		return domain.Player{}, err
	}
	if !ok {
		return domain.Player{}, perr.NotFoundf("player %d not found", id)
	}
	return p, nil
}

// Events pages through the plays id appears in, with the roles held
func (s *Svc) Events(ctx context.Context, id int64, w domain.Window) ([]domain.PlayerEvent, int, error) {
	if w.Limit <= 0 {
		w.Limit = DefaultLimit
	}
	if w.Limit > MaxLimit {
		return nil, 0, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "limit must be at most %d", MaxLimit), "limit")
	}
	if w.Offset < 0 {
		return nil, 0, perr.WithField(perr.New(perr.ErrorCodeValidation, "offset must not be negative"), "offset")
	}
	if _, err := s.Player(ctx, id); err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountEvents(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.Repo.Events(ctx, id, w.Limit, w.Offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]domain.PlayerEvent, 0, len(rows))
	for _, r := range rows {
		pe := domain.PlayerEvent{GamePk: r.GamePk, Event: r.Event}
		for _, p := range r.Event.Players {
			if p.PlayerID == id {
				pe.Roles = append(pe.Roles, p.Role)
			}
		}
		out = append(out, pe)
	}
	return out, total, nil
}
