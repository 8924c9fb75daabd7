// Package http provides http transport for games
package http

import (
	stdhttp "net/http"

	"rinkfeed/internal/core/pbp"
	"rinkfeed/internal/modkit/httpkit"
	perr "rinkfeed/internal/platform/errors"
	"rinkfeed/internal/services/api/games/domain"
	svc "rinkfeed/internal/services/api/games/service"
)

// Register mounts games endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/{gamePk}/plays", h.plays)

	// live fetch and reconcile, nothing is stored
	httpkit.PostJSON(r, "/combine", h.combine)
}

type handlers struct{ svc svc.Service }

// @Summary Stored plays of a game
// @Tags Games
// @Produce json
// @Param gamePk path string true "game pk" example(2016020001)
// @Success 200 {object} domain.Plays "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /games/{gamePk}/plays [get]
func (h *handlers) plays(r *stdhttp.Request) (any, error) {
	g, err := pbp.ParseGamePk(httpkit.Param(r, "gamePk"))
	if err != nil {
		return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "gamePk must be ten digits like 2016020001"), "gamePk")
	}
	return h.svc.Plays(r.Context(), g.GamePk())
}

// @Summary Fetch and reconcile a game live
// @Tags Games
// @Accept json
// @Produce json
// @Param payload body domain.CombineInput true "Game"
// @Success 200 {object} domain.Combined "ok"
// @Failure 422 {object} httpkit.Envelope "documents do not reconcile"
// @Router /games/combine [post]
func (h *handlers) combine(r *stdhttp.Request, in domain.CombineInput) (any, error) {
	return h.svc.Combine(r.Context(), in)
}
