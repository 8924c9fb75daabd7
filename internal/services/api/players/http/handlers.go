// Package http provides http transport for players
package http

import (
	stdhttp "net/http"
	"strconv"

	"rinkfeed/internal/modkit/httpkit"
	perr "rinkfeed/internal/platform/errors"
	"rinkfeed/internal/services/api/players/domain"
	svc "rinkfeed/internal/services/api/players/service"
)

// Register mounts players endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/{id}", h.player)
	httpkit.Get(r, "/{id}/events", h.events)
}

type handlers struct{ svc svc.Service }

// @Summary Stored roster entry
// @Tags Players
// @Produce json
// @Param id path int true "statsapi player id" example(8475172)
// @Success 200 {object} domain.Player "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /players/{id} [get]
func (h *handlers) player(r *stdhttp.Request) (any, error) {
	id, err := intParam(httpkit.Param(r, "id"), "id", 0)
	if err != nil {
		return nil, err
	}
	return h.svc.Player(r.Context(), int64(id))
}

// @Summary Plays a player took part in
// @Tags Players
// @Produce json
// @Param id path int true "statsapi player id" example(8475172)
// @Param limit query int false "page size, at most 500" default(50)
// @Param offset query int false "rows to skip" default(0)
// @Success 200 {array} domain.PlayerEvent "ok"
// @Router /players/{id}/events [get]
func (h *handlers) events(r *stdhttp.Request) (any, error) {
	id, err := intParam(httpkit.Param(r, "id"), "id", 0)
	if err != nil {
		return nil, err
	}
	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"), "limit", svc.DefaultLimit)
	if err != nil {
		return nil, err
	}
	offset, err := intParam(q.Get("offset"), "offset", 0)
	if err != nil {
		return nil, err
	}
	w := domain.Window{Limit: limit, Offset: offset}
	items, total, err := h.svc.Events(r.Context(), int64(id), w)
	if err != nil {
		return nil, err
	}
	return httpkit.List(items, httpkit.Page{Total: total, Limit: w.Limit, Offset: w.Offset}), nil
}

// intParam parses a path or query integer; blank yields def
func intParam(raw, field string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s must be an integer", field), field)
	}
	return n, nil
}
