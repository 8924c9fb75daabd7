// Package http provides meta endpoints
package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"rinkfeed/internal/core/version"
	"rinkfeed/internal/modkit/httpkit"
	"rinkfeed/internal/platform/store"
)

// Deps are the handler dependencies; PG and CH are pinged when they implement store.Pinger
type Deps struct {
	ServiceName  string
	StartedAt    time.Time
	PG           any
	CH           any
	ReadyTimeout time.Duration
}

type handlers struct{ deps Deps }

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok" example:"true"`
	Service string `json:"service" example:"rinkfeed-api"`
	Now     string `json:"now" example:"2026-10-16T13:05:00Z"`
}

// ReadyCheck is one dependency probe: ok, fail or skipped
type ReadyCheck struct {
	Name   string `json:"name" example:"pg"`
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness: ok, degraded or fail
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
}

// ServiceResponse describes the running process
type ServiceResponse struct {
	Name    string `json:"name" example:"rinkfeed-api"`
	Started string `json:"started" example:"2026-10-16T13:00:00Z"`
	Uptime  int64  `json:"uptime" example:"300"`
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(_ *stdhttp.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.deps.ServiceName, Now: time.Now().UTC().Format(time.RFC3339)}, nil
}

// @Summary Readiness with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Failure 503 {object} ReadyResponse "a dependency failed"
// @Router /meta/ready [get]
func (h *handlers) ready(r *stdhttp.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.deps.ReadyTimeout)
	defer cancel()

	checks := []ReadyCheck{probe(ctx, "pg", h.deps.PG), probe(ctx, "ch", h.deps.CH)}
	out := ReadyResponse{Status: "ok", Checks: checks}
	status := stdhttp.StatusOK
	for _, c := range checks {
		switch c.Status {
		case "fail":
			out.Status, status = "fail", stdhttp.StatusServiceUnavailable
		case "skipped":
			if out.Status == "ok" {
				out.Status = "degraded"
			}
		}
	}
	return httpkit.Response{Status: status, Body: out}, nil
}

func probe(ctx context.Context, name string, c any) ReadyCheck {
	p, ok := c.(store.Pinger)
	if c == nil || !ok {
		return ReadyCheck{Name: name, Status: "skipped"}
	}
	if err := p.Ping(ctx); err != nil {
		return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
	}
	return ReadyCheck{Name: name, Status: "ok"}
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *stdhttp.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h *handlers) service(_ *stdhttp.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}
