// Package module wires games into the API using modkit
package module

import (
	"rinkfeed/internal/adapters/ingest/nhl"
	"rinkfeed/internal/core/pbp"
	"rinkfeed/internal/modkit"
	"rinkfeed/internal/modkit/httpkit"
	gameshttp "rinkfeed/internal/services/api/games/http"
	gamesrepo "rinkfeed/internal/services/api/games/repo"
	gamessvc "rinkfeed/internal/services/api/games/service"
)

// Module is the games API module
type Module struct {
	b   modkit.Built
	svc gamessvc.Service
}

// Ports is what other modules can pull out of games
type Ports struct {
	Games gamessvc.Service
}

// New builds the module. Combine uses the CORE_INGEST_ fetcher and tables
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	ingest := nhl.FromConfig(deps.Cfg)
	tables, err := ingest.Tables()
	if err != nil {
		return nil, err
	}
	svc := gamessvc.New(deps.PG, gamesrepo.NewPG(), ingest.Fetcher(), pbp.NewReconciler(tables))
	return NewWith(svc, opts...), nil
}

// NewWith builds the module around an existing service
func NewWith(svc gamessvc.Service, opts ...modkit.Option) *Module {
	m := &Module{svc: svc}
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("games"),
		modkit.WithPrefix("/games"),
		modkit.WithPorts(Ports{Games: svc}),
	}, opts...)...)

	external := b.Register
	b.Register = func(r httpkit.Router) {
		gameshttp.Register(r, m.svc)
		external(r)
	}
	m.b = b
	return m
}

// MountRoutes mounts the module under its prefix
func (m *Module) MountRoutes(r httpkit.Router) { m.b.Mount(r) }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Ports returns Ports
func (m *Module) Ports() any { return m.b.Ports }
