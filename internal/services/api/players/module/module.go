// Package module wires players into the API using modkit
package module

import (
	"rinkfeed/internal/modkit"
	"rinkfeed/internal/modkit/httpkit"
	playershttp "rinkfeed/internal/services/api/players/http"
	playersrepo "rinkfeed/internal/services/api/players/repo"
	playerssvc "rinkfeed/internal/services/api/players/service"
)

// Module is the players API module
type Module struct {
	b   modkit.Built
	svc playerssvc.Service
}

// Ports is what other modules can pull out of players
type Ports struct {
	Players playerssvc.Service
}

// New builds the module on the postgres read model
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	return NewWith(playerssvc.New(deps.PG, playersrepo.NewPG()), opts...)
}

// NewWith builds the module around an existing service
func NewWith(svc playerssvc.Service, opts ...modkit.Option) *Module {
	m := &Module{svc: svc}
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("players"),
		modkit.WithPrefix("/players"),
		modkit.WithPorts(Ports{Players: svc}),
	}, opts...)...)

	external := b.Register
	b.Register = func(r httpkit.Router) {
		playershttp.Register(r, m.svc)
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
