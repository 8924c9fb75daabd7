// Package module wires meta endpoints into the API
package module

import (
	"time"

	"rinkfeed/internal/modkit"
	"rinkfeed/internal/modkit/httpkit"
	metahttp "rinkfeed/internal/services/api/meta/http"
)

// ServiceName is reported by the meta endpoints
const ServiceName = "rinkfeed-api"

// Module is the meta module
type Module struct {
	b modkit.Built
}

// New builds the meta module; CH is probed only when configured
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	d := metahttp.Deps{ServiceName: ServiceName, StartedAt: time.Now()}
	if deps.PG != nil {
		d.PG = deps.PG
	}
	if deps.CH != nil {
		d.CH = deps.CH
	}

	external := b.Register
	b.Register = func(r httpkit.Router) {
		metahttp.Register(r, d)
		external(r)
	}
	return &Module{b: b}
}

// MountRoutes mounts the module under its prefix
func (m *Module) MountRoutes(r httpkit.Router) { m.b.Mount(r) }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Ports returns nil; meta exposes nothing
func (m *Module) Ports() any { return nil }
