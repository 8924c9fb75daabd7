// Package module wires the backfill adapters and service
package module

import (
	"github.com/prometheus/client_golang/prometheus"

	"rinkfeed/internal/modkit"
	"rinkfeed/internal/services/backfill/domain"
	"rinkfeed/internal/services/backfill/guardrails"
	"rinkfeed/internal/services/backfill/ingest"
	"rinkfeed/internal/services/backfill/repo"
	"rinkfeed/internal/services/backfill/service"
)

// Ports defines the backfill module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the backfill module
type Module struct {
	deps  modkit.Deps
	svc   *service.Service
	ports Ports
}

// New wires the adapters and the service from deps.Cfg.
// reg receives the backfill collectors; nil skips registration
func New(deps modkit.Deps, reg prometheus.Registerer) (*Module, error) {
	opts := FromConfig(deps.Cfg)

	tr, err := ingest.NewTransformer(deps)
	if err != nil {
		return nil, err
	}

	svc := service.New(
		deps.PG, repo.NewPG(),
		ingest.NewFetcher(deps), tr,
		service.Config{
			Workers:       opts.Workers,
			DelayPerGame:  opts.DelayPerGame,
			MaxRetries:    opts.MaxRetries,
			RetryBase:     opts.RetryBase,
			FetchTimeout:  opts.FetchTimeout,
			GameTimeout:   opts.GameTimeout,
			DBTimeout:     opts.DBTimeout,
			MaxRangeGames: opts.MaxRangeGames,
			EnableLeases:  opts.EnableLeases,
		},
		guardrails.MakeAdvisoryLease(deps.PG),
	)
	svc.Metrics = service.NewMetrics(reg)
	if opts.ClickHouse {
		svc.Sink = ingest.NewEventSink(deps.CH)
	}
	svc.Archive = ingest.NewArchive(opts.OutDir)

	return &Module{deps: deps, svc: svc, ports: Ports{Runner: svc}}, nil
}

// Name returns the module name
func (m *Module) Name() string { return "backfill" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// RunID is the id stamped on every ledger row of this process
func (m *Module) RunID() string { return m.svc.RunID() }
