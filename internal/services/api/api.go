// Package api assembles the HTTP API: meta, games and players under /api/v1
package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rinkfeed/internal/modkit"
	"rinkfeed/internal/modkit/httpkit"
	"rinkfeed/internal/modkit/module"
	"rinkfeed/internal/modkit/swaggerkit"
	"rinkfeed/internal/platform/config"
	phttp "rinkfeed/internal/platform/net/http"
	"rinkfeed/internal/platform/net/middleware"

	gamesmod "rinkfeed/internal/services/api/games/module"
	metamod "rinkfeed/internal/services/api/meta/module"
	playersmod "rinkfeed/internal/services/api/players/module"
)

// BasePath is where versioned modules live
const BasePath = "/api/v1"

// Options are the API options, read from CORE_API_ by FromConfig
type Options struct {
	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
	SlowRequest    time.Duration

	// Gatherer backs /metrics; nil means the default registry
	Gatherer prometheus.Gatherer
}

// FromConfig reads CORE_API_SWAGGER, PROFILER, METRICS and SLOW_REQUEST
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_API_")
	return Options{
		EnableSwagger:  c.MayBool("SWAGGER", true),
		EnableProfiler: c.MayBool("PROFILER", false),
		EnableMetrics:  c.MayBool("METRICS", true),
		SlowRequest:    c.MayDuration("SLOW_REQUEST", 2*time.Second),
	}
}

// Modules builds the API modules from deps
func Modules(deps modkit.Deps) ([]module.Module, error) {
	games, err := gamesmod.New(deps)
	if err != nil {
		return nil, err
	}
	return []module.Module{
		metamod.New(deps),
		games,
		playersmod.New(deps),
	}, nil
}

// Mount installs the root middleware and every route on r
func Mount(r phttp.Router, opt Options, mods []module.Module) {
	r.Use(middleware.Defaults(opt.SlowRequest)...)

	r.Get("/api", hello)
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	swaggerkit.Mount(r, BasePath, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	phttp.MountMetrics(r, "/metrics", opt.Gatherer, opt.EnableMetrics)
}

func hello(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello world!"))
}
