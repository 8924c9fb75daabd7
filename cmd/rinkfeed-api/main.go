// @title         rinkfeed API
// @version       0.1.0
// @description   Reconciled NHL play by play

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"rinkfeed/internal/modkit"
	"rinkfeed/internal/platform/config"
	"rinkfeed/internal/platform/logger"
	phttp "rinkfeed/internal/platform/net/http"
	"rinkfeed/internal/platform/store"

	"rinkfeed/internal/services/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	l := logger.Get()

	chOn := root.Prefix("SERVICE_CLICKHOUSE_").MayBool("ENABLED", false)
	st, err := store.Open(ctx, store.ConfigFrom(root, "api", chOn), store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if err := st.Guard(ctx); err != nil {
		l.Fatal().Err(err).Msg("store not reachable")
	}

	mods, err := api.Modules(modkit.FromStore(st, root))
	if err != nil {
		l.Fatal().Err(err).Msg("api wiring failed")
	}

	// CORE_API_API_PORT, CORE_API_SHUTDOWN_TIMEOUT
	srv := phttp.NewServer(root.Prefix("CORE_API_"))
	api.Mount(srv.Router(), api.FromConfig(root), mods)

	if err := srv.Run(ctx); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
}
