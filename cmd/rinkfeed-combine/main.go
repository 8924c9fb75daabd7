package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"rinkfeed/internal/adapters/ingest/nhl"
	"rinkfeed/internal/core/pbp"
	"rinkfeed/internal/platform/config"
	"rinkfeed/internal/platform/logger"
	"rinkfeed/internal/services/backfill/ingest"
)

func main() {
	var (
		fSeason = flag.Int("season", 0, "first year of the season, e.g. 2016")
		fGame   = flag.Int("game", 0, "game number, e.g. 20001")
		fOut    = flag.String("out", ".", "directory for <gamePk>-pbp.json")
	)
	flag.Parse()

	l := logger.Get()
	if *fSeason == 0 || *fGame == 0 {
		l.Fatal().Msg("-season and -game are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := nhl.FromConfig(config.New())
	tables, err := opts.Tables()
	if err != nil {
		l.Fatal().Err(err).Msg("load tables")
	}

	g := pbp.GameRef{Season: *fSeason, Number: *fGame}
	docs, err := nhl.FetchGame(ctx, opts.Fetcher(), g)
	if err != nil {
		l.Fatal().Err(err).Str("game", g.String()).Msg("fetch failed")
	}
	res, err := pbp.NewReconciler(tables).Reconcile(g, docs.Report, docs.Feed)
	if err != nil {
		l.Fatal().Err(err).Str("game", g.String()).Msg("reconcile failed")
	}

	if err := os.MkdirAll(*fOut, 0o755); err != nil {
		l.Fatal().Err(err).Msg("create out dir")
	}
	path := filepath.Join(*fOut, ingest.ArchiveName(g))
	if err := os.WriteFile(path, res.Feed, 0o644); err != nil {
		l.Fatal().Err(err).Str("path", path).Msg("write failed")
	}
	l.Info().Str("path", path).Int("events", len(res.Events)).Int("cache_hits", docs.CacheHits).Msg("combined")
}
