package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"rinkfeed/internal/modkit"
	"rinkfeed/internal/platform/config"
	"rinkfeed/internal/platform/logger"
	"rinkfeed/internal/platform/store"

	backfillmod "rinkfeed/internal/services/backfill/module"
	"rinkfeed/internal/services/backfill/service"
)

func main() {
	var (
		fSeason   = flag.Int("season", 0, "first year of the season, e.g. 2016 for 2016-17")
		fFrom     = flag.Int("from", 0, "first game number, e.g. 20001")
		fTo       = flag.Int("to", 0, "last game number inclusive, e.g. 21230")
		fPlanOnly = flag.Bool("plan-only", false, "seed ingest_games for the range and exit")
		fResume   = flag.Bool("resume", false, "ignore the range and drain pending and failed games")
	)
	flag.Parse()

	l := logger.Get()
	if *fPlanOnly && *fResume {
		l.Fatal().Msg("-plan-only and -resume are mutually exclusive")
	}
	if !*fResume && (*fSeason == 0 || *fFrom == 0 || *fTo == 0) {
		l.Fatal().Msg("-season, -from and -to are required unless -resume")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	bfOpts := backfillmod.FromConfig(root)
	st, err := store.Open(ctx, store.ConfigFrom(root, "backfill", bfOpts.ClickHouse), store.WithLogger(*l))
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

	bf, err := backfillmod.New(modkit.FromStore(st, root), prometheus.DefaultRegisterer)
	if err != nil {
		l.Fatal().Err(err).Msg("backfill wiring failed")
	}
	runner := bf.Ports().(backfillmod.Ports).Runner
	l.Info().Str("run_id", bf.RunID()).Msg("backfill starting")

	switch {
	case *fPlanOnly:
		n, err := runner.PlanRange(ctx, *fSeason, *fFrom, *fTo)
		if err != nil {
			l.Fatal().Err(err).Msg("backfill plan-only failed")
		}
		l.Info().Int("queued", n).Msg("backfill planned")
		return
	case *fResume:
		err = runner.RunResume(ctx)
	default:
		err = runner.RunRange(ctx, *fSeason, *fFrom, *fTo)
	}

	switch {
	case err == nil:
		l.Info().Msg("backfill done")
	case errors.Is(err, service.ErrSomeGamesFailed):
		l.Warn().Err(err).Msg("backfill finished with failures; rerun with -resume")
		os.Exit(2)
	default:
		l.Fatal().Err(err).Msg("backfill failed")
	}
}
