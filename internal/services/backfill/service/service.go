// Package service provides the game backfill
package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"rinkfeed/internal/modkit/repokit"
	perr "rinkfeed/internal/platform/errors"
	"rinkfeed/internal/platform/logger"
	"rinkfeed/internal/services/backfill/domain"
	"rinkfeed/internal/services/backfill/guardrails"
)

// Config holds the backfill knobs
type Config struct {
	Workers      int           // parallel games; <=0 -> 1
	DelayPerGame time.Duration // optional pause after each game, per worker

	MaxRetries int           // attempts per game; <=0 -> 1
	RetryBase  time.Duration // backoff base; <=0 -> 500ms

	FetchTimeout time.Duration
	GameTimeout  time.Duration
	DBTimeout    time.Duration

	MaxRangeGames int // 0 = unlimited
	EnableLeases  bool
}

// ErrSomeGamesFailed is returned when a run finished but left failed games behind
var ErrSomeGamesFailed = errors.New("backfill: some games failed")

// Service runs the fetch, reconcile, persist loop over the ingest_games queue
type Service struct {
	DB        repokit.TxRunner
	Binder    repokit.Binder[domain.StorageRepo]
	Fetch     domain.Fetcher
	Transform domain.Transformer
	Sink      domain.EventSink // optional
	Archive   domain.Archive   // optional
	Metrics   *Metrics
	Cfg       Config

	// Lease takes a game scoped claim and runs do
	Lease guardrails.LeaseFunc

	runID string
}

// New constructs the backfill service. Each Service carries one run id
func New(
	db repokit.TxRunner,
	binder repokit.Binder[domain.StorageRepo],
	f domain.Fetcher,
	tr domain.Transformer,
	cfg Config,
	lease guardrails.LeaseFunc,
) *Service {
	if db == nil {
		panic("backfill.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("backfill.Service requires a non nil Repo binder")
	}
	return &Service{
		DB: db, Binder: binder,
		Fetch: f, Transform: tr,
		Metrics: NewMetrics(nil),
		Cfg:     cfg,
		Lease:   lease,
		runID:   uuid.NewString(),
	}
}

// RunID identifies this process in ledger rows and logs
func (s *Service) RunID() string { return s.runID }

func rangeGames(season, from, to int) ([]domain.GameRef, error) {
	if season < 1917 || from <= 0 || to > 999_999 {
		return nil, perr.InvalidArgf("backfill: bad range season=%d %d..%d", season, from, to)
	}
	if to < from {
		return nil, perr.InvalidArgf("backfill: range end %d before start %d", to, from)
	}
	out := make([]domain.GameRef, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, domain.GameRef{Season: season, Number: n})
	}
	return out, nil
}

// PlanRange seeds ingest_games without processing and returns how many rows were queued
func (s *Service) PlanRange(ctx context.Context, season, from, to int) (int, error) {
	games, err := rangeGames(season, from, to)
	if err != nil {
		return 0, err
	}
	if s.Cfg.MaxRangeGames > 0 && len(games) > s.Cfg.MaxRangeGames {
		return 0, perr.InvalidArgf("backfill: range of %d games exceeds %d", len(games), s.Cfg.MaxRangeGames)
	}
	var n int
	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		applyTxTuning(ctx, q)
		seeded, err := s.Binder.Bind(q).PreseedGames(ctx, games)
		n = seeded
		return err
	})
	return n, err
}

// RunRange seeds the range and drains it with a worker pool
func (s *Service) RunRange(ctx context.Context, season, from, to int) error {
	n, err := s.PlanRange(ctx, season, from, to)
	if err != nil {
		return err
	}
	logger.C(ctx).Info().Int("season", season).Int("from", from).Int("to", to).Int("queued", n).
		Str("run_id", s.runID).Msg("backfill: range planned")

	return s.drain(ctx, func(ctx context.Context) (domain.GameRef, bool, error) {
		return s.claim(ctx, func(r domain.StorageRepo) (domain.GameRef, bool, error) {
			return r.NextGame(ctx, season, from, to)
		})
	})
}

// RunResume requeues failed games then drains every pending game regardless of season
func (s *Service) RunResume(ctx context.Context) error {
	var requeued int
	if err := repokit.WithTx(ctx, s.DB, s.Binder, func(r domain.StorageRepo) error {
		n, err := r.RequeueFailed(ctx)
		requeued = n
		return err
	}); err != nil {
		return err
	}
	logger.C(ctx).Info().Int("requeued", requeued).Str("run_id", s.runID).Msg("backfill: resume")

	return s.drain(ctx, func(ctx context.Context) (domain.GameRef, bool, error) {
		return s.claim(ctx, func(r domain.StorageRepo) (domain.GameRef, bool, error) {
			return r.NextGameAny(ctx)
		})
	})
}

type nextFunc func(ctx context.Context) (domain.GameRef, bool, error)

// drain runs Workers loops that claim and process games until next reports none
func (s *Service) drain(ctx context.Context, next nextFunc) error {
	w := max(s.Cfg.Workers, 1)
	var fails atomic.Int64
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for {
			if ctx.Err() != nil {
				return
			}
			g, ok, err := next(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.C(ctx).Error().Err(err).Msg("backfill: claim next game failed")
				fails.Add(1)
				_ = sleepCtx(ctx, 500*time.Millisecond)
				continue
			}
			if !ok {
				return
			}
			if err := s.runGameWithRetry(ctx, g); err != nil {
				logger.C(ctx).Error().Int64("game_pk", g.GamePk()).Err(err).Msg("backfill: game failed")
				fails.Add(1)
			}
			if s.Cfg.DelayPerGame > 0 {
				_ = sleepCtx(ctx, s.Cfg.DelayPerGame)
			}
		}
	}

	for range w {
		wg.Add(1)
		go worker()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if fails.Load() > 0 {
		return ErrSomeGamesFailed
	}
	return nil
}

func (s *Service) claim(ctx context.Context, fn func(domain.StorageRepo) (domain.GameRef, bool, error)) (domain.GameRef, bool, error) {
	var g domain.GameRef
	var ok bool
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		applyTxTuning(ctx, q)
		var e error
		g, ok, e = fn(s.Binder.Bind(q))
		return e
	})
	return g, ok, err
}

// RunGame processes a single game outside the queue (used by the combine flow and tests)
func (s *Service) RunGame(ctx context.Context, g domain.GameRef) error {
	return s.runGameWithRetry(ctx, g)
}

// runGameWithRetry holds one lease for every attempt of g in this run
func (s *Service) runGameWithRetry(ctx context.Context, g domain.GameRef) error {
	if s.Lease == nil || !s.Cfg.EnableLeases {
		return s.retryGame(ctx, g)
	}
	err := s.Lease(ctx, g, s.runID, func(ctx context.Context) error { return s.retryGame(ctx, g) })
	if errors.Is(err, guardrails.ErrLeaseHeld) {
		return s.leaseHeld(ctx, g)
	}
	return err
}

// leaseHeld closes out a claimed row whose lease this run already holds,
// so it does not stay running. -resume picks it up again
func (s *Service) leaseHeld(ctx context.Context, g domain.GameRef) error {
	held := perr.Conflictf("backfill: lease on %s already held by run %s", g, s.runID)
	fin := domain.GameFinish{
		RunID:   s.runID,
		Status:  domain.StatusError,
		ErrCode: perr.CodeOf(held).String(),
		ErrText: held.Error(),
	}
	tos := guardrails.Timeouts{DB: s.Cfg.DBTimeout}
	if err := s.withRepo(ctx, tos, func(r domain.StorageRepo) error { return r.FinishGame(ctx, g, fin) }); err != nil {
		logger.C(ctx).Warn().Int64("game_pk", g.GamePk()).Err(err).Msg("backfill: finish ledger row failed")
	}
	s.Metrics.Games.WithLabelValues(fin.Status).Inc()
	return held
}

func (s *Service) retryGame(ctx context.Context, g domain.GameRef) error {
	attempts := max(s.Cfg.MaxRetries, 1)
	base := s.Cfg.RetryBase
	if base <= 0 {
		base = 500 * time.Millisecond
	}

	var last error
	for i := range attempts {
		err := s.runGame(ctx, g)
		if err == nil {
			return nil
		}
		last = err
		if !perr.Retryable(err) || i == attempts-1 {
			break
		}

		// exponential backoff with jitter, capped at 30s
		d := min(base<<i, 30*time.Second)
		j := d/2 + time.Duration(rand.Int63n(int64(d/2)+1))
		logger.C(ctx).Warn().Int64("game_pk", g.GamePk()).Int("attempt", i+1).Dur("backoff", j).Err(err).
			Msg("backfill: retrying game")
		if se := sleepCtx(ctx, j); se != nil {
			return se
		}
	}
	return last
}

func (s *Service) runGame(ctx context.Context, g domain.GameRef) (retErr error) {
	tos := guardrails.Timeouts{Game: s.Cfg.GameTimeout, Fetch: s.Cfg.FetchTimeout, DB: s.Cfg.DBTimeout}
	gameCtx, cancel := guardrails.WithGame(logger.WithGame(ctx, g.GamePk(), s.runID), tos)
	defer cancel()
	log := logger.C(gameCtx)

	startWall := time.Now()
	fin := domain.GameFinish{RunID: s.runID}

	// best effort; the claim already flipped the row to running
	s.withRepo(gameCtx, tos, func(r domain.StorageRepo) error { return r.StartGame(gameCtx, g, s.runID) })

	defer func() {
		fin.ElapsedMS = int(time.Since(startWall).Milliseconds())
		fin.Status = domain.StatusOK
		if retErr != nil {
			fin.Status = domain.StatusError
			fin.ErrCode = perr.CodeOf(retErr).String()
			fin.ErrText = retErr.Error()
		}
		finCtx := context.WithoutCancel(gameCtx)
		if err := s.withRepo(finCtx, tos, func(r domain.StorageRepo) error { return r.FinishGame(finCtx, g, fin) }); err != nil {
			log.Warn().Err(err).Msg("backfill: finish ledger row failed")
		}
		s.Metrics.Games.WithLabelValues(fin.Status).Inc()
		s.Metrics.GameSeconds.Observe(time.Since(startWall).Seconds())

		ev := log.Info()
		if retErr != nil {
			ev = log.Warn().Err(retErr)
		}
		ev.Int("events", fin.Events).Int("cache_hits", fin.CacheHits).
			Int("fetch_ms", fin.FetchMS).Int("transform_ms", fin.TransformMS).
			Int("db_ms", fin.DBMS).Int("sink_ms", fin.SinkMS).Int("elapsed_ms", fin.ElapsedMS).
			Msg("backfill: game done")
	}()

	// fetch
	t0 := time.Now()
	fetchCtx, fetchCancel := guardrails.ForFetch(gameCtx, tos)
	docs, err := s.Fetch.FetchGame(fetchCtx, g)
	fetchCancel()
	fin.FetchMS = int(time.Since(t0).Milliseconds())
	if err != nil {
		if gameCtx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return perr.Unavailablef("backfill: fetch of %s exceeded %s", g, tos.Fetch)
		}
		return err
	}
	fin.CacheHits, fin.ReportBytes, fin.FeedBytes = docs.CacheHits, len(docs.Report), len(docs.Feed)

	// transform
	t1 := time.Now()
	res, err := s.Transform.Reconcile(g, docs.Report, docs.Feed)
	fin.TransformMS = int(time.Since(t1).Milliseconds())
	if err != nil {
		return err
	}
	fin.Events, fin.Players = len(res.Events), len(res.Roster)

	rec := domain.GameRecord{
		Game: g, RunID: s.runID, Away: res.Away, Home: res.Home,
		Roster: res.Roster, Events: res.Events,
	}

	// persist
	t2 := time.Now()
	err = s.withRepo(gameCtx, tos, func(r domain.StorageRepo) error { return r.ReplaceGame(gameCtx, rec) })
	fin.DBMS = int(time.Since(t2).Milliseconds())
	if err != nil {
		return perr.FromPostgres(err, "store "+g.String())
	}
	s.Metrics.Plays.Add(float64(len(rec.Events)))

	// optional sinks
	t3 := time.Now()
	if s.Sink != nil {
		if err := s.Sink.WriteGame(gameCtx, rec); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "clickhouse events for %s", g)
		}
	}
	if s.Archive != nil {
		if err := s.Archive.Write(g, res.Feed); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "archive feed for %s", g)
		}
	}
	fin.SinkMS = int(time.Since(t3).Milliseconds())
	return nil
}

// withRepo runs fn in a DB-bounded transaction
func (s *Service) withRepo(ctx context.Context, tos guardrails.Timeouts, fn func(domain.StorageRepo) error) error {
	dbCtx, cancel := guardrails.ForDB(ctx, tos)
	defer cancel()
	return s.DB.Tx(dbCtx, func(q repokit.Queryer) error {
		applyTxTuning(dbCtx, q)
		return fn(s.Binder.Bind(q))
	})
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SET LOCAL only lives for the duration of the current transaction
func applyTxTuning(ctx context.Context, q repokit.Queryer) {
	_, _ = q.Exec(ctx, "SET LOCAL statement_timeout = 0")
}
