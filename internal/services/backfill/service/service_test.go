package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"rinkfeed/internal/core/pbp"
	"rinkfeed/internal/modkit/repokit"
	perr "rinkfeed/internal/platform/errors"
	"rinkfeed/internal/platform/store"
	"rinkfeed/internal/services/backfill/domain"
	"rinkfeed/internal/services/backfill/guardrails"
)

// memRepo is an in-memory ingest ledger shared by every bound transaction
type memRepo struct {
	mu       sync.Mutex
	status   map[int64]string
	refs     map[int64]domain.GameRef
	finishes map[int64][]domain.GameFinish
	replaced map[int64]domain.GameRecord
	started  int
}

func newMemRepo() *memRepo {
	return &memRepo{
		status:   map[int64]string{},
		refs:     map[int64]domain.GameRef{},
		finishes: map[int64][]domain.GameFinish{},
		replaced: map[int64]domain.GameRecord{},
	}
}

func (m *memRepo) PreseedGames(_ context.Context, games []domain.GameRef) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, g := range games {
		st, ok := m.status[g.GamePk()]
		if !ok || st == domain.StatusError {
			m.status[g.GamePk()] = domain.StatusPending
			m.refs[g.GamePk()] = g
			n++
		}
	}
	return n, nil
}

func (m *memRepo) next(match func(domain.GameRef) bool) (domain.GameRef, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pks := make([]int64, 0, len(m.status))
	for pk, st := range m.status {
		if st == domain.StatusPending && match(m.refs[pk]) {
			pks = append(pks, pk)
		}
	}
	if len(pks) == 0 {
		return domain.GameRef{}, false, nil
	}
	sort.Slice(pks, func(i, j int) bool { return pks[i] < pks[j] })
	m.status[pks[0]] = domain.StatusRunning
	return m.refs[pks[0]], true, nil
}

func (m *memRepo) NextGame(_ context.Context, season, from, to int) (domain.GameRef, bool, error) {
	return m.next(func(g domain.GameRef) bool { return g.Season == season && g.Number >= from && g.Number <= to })
}

func (m *memRepo) NextGameAny(context.Context) (domain.GameRef, bool, error) {
	return m.next(func(domain.GameRef) bool { return true })
}

func (m *memRepo) RequeueFailed(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for pk, st := range m.status {
		if st == domain.StatusError {
			m.status[pk] = domain.StatusPending
			n++
		}
	}
	return n, nil
}

func (m *memRepo) StartGame(context.Context, domain.GameRef, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
	return nil
}

func (m *memRepo) FinishGame(_ context.Context, g domain.GameRef, fin domain.GameFinish) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status[g.GamePk()] = fin.Status
	m.finishes[g.GamePk()] = append(m.finishes[g.GamePk()], fin)
	return nil
}

func (m *memRepo) ReplaceGame(_ context.Context, rec domain.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaced[rec.Game.GamePk()] = rec
	return nil
}

// memDB runs every transaction against a no-op queryer
type memDB struct{ noopQ }

func (memDB) Tx(_ context.Context, fn func(q store.RowQuerier) error) error { return fn(noopQ{}) }

type noopQ struct{}

func (noopQ) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (noopQ) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (noopQ) QueryRow(context.Context, string, ...any) store.Row             { return nil }

// scriptFetcher fails the first failures[pk] attempts of a game with err
type scriptFetcher struct {
	mu       sync.Mutex
	failures map[int64]int
	err      error
	calls    map[int64]int
}

func (f *scriptFetcher) FetchGame(_ context.Context, g domain.GameRef) (domain.Documents, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[int64]int{}
	}
	f.calls[g.GamePk()]++
	if f.calls[g.GamePk()] <= f.failures[g.GamePk()] {
		return domain.Documents{}, f.err
	}
	return domain.Documents{Game: g, Report: []byte("<html/>"), Feed: []byte("{}"), CacheHits: 1}, nil
}

type stubTransform struct{ err error }

func (s stubTransform) Reconcile(g domain.GameRef, _, _ []byte) (*pbp.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &pbp.Result{
		Game: g, Away: "tor", Home: "mtl",
		Events: []pbp.Event{{ID: 1, Period: 1, Type: pbp.CategoryPeriodStart}, {ID: 2, Period: 1, Type: pbp.CategoryFaceoff}},
		Roster: []pbp.RosterPlayer{{Team: "tor", ID: 8471, Name: "A Player"}},
		Feed:   []byte(`{"liveData":{}}`),
	}, nil
}

type recSink struct {
	mu   sync.Mutex
	pks  []int64
	feed map[int64][]byte
}

func (r *recSink) WriteGame(_ context.Context, rec domain.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pks = append(r.pks, rec.Game.GamePk())
	return nil
}

func (r *recSink) Write(g domain.GameRef, feed []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.feed == nil {
		r.feed = map[int64][]byte{}
	}
	r.feed[g.GamePk()] = feed
	return nil
}

func newTestService(repo *memRepo, f domain.Fetcher, tr domain.Transformer, cfg Config) *Service {
	binder := repokit.BindFunc[domain.StorageRepo](func(repokit.Queryer) domain.StorageRepo { return repo })
	s := New(memDB{}, binder, f, tr, cfg, nil)
	s.Metrics = NewMetrics(prometheus.NewRegistry())
	return s
}

func TestRunRangeProcessesEveryGame(t *testing.T) {
	repo := newMemRepo()
	sink := &recSink{}
	s := newTestService(repo, &scriptFetcher{}, stubTransform{}, Config{Workers: 3})
	s.Sink, s.Archive = sink, sink

	if err := s.RunRange(context.Background(), 2016, 20001, 20005); err != nil {
		t.Fatalf("run range: %v", err)
	}
	if len(repo.replaced) != 5 || len(sink.pks) != 5 || len(sink.feed) != 5 {
		t.Fatalf("replaced=%d sunk=%d archived=%d", len(repo.replaced), len(sink.pks), len(sink.feed))
	}
	for pk, st := range repo.status {
		if st != domain.StatusOK {
			t.Fatalf("game %d status %s", pk, st)
		}
	}
	rec := repo.replaced[2016020003]
	if rec.Home != "mtl" || rec.RunID != s.RunID() || len(rec.Events) != 2 {
		t.Fatalf("unexpected record %+v", rec)
	}
	fin := repo.finishes[2016020003][0]
	if fin.Events != 2 || fin.Players != 1 || fin.CacheHits != 1 || fin.ErrText != "" {
		t.Fatalf("unexpected finish %+v", fin)
	}
	if got := testutil.ToFloat64(s.Metrics.Games.WithLabelValues(domain.StatusOK)); got != 5 {
		t.Fatalf("games ok counter %v", got)
	}
	if got := testutil.ToFloat64(s.Metrics.Plays); got != 10 {
		t.Fatalf("plays counter %v", got)
	}
}

func TestRetryableFetchIsRetried(t *testing.T) {
	repo := newMemRepo()
	f := &scriptFetcher{failures: map[int64]int{2016020001: 2}, err: perr.Unavailablef("upstream 503")}
	s := newTestService(repo, f, stubTransform{}, Config{MaxRetries: 3, RetryBase: 1})

	if err := s.RunRange(context.Background(), 2016, 20001, 20001); err != nil {
		t.Fatalf("run: %v", err)
	}
	if f.calls[2016020001] != 3 {
		t.Fatalf("fetch calls %d want 3", f.calls[2016020001])
	}
	fins := repo.finishes[2016020001]
	if len(fins) != 3 || fins[0].Status != domain.StatusError || fins[0].ErrCode != "unavailable" || fins[2].Status != domain.StatusOK {
		t.Fatalf("unexpected ledger history %+v", fins)
	}
}

func TestTerminalFailureIsNotRetried(t *testing.T) {
	repo := newMemRepo()
	f := &scriptFetcher{}
	fail := &pbp.Failure{Kind: pbp.ErrUnsupportedEventCode, EventID: 7, Detail: "code XYZ"}
	s := newTestService(repo, f, stubTransform{err: fail}, Config{MaxRetries: 5, RetryBase: 1})

	err := s.RunRange(context.Background(), 2016, 20001, 20002)
	if !errors.Is(err, ErrSomeGamesFailed) {
		t.Fatalf("expected ErrSomeGamesFailed, got %v", err)
	}
	if f.calls[2016020001] != 1 {
		t.Fatalf("terminal failure retried %d times", f.calls[2016020001])
	}
	if len(repo.replaced) != 0 {
		t.Fatalf("failed games must not be persisted")
	}
	fin := repo.finishes[2016020002][0]
	if fin.Status != domain.StatusError || fin.ErrCode != "invalid_argument" {
		t.Fatalf("unexpected finish %+v", fin)
	}
	if got := testutil.ToFloat64(s.Metrics.Games.WithLabelValues(domain.StatusError)); got != 2 {
		t.Fatalf("error counter %v", got)
	}
}

func TestRunResumeRequeuesFailed(t *testing.T) {
	repo := newMemRepo()
	g := domain.GameRef{Season: 2017, Number: 30111}
	repo.status[g.GamePk()], repo.refs[g.GamePk()] = domain.StatusError, g

	s := newTestService(repo, &scriptFetcher{}, stubTransform{}, Config{Workers: 2})
	if err := s.RunResume(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if repo.status[g.GamePk()] != domain.StatusOK {
		t.Fatalf("status %s", repo.status[g.GamePk()])
	}
}

func TestLeaseHeldFinishesClaimedRow(t *testing.T) {
	repo := newMemRepo()
	f := &scriptFetcher{}
	s := newTestService(repo, f, stubTransform{}, Config{Workers: 1, EnableLeases: true})
	s.Lease = func(context.Context, domain.GameRef, string, func(context.Context) error) error {
		return guardrails.ErrLeaseHeld
	}

	err := s.RunRange(context.Background(), 2016, 20001, 20001)
	if !errors.Is(err, ErrSomeGamesFailed) {
		t.Fatalf("expected ErrSomeGamesFailed, got %v", err)
	}
	if len(f.calls) != 0 {
		t.Fatalf("held lease must not fetch")
	}
	pk := domain.GameRef{Season: 2016, Number: 20001}.GamePk()
	if st := repo.status[pk]; st != domain.StatusError {
		t.Fatalf("claimed row left %q, want error", st)
	}
	fins := repo.finishes[pk]
	if len(fins) != 1 || fins[0].ErrCode != "conflict" || fins[0].RunID != s.RunID() {
		t.Fatalf("unexpected ledger history %+v", fins)
	}

	// a resumed run gets the game back
	s.Lease = nil
	if err := s.RunResume(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if st := repo.status[pk]; st != domain.StatusOK {
		t.Fatalf("status after resume %q", st)
	}
}

func TestLeaseHeldOnDirectRun(t *testing.T) {
	s := newTestService(newMemRepo(), &scriptFetcher{}, stubTransform{}, Config{EnableLeases: true})
	s.Lease = func(context.Context, domain.GameRef, string, func(context.Context) error) error {
		return guardrails.ErrLeaseHeld
	}
	err := s.RunGame(context.Background(), domain.GameRef{Season: 2016, Number: 20001})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestRetriesRunUnderOneLease(t *testing.T) {
	repo := newMemRepo()
	f := &scriptFetcher{failures: map[int64]int{2016020001: 2}, err: perr.Unavailablef("upstream 503")}
	s := newTestService(repo, f, stubTransform{}, Config{MaxRetries: 3, RetryBase: 1, EnableLeases: true})

	var leases int
	held := map[int64]bool{}
	s.Lease = func(ctx context.Context, g domain.GameRef, _ string, do func(context.Context) error) error {
		leases++
		if held[g.GamePk()] {
			return guardrails.ErrLeaseHeld
		}
		held[g.GamePk()] = true
		return do(ctx)
	}

	if err := s.RunRange(context.Background(), 2016, 20001, 20001); err != nil {
		t.Fatalf("run: %v", err)
	}
	if leases != 1 || f.calls[2016020001] != 3 {
		t.Fatalf("leases=%d fetches=%d, want 1 and 3", leases, f.calls[2016020001])
	}
	if st := repo.status[2016020001]; st != domain.StatusOK {
		t.Fatalf("status %q", st)
	}
}

func TestPlanRangeValidation(t *testing.T) {
	s := newTestService(newMemRepo(), &scriptFetcher{}, stubTransform{}, Config{MaxRangeGames: 10})
	cases := []struct {
		name             string
		season, from, to int
	}{
		{"reversed", 2016, 20010, 20001},
		{"zero start", 2016, 0, 5},
		{"too wide", 2016, 20001, 20100},
		{"bad season", 16, 20001, 20002},
	}
	for _, tc := range cases {
		if _, err := s.PlanRange(context.Background(), tc.season, tc.from, tc.to); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("%s: expected invalid argument, got %v", tc.name, err)
		}
	}
	n, err := s.PlanRange(context.Background(), 2016, 20001, 20003)
	if err != nil || n != 3 {
		t.Fatalf("plan: n=%d err=%v", n, err)
	}
}

func TestCanceledContextStopsDrain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newTestService(newMemRepo(), &scriptFetcher{}, stubTransform{}, Config{Workers: 2})
	if err := s.RunResume(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}
