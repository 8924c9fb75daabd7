package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"rinkfeed/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpen_ParseError(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpen_NewPoolError(t *testing.T) {
	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	})
	if _, err := Open(context.Background(), Config{URL: "postgres://u:p@h:5432/db?sslmode=disable"}, nil, nil); err == nil {
		t.Fatalf("expected newPool error")
	}
}

func TestOpen_AppliesConfig(t *testing.T) {
	var seen *pgxpool.Config
	testkit.Swap(t, &newPool, func(_ context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = pc
		return &pgxpool.Pool{}, nil
	})

	cfg := Config{URL: "postgres://u:p@h:5432/db?sslmode=disable", MaxConns: 7, SlowMs: 250, AppName: "rinkfeed-test"}
	p, err := Open(context.Background(), cfg, nil, func(pc *pgxpool.Config) {
		pc.MaxConnIdleTime = 42 * time.Second
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if seen.MaxConns != 7 || seen.MaxConnIdleTime != 42*time.Second {
		t.Fatalf("pool config not applied: max=%d idle=%s", seen.MaxConns, seen.MaxConnIdleTime)
	}
	if got := seen.ConnConfig.RuntimeParams["application_name"]; got != "rinkfeed-test" {
		t.Fatalf("application_name = %q", got)
	}
	if p.SlowUS() != 250_000 {
		t.Fatalf("SlowUS = %d", p.SlowUS())
	}
}

func TestClose_NilSafe(t *testing.T) {
	var p *PG
	p.Close()
	if p.SlowUS() != -1 {
		t.Fatalf("nil SlowUS should disable slow marking")
	}
	(&PG{}).Close()
}
