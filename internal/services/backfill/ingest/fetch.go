// Package ingest holds adapter shims for the backfill ports
package ingest

import (
	"context"

	"rinkfeed/internal/adapters/ingest/nhl"
	"rinkfeed/internal/core/pbp"
	"rinkfeed/internal/modkit"
	"rinkfeed/internal/services/backfill/domain"
)

// fetcher implements domain.Fetcher on top of the nhl adapter
type fetcher struct{ f nhl.Fetcher }

// NewFetcher builds a domain.Fetcher from CORE_INGEST_* so the service never reads config
func NewFetcher(deps modkit.Deps) domain.Fetcher {
	return &fetcher{f: nhl.FromConfig(deps.Cfg).Fetcher()}
}

// FetcherFrom wraps an existing nhl.Fetcher
func FetcherFrom(f nhl.Fetcher) domain.Fetcher { return &fetcher{f: f} }

func (f *fetcher) FetchGame(ctx context.Context, g pbp.GameRef) (domain.Documents, error) {
	return nhl.FetchGame(ctx, f.f, g)
}
