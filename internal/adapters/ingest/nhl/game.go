package nhl

import (
	"context"
	"io"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"rinkfeed/internal/core/pbp"
	perr "rinkfeed/internal/platform/errors"
)

// MaxDocumentBytes bounds a single document read
const MaxDocumentBytes = 16 << 20

// Documents are the raw inputs of one game
type Documents struct {
	Game      pbp.GameRef
	Report    []byte
	Feed      []byte
	CacheHits int
}

// FetchGame fetches the report and the feed concurrently and returns once
// both are in memory. Either failure cancels the other
func FetchGame(ctx context.Context, f Fetcher, g pbp.GameRef) (Documents, error) {
	docs := Documents{Game: g}
	var hits atomic.Int32

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		b, hit, err := readDocument(ctx, f, KindReport, g)
		docs.Report = b
		if hit {
			hits.Add(1)
		}
		return err
	})
	eg.Go(func() error {
		b, hit, err := readDocument(ctx, f, KindFeed, g)
		docs.Feed = b
		if hit {
			hits.Add(1)
		}
		return err
	})
	if err := eg.Wait(); err != nil {
		return Documents{Game: g}, err
	}
	docs.CacheHits = int(hits.Load())
	return docs, nil
}

func readDocument(ctx context.Context, f Fetcher, kind Kind, g pbp.GameRef) ([]byte, bool, error) {
	rc, err := f.Fetch(ctx, kind, g)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = rc.Close() }()

	b, err := io.ReadAll(io.LimitReader(rc, MaxDocumentBytes+1))
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "nhl: read %s for game %s", kind, g)
	}
	if len(b) > MaxDocumentBytes {
		return nil, false, perr.InvalidArgf("nhl: %s for game %s exceeds %d bytes", kind, g, MaxDocumentBytes)
	}
	return b, CacheHit(rc), nil
}
