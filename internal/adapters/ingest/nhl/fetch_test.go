package nhl

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"rinkfeed/internal/core/pbp"
	perr "rinkfeed/internal/platform/errors"
)

var game = pbp.GameRef{Season: 2016, Number: 20001}

// upstream serves both documents and counts hits per path
type upstream struct {
	hits   atomic.Int32
	status int
	etag   string
}

func (u *upstream) start(t *testing.T) (*httptest.Server, Endpoints) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		if u.status != 0 {
			w.WriteHeader(u.status)
			return
		}
		if u.etag != "" {
			if r.Header.Get("If-None-Match") == u.etag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			w.Header().Set("ETag", u.etag)
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/PL020001.HTM"):
			_, _ = io.WriteString(w, "<html>report</html>")
		case strings.HasSuffix(r.URL.Path, "/2016020001/feed/live"):
			_, _ = io.WriteString(w, `{"gamePk":2016020001}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, Endpoints{ReportBase: srv.URL + "/reports", FeedBase: srv.URL + "/game"}
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(b)
}

func TestHTTPFetcherStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		code   perr.ErrorCode
		retry  bool
	}{
		{http.StatusNotFound, perr.ErrorCodeNotFound, false},
		{http.StatusTooManyRequests, perr.ErrorCodeTooManyRequests, true},
		{http.StatusBadGateway, perr.ErrorCodeUnavailable, true},
		{http.StatusForbidden, perr.ErrorCodeUnknown, false},
	}
	for _, tc := range cases {
		up := &upstream{status: tc.status}
		_, ep := up.start(t)
		_, err := NewHTTPFetcher(ep, time.Second).Fetch(context.Background(), KindFeed, game)
		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		if got := perr.CodeOf(err); got != tc.code {
			t.Fatalf("status %d: code %v want %v", tc.status, got, tc.code)
		}
		if got := perr.Retryable(err); got != tc.retry {
			t.Fatalf("status %d: retryable %v want %v", tc.status, got, tc.retry)
		}
	}
}

func TestHTTPFetcherNetworkErrorIsRetryable(t *testing.T) {
	up := &upstream{}
	srv, ep := up.start(t)
	srv.Close()

	_, err := NewHTTPFetcher(ep, time.Second).Fetch(context.Background(), KindReport, game)
	if !perr.Retryable(err) {
		t.Fatalf("expected retryable error, got %v", err)
	}
}

func TestHTTPFetcherOK(t *testing.T) {
	up := &upstream{}
	_, ep := up.start(t)
	rc, err := NewHTTPFetcher(ep, time.Second).Fetch(context.Background(), KindReport, game)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := readAll(t, rc); got != "<html>report</html>" {
		t.Fatalf("body %q", got)
	}
}

func TestCachedFetcherServesSecondReadFromDisk(t *testing.T) {
	up := &upstream{}
	_, ep := up.start(t)
	dir := t.TempDir()
	f := NewCachedFetcher(dir, NewHTTPFetcher(ep, time.Second))

	rc, err := f.Fetch(context.Background(), KindFeed, game)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if CacheHit(rc) {
		t.Fatalf("first fetch must not count as a cache hit")
	}
	_ = readAll(t, rc)

	rc, err = f.Fetch(context.Background(), KindFeed, game)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if !CacheHit(rc) {
		t.Fatalf("second fetch should be a cache hit")
	}
	if got := readAll(t, rc); got != `{"gamePk":2016020001}` {
		t.Fatalf("cached body %q", got)
	}
	if n := up.hits.Load(); n != 1 {
		t.Fatalf("upstream hits %d want 1", n)
	}

	path := filepath.Join(dir, "20162017", "2016020001.feed.json")
	if _, err := os.Stat(path + ".meta"); err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
	if _, err := os.Stat(path + ".part"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestCachedFetcherRevalidates(t *testing.T) {
	up := &upstream{etag: `"v1"`}
	_, ep := up.start(t)
	f := NewCachedFetcher(t.TempDir(), NewHTTPFetcher(ep, time.Second), WithRevalidateAfter(time.Nanosecond))

	rc, err := f.Fetch(context.Background(), KindReport, game)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	_ = readAll(t, rc)
	time.Sleep(2 * time.Millisecond)

	rc, err = f.Fetch(context.Background(), KindReport, game)
	if err != nil {
		t.Fatalf("revalidate: %v", err)
	}
	if !CacheHit(rc) {
		t.Fatalf("304 should serve the cached file")
	}
	if got := readAll(t, rc); got != "<html>report</html>" {
		t.Fatalf("body %q", got)
	}
	if n := up.hits.Load(); n != 2 {
		t.Fatalf("upstream hits %d want 2", n)
	}
}

func TestCachedFetcherMissPropagatesStatus(t *testing.T) {
	up := &upstream{status: http.StatusNotFound}
	_, ep := up.start(t)
	f := NewCachedFetcher(t.TempDir(), NewHTTPFetcher(ep, time.Second))
	_, err := f.Fetch(context.Background(), KindReport, game)
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCleanupKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	c := NewCachedFetcher(dir, nil, WithRetention(10))
	old := filepath.Join(dir, "a.HTM")
	fresh := filepath.Join(dir, "b.HTM")
	_ = os.WriteFile(old, []byte("0123456789"), 0o644)
	_ = os.WriteFile(fresh, []byte("0123456789"), 0o644)
	past := time.Now().Add(-time.Hour)
	_ = os.Chtimes(old, past, past)

	if err := c.cleanupOnce(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("oldest file should be evicted")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("newest file should stay: %v", err)
	}
}
