package nhl

import (
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"rinkfeed/internal/core/pbp"
	perr "rinkfeed/internal/platform/errors"
	"rinkfeed/internal/platform/logger"
)

// CachedFetcher fetches game documents with on disk caching.
// Layout is <dir>/<season label>/<file> plus a .meta sidecar per file.
// Stale entries may be revalidated with ETag and Last-Modified
type CachedFetcher struct {
	dir             string
	base            *HTTPFetcher
	revalidateAfter time.Duration
	retainMaxBytes  int64
	lastCleanupUnix atomic.Int64
}

// cacheMeta is the sidecar json
type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	Size         int64     `json:"size,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
	LastChecked  time.Time `json:"last_checked"`
}

// CachedOption configures the fetcher
type CachedOption func(*CachedFetcher)

// WithRevalidateAfter issues a conditional GET when a cached file was last
// checked more than d ago. Zero serves the cache forever
func WithRevalidateAfter(d time.Duration) CachedOption {
	return func(c *CachedFetcher) { c.revalidateAfter = d }
}

// WithRetention caps the cache size; oldest files go first. Zero disables
func WithRetention(maxBytes int64) CachedOption {
	return func(c *CachedFetcher) { c.retainMaxBytes = maxBytes }
}

// NewCachedFetcher builds a caching fetcher over base; base may be nil
func NewCachedFetcher(dir string, base *HTTPFetcher, opts ...CachedOption) *CachedFetcher {
	if base == nil {
		base = NewHTTPFetcher(DefaultEndpoints(), 0)
	}
	c := &CachedFetcher{dir: dir, base: base}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch serves from disk when present and downloads otherwise.
// A reader from the cache exposes Name, see CacheHit
func (c *CachedFetcher) Fetch(ctx context.Context, kind Kind, g pbp.GameRef) (io.ReadCloser, error) {
	path := filepath.Join(c.dir, g.SeasonLabel(), cacheName(kind, g))
	metaPath := path + ".meta"
	url := c.base.Endpoints.URL(kind, g)

	if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
		meta, _ := loadMeta(metaPath)
		if c.stale(meta) {
			rc, err := c.revalidate(ctx, url, path, metaPath, meta)
			if err == nil {
				c.maybeCleanup()
				return rc, nil
			}
			logger.Named("nhl").Debug().Err(err).Str("url", url).Msg("revalidate failed, serving cached copy")
		}
		return os.Open(path)
	}

	resp, err := c.base.get(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, statusError(resp.StatusCode, kind, g)
	}
	rc, err := writeResponseToCache(resp, url, path, metaPath)
	if err != nil {
		return nil, err
	}
	c.maybeCleanup()
	return rc, nil
}

func (c *CachedFetcher) stale(meta *cacheMeta) bool {
	if c.revalidateAfter <= 0 {
		return false
	}
	return meta == nil || time.Since(meta.LastChecked) > c.revalidateAfter
}

// revalidate returns the cached file on 304 or a fresh body after rewriting the cache on 200
func (c *CachedFetcher) revalidate(ctx context.Context, url, path, metaPath string, meta *cacheMeta) (io.ReadCloser, error) {
	hdr := http.Header{}
	if meta != nil {
		if meta.ETag != "" {
			hdr.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			hdr.Set("If-Modified-Since", meta.LastModified)
		}
	}
	resp, err := c.base.get(ctx, url, hdr)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusNotModified:
		_ = resp.Body.Close()
		if meta == nil {
			meta = &cacheMeta{URL: url}
		}
		meta.LastChecked = time.Now().UTC()
		_ = saveMeta(metaPath, meta)
		return os.Open(path)
	case http.StatusOK:
		return writeResponseToCache(resp, url, path, metaPath)
	default:
		_ = resp.Body.Close()
		return nil, perr.Unavailablef("nhl: revalidate status %d for %s", resp.StatusCode, url)
	}
}

// writeResponseToCache saves the body atomically, writes the sidecar and
// returns a reader that hides Name so callers count it as a download
func writeResponseToCache(resp *http.Response, url, path, metaPath string) (io.ReadCloser, error) {
	defer func() { _ = resp.Body.Close() }()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	tmp := path + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(tmp) }()

	n, werr := io.Copy(out, resp.Body)
	cerr := out.Close()
	if werr != nil {
		return nil, perr.Wrapf(werr, perr.ErrorCodeUnavailable, "nhl: read body %s", url)
	}
	if cerr != nil {
		return nil, cerr
	}
	if err := os.Rename(tmp, path); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_ = saveMeta(metaPath, &cacheMeta{
		URL:          url,
		ETag:         strings.TrimSpace(resp.Header.Get("ETag")),
		LastModified: strings.TrimSpace(resp.Header.Get("Last-Modified")),
		Size:         n,
		FetchedAt:    now,
		LastChecked:  now,
	})

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &fileBody{f: f}, nil
}

// fileBody wraps *os.File but hides the Name method
type fileBody struct{ f *os.File }

func (b *fileBody) Read(p []byte) (int, error) { return b.f.Read(p) }
func (b *fileBody) Close() error               { return b.f.Close() }

// CacheHit reports whether rc was served from the local cache
func CacheHit(rc io.ReadCloser) bool {
	_, ok := rc.(interface{ Name() string })
	return ok
}

func loadMeta(path string) (*cacheMeta, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m cacheMeta
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// saveMeta writes the sidecar atomically
func saveMeta(path string, m *cacheMeta) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	tmp := path + ".part"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// maybeCleanup throttles retention to once per ten minutes
func (c *CachedFetcher) maybeCleanup() {
	if c.retainMaxBytes <= 0 {
		return
	}
	now := time.Now().Unix()
	last := c.lastCleanupUnix.Load()
	if last != 0 && now-last < 600 {
		return
	}
	if !c.lastCleanupUnix.CompareAndSwap(last, now) {
		return
	}
	_ = c.cleanupOnce()
}

// cleanupOnce removes the oldest documents until the cache fits retainMaxBytes
func (c *CachedFetcher) cleanupOnce() error {
	type item struct {
		path string
		size int64
		mod  time.Time
	}
	var items []item
	var total int64
	err := filepath.WalkDir(c.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasSuffix(name, ".meta") || strings.HasSuffix(name, ".part") {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		items = append(items, item{path: p, size: fi.Size(), mod: fi.ModTime()})
		total += fi.Size()
		return nil
	})
	if err != nil {
		return err
	}
	if total <= c.retainMaxBytes {
		return nil
	}
	sort.Slice(items, func(i, j int) bool { return items[i].mod.Before(items[j].mod) })
	for _, it := range items {
		if total <= c.retainMaxBytes {
			break
		}
		_ = os.Remove(it.path)
		_ = os.Remove(it.path + ".meta")
		total -= it.size
	}
	return nil
}
