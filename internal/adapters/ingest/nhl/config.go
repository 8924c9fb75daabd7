package nhl

import (
	"os"
	"time"

	"rinkfeed/internal/core/pbp"
	"rinkfeed/internal/platform/config"
	perr "rinkfeed/internal/platform/errors"
)

// Options is the CORE_INGEST_ block
type Options struct {
	CacheDir        string
	Endpoints       Endpoints
	Timeout         time.Duration
	RevalidateAfter time.Duration
	CacheMaxBytes   int64
	AliasFile       string
}

// FromConfig reads the CORE_INGEST_ block
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_INGEST_")
	return Options{
		CacheDir: c.MayString("CACHE_DIR", ""),
		Endpoints: Endpoints{
			ReportBase: c.MayURL("REPORT_BASE_URL", DefaultReportBase),
			FeedBase:   c.MayURL("FEED_BASE_URL", DefaultFeedBase),
		},
		Timeout:         time.Duration(c.MayInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		RevalidateAfter: c.MayDuration("REVALIDATE_AFTER", 0),
		CacheMaxBytes:   int64(c.MayInt("CACHE_MAX_MB", 0)) << 20,
		AliasFile:       c.MayString("ALIAS_FILE", ""),
	}
}

// Fetcher returns a caching fetcher when CacheDir is set, a plain one otherwise
func (o Options) Fetcher() Fetcher {
	base := NewHTTPFetcher(o.Endpoints, o.Timeout)
	if o.CacheDir == "" {
		return base
	}
	return NewCachedFetcher(o.CacheDir, base,
		WithRevalidateAfter(o.RevalidateAfter),
		WithRetention(o.CacheMaxBytes),
	)
}

// Tables returns the reconciler tables, layering AliasFile over the defaults
func (o Options) Tables() (pbp.Config, error) {
	if o.AliasFile == "" {
		return pbp.DefaultConfig(), nil
	}
	b, err := os.ReadFile(o.AliasFile)
	if err != nil {
		return pbp.Config{}, perr.Wrapf(err, perr.ErrorCodeValidation, "read %s", o.AliasFile)
	}
	return pbp.ParseConfigYAML(b)
}
