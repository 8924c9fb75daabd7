package module

import (
	"time"

	"rinkfeed/internal/platform/config"
)

// Options holds configuration options for the backfill service
type Options struct {
	Workers       int
	DelayPerGame  time.Duration
	MaxRetries    int
	RetryBase     time.Duration
	FetchTimeout  time.Duration
	GameTimeout   time.Duration
	DBTimeout     time.Duration
	MaxRangeGames int
	EnableLeases  bool
	ClickHouse    bool
	OutDir        string
}

// FromConfig reads the backfill options from config with CORE_BACKFILL_ prefix.
// ClickHouse follows SERVICE_CLICKHOUSE_ENABLED like the api
func FromConfig(cfg config.Conf) Options {
	bf := cfg.Prefix("CORE_BACKFILL_")
	return Options{
		Workers:       bf.MayInt("WORKERS", 4),
		DelayPerGame:  bf.MayDuration("DELAY", 0),
		MaxRetries:    bf.MayInt("RETRIES", 3),
		RetryBase:     bf.MayDuration("RETRY_BASE", 500*time.Millisecond),
		FetchTimeout:  bf.MayDuration("FETCH_TIMEOUT", 60*time.Second),
		GameTimeout:   bf.MayDuration("GAME_TIMEOUT", 5*time.Minute),
		DBTimeout:     bf.MayDuration("DB_TIMEOUT", 30*time.Second),
		MaxRangeGames: bf.MayInt("MAX_RANGE_GAMES", 0),
		EnableLeases:  bf.MayBool("LEASES", true),
		ClickHouse:    cfg.Prefix("SERVICE_CLICKHOUSE_").MayBool("ENABLED", false),
		OutDir:        bf.MayString("OUT_DIR", ""),
	}
}
