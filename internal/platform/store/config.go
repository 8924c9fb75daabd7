package store

import (
	"time"

	"rinkfeed/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot knobs, zero picks the defaults below
	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	// Role and Tag name the binary and build in clickhouse client info
	Role string
	Tag  string
}

const (
	defaultConnectRetries = 20
	defaultPingTimeout    = 3 * time.Second
)

func (c PGConfig) retries() int {
	if c.ConnectRetries <= 0 {
		return defaultConnectRetries
	}
	return c.ConnectRetries
}

func (c PGConfig) pingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return defaultPingTimeout
	}
	return c.PingTimeout
}

// ConfigFrom reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_* for a binary.
// Postgres is always on; ClickHouse only when chEnabled
func ConfigFrom(root config.Conf, role string, chEnabled bool) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")

	c := Config{
		AppName: "rinkfeed-" + role,
		PG: PGConfig{
			Enabled:     true,
			URL:         pg.MustString("DBURL"),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 8)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		},
	}
	if chEnabled {
		c.CH = CHConfig{
			Enabled: true,
			URL:     ch.MustString("DBURL"),
			Role:    role,
			Tag:     ch.MayString("TAG", "dev"),
		}
	}
	return c
}
