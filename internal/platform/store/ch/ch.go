// Package ch provides a clickhouse client used as an append-only analytics sink
package ch

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the clickhouse client
type Config struct {
	URL         string
	Role        string
	Tag         string
	DialTimeout time.Duration
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// Batch is the subset of a driver batch used for inserts
type Batch interface {
	Append(v ...any) error
	Send() error
	Abort() error
}

// client is the seam between CH and the driver connection
type client interface {
	PrepareBatch(ctx context.Context, query string) (Batch, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// CH is a thin clickhouse client
type CH struct {
	c client
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

var openConn = func(opts *clickhouse.Options) (driver.Conn, error) { return clickhouse.Open(opts) }

// Open parses the DSN, dials and pings clickhouse
func Open(ctx context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	opts.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	conn, err := openConn(opts)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	c := newCH(driverClient{conn: conn})
	if err := c.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ch: ping: %w", err)
	}
	return c, nil
}

func newCH(c client) *CH { return &CH{c: c} }

// Insert appends rows to table in a single batch
// every row must carry one value per column
func (c *CH) Insert(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	q, err := insertQuery(table, columns)
	if err != nil {
		return err
	}
	b, err := c.c.PrepareBatch(ctx, q)
	if err != nil {
		return fmt.Errorf("ch: prepare %s: %w", table, err)
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			_ = b.Abort()
			return fmt.Errorf("ch: row %d has %d values, want %d", i, len(r), len(columns))
		}
		if err := b.Append(r...); err != nil {
			_ = b.Abort()
			return fmt.Errorf("ch: append row %d: %w", i, err)
		}
	}
	if err := b.Send(); err != nil {
		return fmt.Errorf("ch: send %s: %w", table, err)
	}
	return nil
}

// Query runs a read query
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.c.Query(ctx, sql, args...)
}

// Ping checks connectivity
func (c *CH) Ping(ctx context.Context) error { return c.c.Ping(ctx) }

// Close closes the connection
func (c *CH) Close() error { return c.c.Close() }

func insertQuery(table string, columns []string) (string, error) {
	if !identRe.MatchString(table) {
		return "", fmt.Errorf("ch: bad table name %q", table)
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("ch: insert into %s without columns", table)
	}
	for _, col := range columns {
		if !identRe.MatchString(col) {
			return "", fmt.Errorf("ch: bad column name %q", col)
		}
	}
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ")", nil
}

// driverClient adapts driver.Conn to client
type driverClient struct{ conn driver.Conn }

func (d driverClient) PrepareBatch(ctx context.Context, query string) (Batch, error) {
	return d.conn.PrepareBatch(ctx, query)
}

func (d driverClient) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return d.conn.Query(ctx, query, args...)
}

func (d driverClient) Ping(ctx context.Context) error { return d.conn.Ping(ctx) }
func (d driverClient) Close() error                   { return d.conn.Close() }
