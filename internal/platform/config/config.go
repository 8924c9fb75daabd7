// Package config reads service configuration from environment variables.
// Must* accessors panic on missing or invalid values (startup wiring),
// May* accessors warn and fall back to the default
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"rinkfeed/internal/platform/logger"
)

// Conf is a namespaced view over environment variables, e.g. Prefix("CORE_INGEST_")
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(key string) string { return strings.TrimSpace(os.Getenv(c.key(key))) }

func (c Conf) fail(key, value, msg string) {
	ev := logger.Get().Panic().Str("key", c.key(key))
	if value != "" {
		ev = ev.Str("value", value)
	}
	ev.Msg(msg)
}

func (c Conf) warnDefault(key, value string, def any) {
	logger.Get().Warn().Str("key", c.key(key)).Str("value", value).Interface("default", def).Msg("invalid value; using default")
}

// MustString panics if the key is missing or empty
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		c.fail(key, "", "missing required env")
	}
	return v
}

// MustInt panics if the key is missing or not an int
func (c Conf) MustInt(key string) int {
	s := c.MustString(key)
	v, err := strconv.Atoi(s)
	if err != nil {
		c.fail(key, s, "invalid int value")
	}
	return v
}

// MustURL panics unless the key holds an absolute URL
func (c Conf) MustURL(key string) *url.URL {
	s := c.MustString(key)
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		c.fail(key, s, "invalid absolute URL")
	}
	return u
}

// MustPort returns an addr like ":4000" after checking 1..65535
func (c Conf) MustPort(key string) string {
	s := c.MustString(key)
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		c.fail(key, s, "invalid TCP port; expected 1..65535")
	}
	return ":" + s
}

// MayString returns the value or def if missing
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def if missing or invalid
func (c Conf) MayInt(key string, def int) int {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		c.warnDefault(key, s, def)
		return def
	}
	return v
}

// MayBool returns the value or def if missing or invalid
func (c Conf) MayBool(key string, def bool) bool {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		c.warnDefault(key, s, def)
		return def
	}
	return v
}

// MayDuration returns the value or def if missing or invalid
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		c.warnDefault(key, s, def.String())
		return def
	}
	return d
}

// MayURL returns the value as a base URL (no trailing slash) or def if missing or not absolute
func (c Conf) MayURL(key, def string) string {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		c.warnDefault(key, s, def)
		return def
	}
	return strings.TrimRight(s, "/")
}

// MayCSV splits a comma separated value, dropping blanks; def if nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(key), ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value if it is one of allowed (case-insensitive), def if missing; panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(a)
		}
	}
	if v == "" {
		return v
	}
	c.fail(key, v, "invalid enum value")
	return ""
}
