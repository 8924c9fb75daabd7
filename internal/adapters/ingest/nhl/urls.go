package nhl

import (
	"fmt"
	"strings"

	"rinkfeed/internal/core/pbp"
)

const (
	// DefaultReportBase serves the PL reports, one directory per season label
	DefaultReportBase = "http://www.nhl.com/scores/htmlreports"
	// DefaultFeedBase serves statsapi live feeds keyed by game pk
	DefaultFeedBase = "https://statsapi.web.nhl.com/api/v1/game"
)

// Kind selects one of the two documents of a game
type Kind string

const (
	KindReport Kind = "report"
	KindFeed   Kind = "feed"
)

// Endpoints holds the base URLs both documents hang off
type Endpoints struct {
	ReportBase string
	FeedBase   string
}

// DefaultEndpoints points at the public NHL hosts
func DefaultEndpoints() Endpoints {
	return Endpoints{ReportBase: DefaultReportBase, FeedBase: DefaultFeedBase}
}

// ReportURL is e.g. http://www.nhl.com/scores/htmlreports/20162017/PL020001.HTM
func (e Endpoints) ReportURL(g pbp.GameRef) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(e.ReportBase, "/"), g.SeasonLabel(), reportName(g))
}

// FeedURL is e.g. https://statsapi.web.nhl.com/api/v1/game/2016020001/feed/live
func (e Endpoints) FeedURL(g pbp.GameRef) string {
	return fmt.Sprintf("%s/%d/feed/live", strings.TrimRight(e.FeedBase, "/"), g.GamePk())
}

// URL dispatches on kind
func (e Endpoints) URL(kind Kind, g pbp.GameRef) string {
	if kind == KindFeed {
		return e.FeedURL(g)
	}
	return e.ReportURL(g)
}

func reportName(g pbp.GameRef) string { return fmt.Sprintf("PL%06d.HTM", g.Number) }

// cacheName is the file name of a document inside its season directory
func cacheName(kind Kind, g pbp.GameRef) string {
	if kind == KindFeed {
		return fmt.Sprintf("%d.feed.json", g.GamePk())
	}
	return reportName(g)
}
