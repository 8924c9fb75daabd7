package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the backfill collectors
type Metrics struct {
	Games       *prometheus.CounterVec
	Plays       prometheus.Counter
	GameSeconds prometheus.Histogram
}

// NewMetrics registers the collectors on reg; nil reg leaves them unregistered
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Games: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rinkfeed",
			Name:      "games_total",
			Help:      "Games processed by the backfill, by outcome",
		}, []string{"status"}),
		Plays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rinkfeed",
			Name:      "plays_total",
			Help:      "Normalized plays persisted",
		}),
		GameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rinkfeed",
			Name:      "game_seconds",
			Help:      "Wall time per game attempt",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Games, m.Plays, m.GameSeconds)
	}
	return m
}
