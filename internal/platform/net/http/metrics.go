package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MountMetrics serves the prometheus exposition format at path.
// A nil gatherer serves the default registry
func MountMetrics(r Router, path string, g prometheus.Gatherer, enabled bool) {
	if !enabled {
		return
	}
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	r.Handle(path, promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
