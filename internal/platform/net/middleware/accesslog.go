// Package middleware holds the http middleware stack
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"rinkfeed/internal/platform/logger"
	pnet "rinkfeed/internal/platform/net"
	phttp "rinkfeed/internal/platform/net/http"
)

// AccessLogOptions configures the access log
type AccessLogOptions struct {
	// Slow logs requests at warn when they take at least this long; 0 disables
	Slow time.Duration
	// Log overrides the root logger, mostly for tests
	Log *logger.Logger
}

// AccessLog logs one line per request with the matched route pattern
func AccessLog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			log := logger.C(r.Context())
			if opt.Log != nil {
				l := opt.Log.With().Str("request_id", pnet.RequestID(r.Context())).Logger()
				log = &l
			}
			evt := log.Info()
			if opt.Slow > 0 && elapsed >= opt.Slow {
				evt = log.Warn()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			evt.Int("status", status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", phttp.RoutePattern(r)).
				Int("bytes", ww.BytesWritten()).
				Msg("request done")
		})
	}
}
