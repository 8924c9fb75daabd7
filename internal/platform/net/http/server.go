package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"rinkfeed/internal/platform/config"
	"rinkfeed/internal/platform/logger"
)

// Server wraps http.Server around a Router
type Server struct {
	addr     string
	router   Router
	srv      *stdhttp.Server
	shutdown time.Duration
}

// NewServer reads API_PORT and SHUTDOWN_TIMEOUT from cfg; opts mount routes
func NewServer(cfg config.Conf, opts ...func(Router)) *Server {
	addr := cfg.MayString("API_PORT", ":4000")
	r := NewRouter()
	for _, o := range opts {
		o(r)
	}
	return &Server{
		addr:     addr,
		router:   r,
		shutdown: cfg.MayDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           r.Mux(),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router returns the root router
func (s *Server) Router() Router { return s.router }

// Addr returns the listening address
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is done, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("http listening")
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdown)
	defer cancel()
	log.Info().Dur("grace", s.shutdown).Msg("http shutting down")
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}
