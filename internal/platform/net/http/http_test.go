package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rinkfeed/internal/platform/config"
	perr "rinkfeed/internal/platform/errors"
	pnet "rinkfeed/internal/platform/net"
)

func serve(r Router, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return env
}

func TestEnvelope(t *testing.T) {
	cases := []struct {
		name   string
		resp   Response
		status int
		check  func(t *testing.T, env Envelope)
	}{
		{"ok", OK(map[string]int{"n": 1}), 200, func(t *testing.T, env Envelope) {
			if env.Status != "OK" || env.Data == nil || env.Error != "" {
				t.Fatalf("env %+v", env)
			}
		}},
		{"list", List([]int{1}, Page{Total: 3, Limit: 1, Offset: 2}), 200, func(t *testing.T, env Envelope) {
			if env.Page == nil || env.Page.Total != 3 || env.Page.Offset != 2 {
				t.Fatalf("page %+v", env.Page)
			}
		}},
		{"not found", Error(perr.NotFoundf("game 1 not found")), 404, func(t *testing.T, env Envelope) {
			if env.Code != perr.ErrorCodeNotFound || env.Error != "game 1 not found" || env.Data != nil {
				t.Fatalf("env %+v", env)
			}
		}},
		{"validation field", Error(perr.WithField(perr.New(perr.ErrorCodeValidation, "bad"), "season")), 400,
			func(t *testing.T, env Envelope) {
				if env.Field != "season" {
					t.Fatalf("field %q", env.Field)
				}
			}},
		{"foreign error", Error(errors.New("boom")), 500, func(t *testing.T, env Envelope) {
			if env.Error != "boom" {
				t.Fatalf("error %q", env.Error)
			}
		}},
		{"custom status", Response{Status: 503, Body: "down"}, 503, func(*testing.T, Envelope) {}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRouter()
			resp := tc.resp
			r.Get("/x", Handle(func(*stdhttp.Request) Response { return resp }))
			rec := serve(r, stdhttp.MethodGet, "/x")
			if rec.Code != tc.status {
				t.Fatalf("status %d want %d", rec.Code, tc.status)
			}
			env := decode(t, rec)
			if env.StatusCode != tc.status {
				t.Fatalf("envelope status %d", env.StatusCode)
			}
			tc.check(t, env)
		})
	}
}

func TestEnvelopeCarriesRequestID(t *testing.T) {
	r := NewRouter()
	r.Use(func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
			next.ServeHTTP(w, req.WithContext(pnet.WithRequestID(req.Context(), "rid-1")))
		})
	})
	GetJSON(r, "/x", func(*stdhttp.Request) (any, error) { return "ok", nil })
	if env := decode(t, serve(r, stdhttp.MethodGet, "/x")); env.RequestID != "rid-1" {
		t.Fatalf("request id %q", env.RequestID)
	}
}

func TestResponseHeaders(t *testing.T) {
	r := NewRouter()
	r.Get("/x", Handle(func(*stdhttp.Request) Response {
		return Response{Status: 200, Body: 1, Header: stdhttp.Header{"X-Cache": {"hit"}}}
	}))
	if got := serve(r, stdhttp.MethodGet, "/x").Header().Get("X-Cache"); got != "hit" {
		t.Fatalf("header %q", got)
	}
}

func TestRouteGroups(t *testing.T) {
	r := NewRouter()
	r.Route("/games", func(g Router) {
		g.Get("/{gamePk}", func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
			_, _ = w.Write([]byte(URLParam(req, "gamePk") + " " + RoutePattern(req)))
		})
	})
	r.Group(func(g Router) {
		g.Post("/p", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(201) })
	})
	if body := serve(r, stdhttp.MethodGet, "/games/2016020001").Body.String(); body != "2016020001 /games/{gamePk}" {
		t.Fatalf("body %q", body)
	}
	if code := serve(r, stdhttp.MethodPost, "/p").Code; code != 201 {
		t.Fatalf("group post %d", code)
	}
}

func TestMountMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "rinkfeed_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	r := NewRouter()
	MountMetrics(r, "/metrics", reg, true)
	rec := serve(r, stdhttp.MethodGet, "/metrics")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), "rinkfeed_test_total 1") {
		t.Fatalf("metrics %d %s", rec.Code, rec.Body.String())
	}

	off := NewRouter()
	MountMetrics(off, "/metrics", reg, false)
	if code := serve(off, stdhttp.MethodGet, "/metrics").Code; code != 404 {
		t.Fatalf("disabled metrics served %d", code)
	}
}

func TestMountProfiler(t *testing.T) {
	r := NewRouter()
	MountProfiler(r, "/debug", true)
	if code := serve(r, stdhttp.MethodGet, "/debug/pprof/").Code; code != 200 {
		t.Fatalf("pprof index %d", code)
	}
}

func TestServerRunStops(t *testing.T) {
	t.Setenv("CORE_API_API_PORT", "127.0.0.1:0")
	t.Setenv("CORE_API_SHUTDOWN_TIMEOUT", "1s")
	srv := NewServer(config.New().Prefix("CORE_API_"), func(r Router) {
		r.Get("/ping", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {})
	})
	if srv.Addr() != "127.0.0.1:0" {
		t.Fatalf("addr %q", srv.Addr())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("server did not stop")
	}
}
