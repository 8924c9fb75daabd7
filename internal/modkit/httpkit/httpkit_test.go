package httpkit

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "rinkfeed/internal/platform/errors"
	phttp "rinkfeed/internal/platform/net/http"
)

func run(t *testing.T, r Router, method, path, body string) (int, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(method, path, rd))
	return rec.Code, rec.Body.String()
}

type combineIn struct {
	Season int    `json:"season" validate:"required"`
	Game   string `json:"game" validate:"required"`
}

func TestHandlers(t *testing.T) {
	r := phttp.NewRouter()
	Get(r, "/plain", func(*http.Request) (any, error) { return map[string]int{"a": 1}, nil })
	Get(r, "/paged", func(*http.Request) (any, error) {
		return List([]int{1, 2}, Page{Total: 9, Limit: 2, Offset: 4}), nil
	})
	Get(r, "/missing/{id}", func(r *http.Request) (any, error) {
		return nil, perr.NotFoundf("player %s not found", Param(r, "id"))
	})
	Get(r, "/boom", func(*http.Request) (any, error) { return nil, errors.New("boom") })
	PostJSON(r, "/combine", func(_ *http.Request, in combineIn) (any, error) {
		return map[string]any{"season": in.Season, "game": in.Game}, nil
	})

	cases := []struct {
		name, method, path, body string
		status                   int
		want                     string
	}{
		{"plain", http.MethodGet, "/plain", "", 200, `"a":1`},
		{"paged", http.MethodGet, "/paged", "", 200, `"total":9`},
		{"not found", http.MethodGet, "/missing/42", "", 404, "player 42 not found"},
		{"unknown error", http.MethodGet, "/boom", "", 500, `"error"`},
		{"bound", http.MethodPost, "/combine", `{"season":2016,"game":"020001"}`, 200, `"game":"020001"`},
		{"bad json", http.MethodPost, "/combine", `{`, 400, "invalid JSON"},
		{"unknown field", http.MethodPost, "/combine", `{"season":2016,"game":"x","nope":1}`, 400, "unknown field"},
		{"missing field", http.MethodPost, "/combine", `{"season":2016}`, 400, `"field":"game"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := run(t, r, tc.method, tc.path, tc.body)
			if code != tc.status {
				t.Fatalf("status %d want %d body %s", code, tc.status, body)
			}
			if !strings.Contains(body, tc.want) {
				t.Fatalf("body %s missing %s", body, tc.want)
			}
		})
	}
}

func TestMountAPIV1(t *testing.T) {
	r := phttp.NewRouter()
	var mounted bool
	MountAPIV1(r, CommonStack(), func(api Router) {
		mounted = true
		Get(api, "/ping", func(*http.Request) (any, error) { return "pong", nil })
	})
	if !mounted {
		t.Fatalf("mount not called")
	}
	code, body := run(t, r, http.MethodGet, "/api/v1/ping", "")
	if code != 200 || !strings.Contains(body, "pong") {
		t.Fatalf("got %d %s", code, body)
	}
	code, _ = run(t, r, http.MethodGet, "/ping", "")
	if code != 404 {
		t.Fatalf("unversioned path served: %d", code)
	}
}

func TestMountUnderAppliesMiddleware(t *testing.T) {
	r := phttp.NewRouter()
	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Scope", "games")
			next.ServeHTTP(w, r)
		})
	}
	MountUnder(r, "/games", []func(http.Handler) http.Handler{tag}, func(sub Router) {
		Get(sub, "/", func(*http.Request) (any, error) { return "ok", nil })
	})
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/games/", nil))
	if rec.Header().Get("X-Scope") != "games" {
		t.Fatalf("middleware not applied: %v", rec.Header())
	}
}

func TestCommonStackSetsNoCache(t *testing.T) {
	r := phttp.NewRouter()
	MountAPIV1(r, CommonStack(), func(api Router) {
		Get(api, "/x", func(*http.Request) (any, error) { return nil, nil })
	})
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/x", nil))
	if rec.Header().Get("Cache-Control") == "" {
		t.Fatalf("expected Cache-Control header")
	}
}
