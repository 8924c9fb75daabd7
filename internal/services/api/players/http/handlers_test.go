package http

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rinkfeed/internal/core/pbp"
	perr "rinkfeed/internal/platform/errors"
	phttp "rinkfeed/internal/platform/net/http"
	"rinkfeed/internal/services/api/players/domain"
)

type stubSvc struct {
	lastID int64
	lastW  domain.Window
}

func (s *stubSvc) Player(_ context.Context, id int64) (domain.Player, error) {
	s.lastID = id
	if id == 1 {
		return domain.Player{}, perr.NotFoundf("player %d not found", id)
	}
	return domain.Player{ID: id, Name: "Nazem Kadri", Team: "tor"}, nil
}

func (s *stubSvc) Events(_ context.Context, id int64, w domain.Window) ([]domain.PlayerEvent, int, error) {
	s.lastID, s.lastW = id, w
	if w.Limit > 500 {
		return nil, 0, perr.WithField(perr.New(perr.ErrorCodeValidation, "limit must be at most 500"), "limit")
	}
	return []domain.PlayerEvent{{GamePk: 2016020001, Roles: []string{pbp.RoleHitter}, Event: pbp.Event{ID: 12}}}, 73, nil
}

func TestRoutes(t *testing.T) {
	s := &stubSvc{}
	r := phttp.NewRouter()
	Register(r, s)

	cases := []struct {
		name, path string
		status     int
		want       string
		window     domain.Window
	}{
		{"player", "/8475172", 200, `"name":"Nazem Kadri"`, domain.Window{}},
		{"player missing", "/1", 404, "not found", domain.Window{}},
		{"player bad id", "/kadri", 400, `"field":"id"`, domain.Window{}},
		{"events default page", "/8475791/events", 200, `"total":73`, domain.Window{Limit: 50}},
		{"events paged", "/8475791/events?limit=10&offset=20", 200, `"offset":20`, domain.Window{Limit: 10, Offset: 20}},
		{"events roles", "/8475791/events", 200, `"roles":["hitter"]`, domain.Window{Limit: 50}},
		{"events bad limit", "/8475791/events?limit=ten", 400, `"field":"limit"`, domain.Window{}},
		{"events bad offset", "/8475791/events?offset=x", 400, `"field":"offset"`, domain.Window{}},
		{"events limit too big", "/8475791/events?limit=501", 400, `"field":"limit"`, domain.Window{Limit: 501}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s.lastW = domain.Window{}
			rec := httptest.NewRecorder()
			r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, tc.path, nil))
			if rec.Code != tc.status {
				t.Fatalf("status %d want %d body %s", rec.Code, tc.status, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.want) {
				t.Fatalf("body %s missing %s", rec.Body.String(), tc.want)
			}
			if s.lastW != tc.window {
				t.Fatalf("window %+v want %+v", s.lastW, tc.window)
			}
		})
	}
	if s.lastID != 8475791 {
		t.Fatalf("id not bound: %d", s.lastID)
	}
}
