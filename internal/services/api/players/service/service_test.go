package service

import (
	"context"
	"testing"

	"rinkfeed/internal/core/pbp"
	perr "rinkfeed/internal/platform/errors"
	"rinkfeed/internal/services/api/players/domain"
	"rinkfeed/internal/services/api/players/repo"
)

type fakeRepo struct {
	players map[int64]domain.Player
	rows    []repo.EventRow

	lastLimit, lastOffset int
}

func (r *fakeRepo) Player(_ context.Context, id int64) (domain.Player, bool, error) {
	p, ok := r.players[id]
	return p, ok, nil
}

func (r *fakeRepo) CountEvents(context.Context, int64) (int, error) { return len(r.rows), nil }

func (r *fakeRepo) Events(_ context.Context, _ int64, limit, offset int) ([]repo.EventRow, error) {
	r.lastLimit, r.lastOffset = limit, offset
	end := min(offset+limit, len(r.rows))
	if offset >= end {
		return nil, nil
	}
	return r.rows[offset:end], nil
}

const kadri = 8475172

func newSvc() (*Svc, *fakeRepo) {
	r := &fakeRepo{
		players: map[int64]domain.Player{kadri: {ID: kadri, Name: "Nazem Kadri", Team: "tor"}},
		rows: []repo.EventRow{
			{GamePk: 2016020001, Event: pbp.Event{ID: 2, Type: pbp.CategoryFaceoff, Players: []pbp.Player{
				{Role: pbp.RoleWinner, PlayerID: kadri}, {Role: pbp.RoleLoser, PlayerID: 8471233}}}},
			{GamePk: 2016020001, Event: pbp.Event{ID: 9, Type: pbp.CategoryGoal, Players: []pbp.Player{
				{Role: pbp.RoleScorer, PlayerID: 8478483}, {Role: pbp.RoleAssist(1), PlayerID: kadri}}}},
		},
	}
	return &Svc{Repo: r}, r
}

func TestPlayer(t *testing.T) {
	s, _ := newSvc()
	p, err := s.Player(context.Background(), kadri)
	if err != nil || p.Name != "Nazem Kadri" {
		t.Fatalf("got %+v err %v", p, err)
	}
	if _, err := s.Player(context.Background(), 1); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing player err = %v", err)
	}
}

func TestEvents(t *testing.T) {
	s, r := newSvc()
	out, total, err := s.Events(context.Background(), kadri, domain.Window{})
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if total != 2 || len(out) != 2 || r.lastLimit != DefaultLimit {
		t.Fatalf("total %d len %d limit %d", total, len(out), r.lastLimit)
	}
	if out[0].Roles[0] != pbp.RoleWinner || out[1].Roles[0] != "assist1" {
		t.Fatalf("roles %v %v", out[0].Roles, out[1].Roles)
	}

	out, _, err = s.Events(context.Background(), kadri, domain.Window{Limit: 1, Offset: 1})
	if err != nil || len(out) != 1 || out[0].Event.ID != 9 {
		t.Fatalf("second page %+v err %v", out, err)
	}
}

func TestEventsRejects(t *testing.T) {
	s, _ := newSvc()
	cases := []struct {
		name string
		id   int64
		w    domain.Window
		code perr.ErrorCode
	}{
		{"limit too big", kadri, domain.Window{Limit: MaxLimit + 1}, perr.ErrorCodeValidation},
		{"negative offset", kadri, domain.Window{Offset: -1}, perr.ErrorCodeValidation},
		{"unknown player", 42, domain.Window{}, perr.ErrorCodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := s.Events(context.Background(), tc.id, tc.w)
			if !perr.IsCode(err, tc.code) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}
