// Package domain holds DTOs and ports for the players API
package domain

import (
	"context"
	"time"

	"rinkfeed/internal/core/pbp"
)

// Player is a stored roster entry, last writer wins across games
type Player struct {
	ID         int64     `json:"id" example:"8475172"`
	Name       string    `json:"name" example:"Nazem Kadri"`
	Position   string    `json:"position,omitempty" example:"C"`
	Team       string    `json:"team" example:"tor"`
	Jersey     *int      `json:"jersey,omitempty" example:"43"`
	LastGamePk int64     `json:"lastGamePk" example:"2016020001"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Window is an offset page request
type Window struct {
	Limit  int
	Offset int
}

// PlayerEvent is one play a player took part in
type PlayerEvent struct {
	GamePk int64     `json:"gamePk" example:"2016020001"`
	Roles  []string  `json:"roles" example:"winner"`
	Event  pbp.Event `json:"event"`
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Player(ctx context.Context, id int64) (Player, error)
	Events(ctx context.Context, id int64, w Window) ([]PlayerEvent, int, error)
}
