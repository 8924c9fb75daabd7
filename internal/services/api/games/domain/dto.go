// Package domain holds DTOs and ports for the games API
package domain

import (
	"time"

	"rinkfeed/internal/core/pbp"
)

// CombineInput asks for a live fetch and reconcile of one game
type CombineInput struct {
	Season int `json:"season" validate:"required,min=1917,max=2100" example:"2016"`
	Game   int `json:"game" validate:"required,game_number" example:"20001"`
}

// Ref returns the game the input names
func (in CombineInput) Ref() pbp.GameRef { return pbp.GameRef{Season: in.Season, Number: in.Game} }

// Game is a stored game header
type Game struct {
	GamePk     int64     `json:"gamePk" example:"2016020001"`
	Season     int       `json:"season" example:"2016"`
	GameNumber int       `json:"gameNumber" example:"20001"`
	GameType   int       `json:"gameType" example:"2"`
	Away       string    `json:"away" example:"tor"`
	Home       string    `json:"home" example:"ott"`
	EventCount int       `json:"eventCount" example:"312"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Plays is a game header with its normalized events
type Plays struct {
	Game   Game        `json:"game"`
	Events []pbp.Event `json:"events"`
}

// Combined is the result of a live combine; nothing is stored
type Combined struct {
	GamePk int64       `json:"gamePk" example:"2016020001"`
	Away   string      `json:"away" example:"tor"`
	Home   string      `json:"home" example:"ott"`
	Roster int         `json:"roster" example:"40"`
	Events []pbp.Event `json:"events"`
}
