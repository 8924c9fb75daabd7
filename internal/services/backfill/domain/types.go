// Package domain holds the data structures and ports of the game backfill
package domain

import (
	"rinkfeed/internal/adapters/ingest/nhl"
	"rinkfeed/internal/core/pbp"
)

// GameRef re-exports the game key shared by the fetcher and the reconciler
type GameRef = pbp.GameRef

// Documents re-exports the fetched inputs of one game
type Documents = nhl.Documents

// Ledger statuses of ingest_games
const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusError   = "error"
)

// GameRecord is everything persisted for one reconciled game
type GameRecord struct {
	Game   GameRef
	RunID  string
	Away   string
	Home   string
	Roster []pbp.RosterPlayer
	Events []pbp.Event
}

// GameFinish is the ledger row written when a game completes or fails
type GameFinish struct {
	Status      string
	RunID       string
	CacheHits   int
	ReportBytes int
	FeedBytes   int
	Events      int
	Players     int
	FetchMS     int
	TransformMS int
	DBMS        int
	SinkMS      int
	ElapsedMS   int
	ErrCode     string
	ErrText     string
}
