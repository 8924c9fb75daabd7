package domain

import (
	"context"

	"rinkfeed/internal/core/pbp"
)

// RunnerPort is the surface the backfill command drives
type RunnerPort interface {
	PlanRange(ctx context.Context, season, from, to int) (int, error)
	RunRange(ctx context.Context, season, from, to int) error
	RunResume(ctx context.Context) error
}

// StorageRepo is bound to one transaction at a time
type StorageRepo interface {
	// PreseedGames inserts pending ledger rows, requeues failed ones, and returns how many it touched
	PreseedGames(ctx context.Context, games []GameRef) (int, error)

	// NextGame claims the lowest pending game inside the range; failed games
	// come back only through RequeueFailed or PreseedGames
	NextGame(ctx context.Context, season, from, to int) (GameRef, bool, error)

	// NextGameAny claims the lowest pending game of any season
	NextGameAny(ctx context.Context) (GameRef, bool, error)

	// RequeueFailed puts every failed game back in the queue
	RequeueFailed(ctx context.Context) (int, error)

	// StartGame marks a game running
	StartGame(ctx context.Context, g GameRef, runID string) error

	// FinishGame records the outcome of one attempt
	FinishGame(ctx context.Context, g GameRef, fin GameFinish) error

	// ReplaceGame upserts the game row and roster and swaps its plays
	ReplaceGame(ctx context.Context, rec GameRecord) error
}

// Fetcher returns both documents of a game
type Fetcher interface {
	FetchGame(ctx context.Context, g GameRef) (Documents, error)
}

// Transformer reconciles the documents into events
type Transformer interface {
	Reconcile(g GameRef, report, feed []byte) (*pbp.Result, error)
}

// EventSink receives the flat event rows of a game (ClickHouse)
type EventSink interface {
	WriteGame(ctx context.Context, rec GameRecord) error
}

// Archive keeps the enriched feed document of a game
type Archive interface {
	Write(g GameRef, feed []byte) error
}
