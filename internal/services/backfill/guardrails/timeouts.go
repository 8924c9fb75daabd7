// Package guardrails holds cross cutting safety helpers for backfill
package guardrails

import (
	"context"
	"time"
)

// Timeouts is a budget bundle for a single game.
// Zero values mean no extra timeout at that level
type Timeouts struct {
	// Game is the overall budget for one game
	Game time.Duration

	// Fetch caps fetching both documents
	Fetch time.Duration

	// DB caps each persistence transaction
	DB time.Duration
}

// WithGame returns a context limited by the game budget
func WithGame(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Game)
}

// ForFetch bounds the fetch phase by Fetch and any remaining parent budget
func ForFetch(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Fetch)
}

// ForDB bounds a db phase by DB and any remaining parent budget
func ForDB(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.DB)
}

// Remaining returns the time until the deadline on ctx, zero when none is set or it already passed
func Remaining(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return 0
}

// withChildTimeout takes the tighter of d and the parent remainder; it never extends the parent
func withChildTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}
