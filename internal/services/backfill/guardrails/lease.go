package guardrails

import (
	"context"
	"errors"

	"rinkfeed/internal/modkit/repokit"
	"rinkfeed/internal/services/backfill/domain"
)

// ErrLeaseHeld signals another worker already claimed the game
var ErrLeaseHeld = errors.New("backfill: game lease already held")

// LeaseFunc runs do while holding the claim on g
type LeaseFunc func(ctx context.Context, g domain.GameRef, runID string, do func(context.Context) error) error

// MakeAdvisoryLease claims a game through ingest_game_leases. The claim is
// keyed by game and run, so a rerun with a fresh run id may take the game
// again while two workers of the same run never overlap.
// The row is not released; it doubles as an audit of who processed what
func MakeAdvisoryLease(db repokit.TxRunner) LeaseFunc {
	return func(ctx context.Context, g domain.GameRef, runID string, do func(context.Context) error) error {
		var claimed bool
		err := db.Tx(ctx, func(q repokit.Queryer) error {
			rows, err := q.Query(ctx, `
				insert into ingest_game_leases (game_pk, run_id)
				values ($1, $2)
				on conflict (game_pk, run_id) do nothing
				returning true
			`, g.GamePk(), runID)
			if err != nil {
				return err
			}
			defer rows.Close()
			claimed = rows.Next()
			return rows.Err()
		})
		if err != nil {
			return err
		}
		if !claimed {
			return ErrLeaseHeld
		}
		return do(ctx)
	}
}
