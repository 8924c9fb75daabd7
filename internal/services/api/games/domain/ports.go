package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Plays(ctx context.Context, gamePk int64) (Plays, error)
	Combine(ctx context.Context, in CombineInput) (Combined, error)
}
