package pg

import (
	"context"
	"strings"

	"rinkfeed/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent is one traced statement
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives an event per executed statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement at info, slow ones at warn.
// The tracer logger is pinned to debug so SQL logging does not depend on the root level.
func Tracer(root logger.Logger) QueryTracer {
	return &zlTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	if gp, ok := ctx.Value(gameKey{}).(int64); ok {
		evt = evt.Int64("game_pk", gp)
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

type gameKey struct{}

// WithGame tags traced statements issued under ctx with a game id
func WithGame(ctx context.Context, gamePk int64) context.Context {
	return context.WithValue(ctx, gameKey{}, gamePk)
}

// compact folds runs of whitespace so multi-line SQL logs on one line
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
