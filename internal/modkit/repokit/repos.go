// Package repokit is the small surface repositories code against
package repokit

import (
	"context"

	"rinkfeed/internal/platform/store"
)

type (
	// Queryer is the read and write surface for SQL repos
	Queryer = store.RowQuerier

	// TxRunner runs a function inside a transaction
	TxRunner = store.TxRunner

	// Rows is a result set
	Rows = store.Rows

	// Row is a single row result
	Row = store.Row
)

// WithTx binds a repo to the transaction's Queryer and runs fn
func WithTx[T any](ctx context.Context, db TxRunner, b Binder[T], fn func(T) error) error {
	return db.Tx(ctx, func(q Queryer) error { return fn(MustBind(b, q)) })
}
