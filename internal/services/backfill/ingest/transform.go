package ingest

import (
	"rinkfeed/internal/adapters/ingest/nhl"
	"rinkfeed/internal/core/pbp"
	"rinkfeed/internal/modkit"
	"rinkfeed/internal/services/backfill/domain"
)

// NewTransformer builds the reconciler with the alias file from CORE_INGEST_ALIAS_FILE layered in
func NewTransformer(deps modkit.Deps) (domain.Transformer, error) {
	tables, err := nhl.FromConfig(deps.Cfg).Tables()
	if err != nil {
		return nil, err
	}
	return pbp.NewReconciler(tables), nil
}
