package modkit

import (
	"rinkfeed/internal/modkit/repokit"
	"rinkfeed/internal/platform/config"
	"rinkfeed/internal/platform/logger"
	"rinkfeed/internal/platform/store"
)

// Deps holds the core dependencies handed to every module.
// CH is nil when ClickHouse is disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}

// FromStore lifts an opened store into module deps
func FromStore(st *store.Store, cfg config.Conf) Deps {
	return Deps{Log: st.Log, Cfg: cfg, PG: st.PG, CH: st.CH}
}
