package ingest

import (
	"context"
	"time"

	"rinkfeed/internal/platform/store"
	"rinkfeed/internal/services/backfill/domain"
)

// EventsTable is the ClickHouse table of flat events
const EventsTable = "pbp_events"

var eventColumns = []string{
	"game_pk", "season", "game_number", "event_id", "period", "period_type", "time_s",
	"type", "team", "description", "zone_away", "zone_home",
	"player_roles", "player_ids", "pen_mins", "pen_severity", "run_id", "ingested_at",
}

// chSink writes one row per event into ClickHouse
type chSink struct {
	ch  store.Clickhouse
	now func() time.Time
}

// NewEventSink returns nil when ClickHouse is disabled so the service skips the step
func NewEventSink(ch store.Clickhouse) domain.EventSink {
	if ch == nil {
		return nil
	}
	return &chSink{ch: ch, now: time.Now}
}

func (s *chSink) WriteGame(ctx context.Context, rec domain.GameRecord) error {
	if len(rec.Events) == 0 {
		return nil
	}
	return s.ch.Insert(ctx, EventsTable, eventColumns, eventRows(rec, s.now().UTC()))
}

func eventRows(rec domain.GameRecord, at time.Time) [][]any {
	g := rec.Game
	rows := make([][]any, 0, len(rec.Events))
	for _, ev := range rec.Events {
		var za, zh string
		if ev.Zones != nil {
			za, zh = string(ev.Zones[0]), string(ev.Zones[1])
		}
		roles := make([]string, len(ev.Players))
		ids := make([]int64, len(ev.Players))
		for i, p := range ev.Players {
			roles[i], ids[i] = p.Role, p.PlayerID
		}
		var pen *uint8
		if ev.PenMins != nil {
			v := uint8(*ev.PenMins)
			pen = &v
		}
		rows = append(rows, []any{
			uint64(g.GamePk()), uint16(g.Season), uint32(g.Number), uint32(ev.ID), uint8(ev.Period),
			string(ev.PeriodType), uint16(ev.Time), string(ev.Type), ev.Team, ev.Description, za, zh,
			roles, ids, pen, ev.PenSeverity, rec.RunID, at,
		})
	}
	return rows
}
