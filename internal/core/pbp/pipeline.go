package pbp

import (
	"bytes"

	"rinkfeed/internal/core/normalize"
)

// Config holds the static tables the stages consult
type Config struct {
	Codes   CodeTable
	Aliases AliasTable
}

// DefaultConfig returns the built in code and alias tables
func DefaultConfig() Config {
	return Config{Codes: DefaultCodes(), Aliases: DefaultAliases()}
}

// Reconciler runs the stage pipeline for one game at a time. It holds no
// per-game state and is safe for concurrent use
type Reconciler struct {
	cfg  Config
	norm *normalize.Normalizer
}

// NewReconciler fills missing tables with defaults
func NewReconciler(cfg Config) *Reconciler {
	if cfg.Codes == nil {
		cfg.Codes = DefaultCodes()
	}
	if cfg.Aliases == nil {
		cfg.Aliases = DefaultAliases()
	}
	return &Reconciler{cfg: cfg, norm: normalize.New()}
}

// Result is a reconciled game
type Result struct {
	Game   GameRef
	Away   string // canonical feed codes
	Home   string
	Events []Event
	Roster []RosterPlayer
	Feed   []byte // live feed with allPlays filled in
}

// Reconcile parses both documents and merges them
func (r *Reconciler) Reconcile(game GameRef, report, feed []byte) (*Result, error) {
	rep, err := ParseReport(bytes.NewReader(report))
	if err != nil {
		return nil, err
	}
	f, err := ParseFeed(feed)
	if err != nil {
		return nil, err
	}
	events, err := r.Transform(game, rep, BuildRosterIndex(f.Roster))
	if err != nil {
		return nil, err
	}
	merged, err := f.WithPlays(events)
	if err != nil {
		return nil, err
	}
	return &Result{Game: game, Away: f.Away, Home: f.Home, Events: events, Roster: f.Roster, Feed: merged}, nil
}

// draft is one event under construction; stages only add fields
type draft struct {
	row    RawPlayRow
	folded string
	tokens []RoleToken
	ev     Event
}

type stage func(d *draft) error

// Transform turns report rows into events. Any failure discards every event
func (r *Reconciler) Transform(game GameRef, rep *Report, ix *RosterIndex) ([]Event, error) {
	sides := Header{Away: r.cfg.Aliases.Canonical(rep.Header.Away), Home: r.cfg.Aliases.Canonical(rep.Header.Home)}
	resolver := NewResolver(ix, r.cfg.Aliases)

	stages := []stage{
		r.basics(game),
		r.categorize,
		r.attribute(rep.Header),
		r.zones(sides),
		r.extract(sides),
		r.resolve(resolver),
		r.penalty,
	}

	events := make([]Event, 0, len(rep.Rows))
	last := 0
	for _, row := range rep.Rows {
		if row.ID <= last {
			return nil, malformed(row.ID, "event id %d does not follow %d", row.ID, last)
		}
		last = row.ID

		d := &draft{row: row}
		for _, st := range stages {
			if err := st(d); err != nil {
				return nil, err
			}
		}
		events = append(events, d.ev)
	}
	return events, nil
}

func (r *Reconciler) basics(game GameRef) stage {
	return func(d *draft) error {
		secs, ok := TimeSeconds(d.row.Elapsed)
		if !ok {
			return malformed(d.row.ID, "bad time %q", d.row.Elapsed)
		}
		desc := r.norm.Clean(d.row.Description)
		d.folded = r.norm.Fold(desc)
		d.ev = Event{
			ID:          d.row.ID,
			Period:      d.row.Period,
			PeriodType:  PeriodTypeOf(d.row.Period, game),
			Time:        secs,
			Description: desc,
		}
		return nil
	}
}

func (r *Reconciler) categorize(d *draft) error {
	c, err := r.cfg.Codes.Categorize(d.row.ID, d.row.Code)
	if err != nil {
		return err
	}
	d.ev.Type = c
	return nil
}

func (r *Reconciler) attribute(hdr Header) stage {
	return func(d *draft) error {
		d.ev.Team = attributeTeam(d.folded, hdr, r.cfg.Aliases)
		return nil
	}
}

func (r *Reconciler) zones(sides Header) stage {
	return func(d *draft) error {
		d.ev.Zones = resolveZones(d.folded, d.ev.Team, sides.Away, d.ev.Type)
		return nil
	}
}

func (r *Reconciler) extract(sides Header) stage {
	return func(d *draft) error {
		g, ok := GrammarFor(d.ev.Type)
		if !ok {
			return nil
		}
		toks, err := g(d.folded, d.ev.Team, sides)
		if err != nil {
			return roleFailure(d.row.ID, d.ev.Type, "%v", err)
		}
		if len(toks) == 0 {
			return roleFailure(d.row.ID, d.ev.Type, "no players")
		}
		d.tokens = toks
		return nil
	}
}

func (r *Reconciler) resolve(res *Resolver) stage {
	return func(d *draft) error {
		if len(d.tokens) == 0 {
			return nil
		}
		players, err := res.Resolve(d.row.ID, d.ev.Type, d.tokens)
		if err != nil {
			return err
		}
		d.ev.Players = players
		return nil
	}
}

func (r *Reconciler) penalty(d *draft) error {
	if d.ev.Type != CategoryPenalty {
		return nil
	}
	mins, ok := PenaltyMinutes(d.folded)
	if !ok {
		return &Failure{Kind: ErrPenaltyFormat, EventID: d.row.ID, Category: CategoryPenalty, Detail: d.ev.Description}
	}
	d.ev.PenMins = &mins
	d.ev.PenSeverity = Severity(mins, d.folded)
	return nil
}
