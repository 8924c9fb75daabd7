package pbp

import "fmt"

// Resolver turns role tokens into roster player ids
type Resolver struct {
	index   *RosterIndex
	aliases AliasTable
}

// NewResolver binds an index to the alias table used to canonicalize token teams
func NewResolver(ix *RosterIndex, aliases AliasTable) *Resolver {
	return &Resolver{index: ix, aliases: aliases}
}

// Resolve maps every token or fails on the first one that has no single match
func (r *Resolver) Resolve(eventID int, cat Category, toks []RoleToken) ([]Player, error) {
	out := make([]Player, 0, len(toks))
	for _, t := range toks {
		team := r.aliases.Canonical(t.Team)
		k := rosterKey{team: team, jersey: t.Jersey}
		if ids, dup := r.index.dupes[k]; dup {
			return nil, &Failure{
				Kind: ErrAmbiguousPlayer, EventID: eventID, Category: cat,
				Team: team, Jersey: t.Jersey, Detail: fmt.Sprintf("candidates %v", ids),
			}
		}
		id, ok := r.index.players[k]
		if !ok {
			return nil, &Failure{Kind: ErrPlayerNotFound, EventID: eventID, Category: cat, Team: team, Jersey: t.Jersey}
		}
		out = append(out, Player{Role: t.Role, PlayerID: id})
	}
	return out, nil
}
