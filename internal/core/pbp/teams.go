package pbp

import "strings"

// AliasTable maps report abbreviations to canonical feed codes, both lowercase.
// Codes not listed are already canonical
type AliasTable map[string]string

// DefaultAliases covers the punctuated codes the report uses
func DefaultAliases() AliasTable {
	return AliasTable{
		"n.j": "njd",
		"t.b": "tbl",
		"l.a": "lak",
		"s.j": "sjs",
	}
}

// Canonical returns the feed form of a report code
func (a AliasTable) Canonical(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if c, ok := a[code]; ok {
		return c
	}
	return code
}

// Merge returns a copy of a with extra entries added or overriding
func (a AliasTable) Merge(extra map[string]string) AliasTable {
	out := make(AliasTable, len(a)+len(extra))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range extra {
		out[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}

// attributeTeam matches the first word of a folded description against the raw
// header codes and returns the canonical code, or "" when the event names no team
func attributeTeam(folded string, hdr Header, aliases AliasTable) string {
	first, _, _ := strings.Cut(folded, " ")
	if first == "" {
		return ""
	}
	for _, raw := range [...]string{hdr.Away, hdr.Home} {
		if first == strings.ToLower(strings.TrimSpace(raw)) {
			return aliases.Canonical(raw)
		}
	}
	return ""
}
