package pbp

import "strings"

// CodeTable maps report type codes (upper case) to categories
type CodeTable map[string]Category

// DefaultCodes returns the codes used by the PL report layout
func DefaultCodes() CodeTable {
	return CodeTable{
		"PSTR":  CategoryPeriodStart,
		"PEND":  CategoryPeriodEnd,
		"GEND":  CategoryGameEnd,
		"FAC":   CategoryFaceoff,
		"STOP":  CategoryStop,
		"GOAL":  CategoryGoal,
		"SHOT":  CategoryShot,
		"BLOCK": CategoryBlockedShot,
		"MISS":  CategoryMissedShot,
		"TAKE":  CategoryTakeaway,
		"GIVE":  CategoryGiveaway,
		"HIT":   CategoryHit,
		"PENL":  CategoryPenalty,
	}
}

// Categorize looks code up case-insensitively. Unknown codes fail the game
// rather than being guessed at
func (t CodeTable) Categorize(eventID int, code string) (Category, error) {
	c, ok := t[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return "", &Failure{Kind: ErrUnsupportedEventCode, EventID: eventID, Detail: code}
	}
	return c, nil
}

// Merge returns a copy of t with extra entries added or overriding
func (t CodeTable) Merge(extra map[string]string) CodeTable {
	out := make(CodeTable, len(t)+len(extra))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range extra {
		out[strings.ToUpper(strings.TrimSpace(k))] = Category(v)
	}
	return out
}
