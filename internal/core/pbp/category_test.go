package pbp

import "testing"

func TestCategorize(t *testing.T) {
	codes := DefaultCodes()
	cases := map[string]Category{
		"PSTR": CategoryPeriodStart, "pend": CategoryPeriodEnd, "GEND": CategoryGameEnd,
		"Fac": CategoryFaceoff, "STOP": CategoryStop, "GOAL": CategoryGoal, "SHOT": CategoryShot,
		"BLOCK": CategoryBlockedShot, "MISS": CategoryMissedShot, "TAKE": CategoryTakeaway,
		"GIVE": CategoryGiveaway, " HIT ": CategoryHit, "PENL": CategoryPenalty,
	}
	for code, want := range cases {
		got, err := codes.Categorize(1, code)
		if err != nil || got != want {
			t.Fatalf("Categorize(%q) = %q,%v want %q", code, got, err, want)
		}
	}

	_, err := codes.Categorize(42, "CHL")
	f := mustFail(t, err, ErrUnsupportedEventCode)
	if f.EventID != 42 || f.Detail != "CHL" {
		t.Fatalf("failure = %+v", f)
	}
}

func TestCodeTableMerge(t *testing.T) {
	base := DefaultCodes()
	merged := base.Merge(map[string]string{"pgstr": "period_start"})
	if merged["PGSTR"] != CategoryPeriodStart {
		t.Fatalf("merge did not upper-case key: %v", merged)
	}
	if _, ok := base["PGSTR"]; ok {
		t.Fatalf("merge mutated the receiver")
	}
}

func TestGrammarForCoversRoleBearingSet(t *testing.T) {
	bearing := []Category{CategoryHit, CategoryBlockedShot, CategoryMissedShot, CategoryShot, CategoryFaceoff, CategoryGoal, CategoryPenalty}
	for _, c := range bearing {
		if _, ok := GrammarFor(c); !ok {
			t.Fatalf("no grammar for %s", c)
		}
	}
	for _, c := range []Category{CategoryPeriodStart, CategoryPeriodEnd, CategoryGameEnd, CategoryStop, CategoryTakeaway, CategoryGiveaway} {
		if _, ok := GrammarFor(c); ok {
			t.Fatalf("unexpected grammar for %s", c)
		}
	}
}
