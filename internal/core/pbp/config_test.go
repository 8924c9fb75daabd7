package pbp

import (
	"testing"

	perr "rinkfeed/internal/platform/errors"
)

func TestParseConfigYAML(t *testing.T) {
	doc := []byte(`
aliases:
  PHX: ari
codes:
  pgstr: period_start
  GOAL: goal
`)
	cfg, err := ParseConfigYAML(doc)
	if err != nil {
		t.Fatalf("ParseConfigYAML: %v", err)
	}
	if cfg.Aliases.Canonical("phx") != "ari" || cfg.Aliases.Canonical("n.j") != "njd" {
		t.Fatalf("aliases = %v", cfg.Aliases)
	}
	if c, err := cfg.Codes.Categorize(1, "PGSTR"); err != nil || c != CategoryPeriodStart {
		t.Fatalf("codes = %v", cfg.Codes)
	}
}

func TestParseConfigYAML_Rejects(t *testing.T) {
	if _, err := ParseConfigYAML([]byte("codes:\n  CHL: challenge\n")); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("unknown category accepted: %v", err)
	}
	if _, err := ParseConfigYAML([]byte("aliases: [1, 2")); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("bad yaml accepted: %v", err)
	}
}
