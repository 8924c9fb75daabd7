package pbp

import (
	"regexp"
	"strconv"
	"strings"
)

var penMinsRe = regexp.MustCompile(`\((\d+) min\)`)

// Penalty severities
const (
	SeverityPenaltyShot    = "penalty shot"
	SeverityBenchMinor     = "bench minor"
	SeverityMinor          = "minor"
	SeverityMajor          = "major"
	SeverityGameMisconduct = "game misconduct"
	SeverityMisconduct     = "misconduct"
	SeverityMatch          = "match"
)

// PenaltyMinutes extracts N from "(N min)"
func PenaltyMinutes(desc string) (int, bool) {
	m := penMinsRe.FindStringSubmatch(desc)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

// Severity applies the decision table in precedence order. Unlisted minute
// counts return "" rather than a guess
func Severity(mins int, desc string) string {
	desc = strings.ToLower(desc)
	switch mins {
	case 0:
		return SeverityPenaltyShot
	case 2:
		if strings.Contains(desc, "(bench") {
			return SeverityBenchMinor
		}
		return SeverityMinor
	case 4:
		return SeverityMinor
	case 5:
		return SeverityMajor
	case 10:
		switch {
		case strings.Contains(desc, "game misconduct"):
			return SeverityGameMisconduct
		case strings.Contains(desc, "misconduct"):
			return SeverityMisconduct
		}
		return SeverityMatch
	}
	return ""
}
