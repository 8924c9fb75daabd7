package pbp

import (
	"fmt"
	"strings"

	perr "rinkfeed/internal/platform/errors"
)

// Failure kinds. All are fatal for the game being reconciled and none are retried
var (
	ErrMalformedRow         = perr.New(perr.ErrorCodeInvalidArgument, "malformed row")
	ErrMalformedFeed        = perr.New(perr.ErrorCodeInvalidArgument, "malformed live feed")
	ErrUnsupportedEventCode = perr.New(perr.ErrorCodeInvalidArgument, "unsupported event code")
	ErrRoleExtraction       = perr.New(perr.ErrorCodeInvalidArgument, "role extraction failed")
	ErrPlayerNotFound       = perr.New(perr.ErrorCodeInvalidArgument, "player not found")
	ErrAmbiguousPlayer      = perr.New(perr.ErrorCodeInvalidArgument, "ambiguous player")
	ErrPenaltyFormat        = perr.New(perr.ErrorCodeInvalidArgument, "penalty minutes missing")
)

// Failure describes where a reconciliation stopped. errors.Is matches its Kind
type Failure struct {
	Kind     error
	EventID  int
	Category Category
	Team     string
	Jersey   int
	Detail   string
}

func (f *Failure) Error() string {
	var b strings.Builder
	b.WriteString("pbp: ")
	b.WriteString(f.Kind.Error())
	if f.EventID > 0 {
		fmt.Fprintf(&b, ": event %d", f.EventID)
	}
	if f.Category != "" {
		fmt.Fprintf(&b, " (%s)", f.Category)
	}
	if f.Team != "" {
		fmt.Fprintf(&b, " team %s jersey %d", f.Team, f.Jersey)
	}
	if f.Detail != "" {
		b.WriteString(": ")
		b.WriteString(f.Detail)
	}
	return b.String()
}

func (f *Failure) Unwrap() error { return f.Kind }

func malformed(id int, format string, a ...any) error {
	return &Failure{Kind: ErrMalformedRow, EventID: id, Detail: fmt.Sprintf(format, a...)}
}

func roleFailure(id int, cat Category, format string, a ...any) error {
	return &Failure{Kind: ErrRoleExtraction, EventID: id, Category: cat, Detail: fmt.Sprintf(format, a...)}
}
