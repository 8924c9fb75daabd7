package pbp

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"rinkfeed/internal/core/normalize"
)

// Report is the parsed HTML play-by-play: declared teams and event rows
type Report struct {
	Header Header
	Rows   []RawPlayRow
}

// report cell positions inside an event row
const (
	cellID          = 0
	cellPeriod      = 1
	cellTime        = 3
	cellCode        = 4
	cellDescription = 5
	minCells        = cellDescription + 1
)

const onIceSuffix = " on ice"

// ParseReport reads the PL report. Rows are <tr class="evenColor"> elements whose
// <td class="bborder"> cells hold id, period, strength, time, type and description.
// The away and home codes come from the first two "XXX On Ice" heading cells
func ParseReport(r io.Reader) (*Report, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, malformed(0, "parse html: %v", err)
	}
	return parseReportTree(doc, normalize.New())
}

func parseReportTree(doc *html.Node, norm *normalize.Normalizer) (*Report, error) {
	rep := &Report{}
	var teams []string
	var failed error
	last := 0

	walk(doc, func(n *html.Node) bool {
		if failed != nil {
			return false
		}
		switch {
		case n.DataAtom == atom.Tr && hasClass(n, "evenColor"):
			row, err := parseRow(n, norm)
			if err != nil {
				failed = err
				return false
			}
			if row.ID <= last {
				failed = malformed(row.ID, "event id %d does not follow %d", row.ID, last)
				return false
			}
			last = row.ID
			rep.Rows = append(rep.Rows, row)
			return false
		case len(teams) < 2 && isTeamHeading(n):
			if code, ok := teamFromHeading(cellText(n, norm)); ok {
				teams = append(teams, code)
			}
			return false
		}
		return true
	})
	if failed != nil {
		return nil, failed
	}
	if len(teams) < 2 {
		return nil, malformed(0, "found %d of 2 team heading cells", len(teams))
	}
	rep.Header = Header{Away: teams[0], Home: teams[1]}
	return rep, nil
}

func parseRow(tr *html.Node, norm *normalize.Normalizer) (RawPlayRow, error) {
	var cells [][]string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Td && hasClass(c, "bborder") {
			cells = append(cells, cellSegments(c, norm))
		}
	}
	if len(cells) < minCells {
		return RawPlayRow{}, malformed(0, "row has %d cells, want at least %d", len(cells), minCells)
	}

	id, err := strconv.Atoi(strings.Join(cells[cellID], ""))
	if err != nil || id <= 0 {
		return RawPlayRow{}, malformed(0, "bad event id %q", strings.Join(cells[cellID], ""))
	}
	period, err := strconv.Atoi(strings.Join(cells[cellPeriod], ""))
	if err != nil || period <= 0 {
		return RawPlayRow{}, malformed(id, "bad period %q", strings.Join(cells[cellPeriod], ""))
	}
	elapsed := strings.Join(cells[cellTime], " ")
	if _, ok := TimeSeconds(elapsed); !ok {
		return RawPlayRow{}, malformed(id, "bad time %q", elapsed)
	}
	code := strings.Join(cells[cellCode], "")
	if code == "" {
		return RawPlayRow{}, malformed(id, "empty event type")
	}

	return RawPlayRow{
		ID:          id,
		Period:      period,
		Elapsed:     elapsed,
		Code:        code,
		Description: strings.Join(cells[cellDescription], " "),
	}, nil
}

// TimeSeconds reduces "MM:SS<sep>MM:SS" to 60*MM+SS using the first pair
func TimeSeconds(elapsed string) (int, bool) {
	f := strings.Fields(elapsed)
	if len(f) == 0 {
		return 0, false
	}
	mm, ss, ok := strings.Cut(f[0], ":")
	if !ok {
		return 0, false
	}
	if !digits(mm) || !digits(ss) {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, false
	}
	s, err := strconv.Atoi(ss)
	if err != nil || s >= 60 {
		return 0, false
	}
	return 60*m + s, true
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isTeamHeading(n *html.Node) bool {
	if n.DataAtom != atom.Td || !hasClass(n, "heading") || !hasClass(n, "bborder") {
		return false
	}
	w, _ := attr(n, "width")
	return w == "10%"
}

// teamFromHeading turns "TOR On Ice" into "tor"
func teamFromHeading(text string) (string, bool) {
	low := strings.ToLower(text)
	i := strings.Index(low, onIceSuffix)
	if i <= 0 {
		return "", false
	}
	code := strings.TrimSpace(low[:i])
	return code, code != ""
}

// cellSegments returns the cleaned text of a cell split at <br> elements.
// Empty segments are dropped
func cellSegments(n *html.Node, norm *normalize.Normalizer) []string {
	var segs []string
	var cur strings.Builder
	flush := func() {
		if s := norm.Clean(cur.String()); s != "" {
			segs = append(segs, s)
		}
		cur.Reset()
	}
	walk(n, func(c *html.Node) bool {
		switch {
		case c.Type == html.TextNode:
			cur.WriteString(c.Data)
		case c.DataAtom == atom.Br:
			flush()
		}
		return true
	})
	flush()
	return segs
}

func cellText(n *html.Node, norm *normalize.Normalizer) string {
	return strings.Join(cellSegments(n, norm), " ")
}

// walk visits n and its descendants depth first; visit returns false to skip children
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}
