package pbp

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestParseReport_Fixture(t *testing.T) {
	rep, err := ParseReport(bytes.NewReader(readFixture(t, "PL020001.HTM")))
	if err != nil {
		t.Fatalf("ParseReport: %v", err)
	}
	if rep.Header != (Header{Away: "n.j", Home: "tor"}) {
		t.Fatalf("header = %+v", rep.Header)
	}
	if len(rep.Rows) != 13 {
		t.Fatalf("rows = %d, want 13", len(rep.Rows))
	}
	for i, r := range rep.Rows {
		if r.ID != i+1 {
			t.Fatalf("row %d id = %d", i, r.ID)
		}
	}

	fac := rep.Rows[1]
	if fac.Code != "FAC" || fac.Period != 1 || fac.Elapsed != "0:00 20:00" {
		t.Fatalf("faceoff row = %+v", fac)
	}
	goal := rep.Rows[8]
	want := "TOR #16 MARNER(1), Wrist, Off. Zone, 11 ft. Assists: #43 KADRI(1); #3 PHANEUF(1)"
	if goal.Description != want {
		t.Fatalf("goal description = %q, want %q", goal.Description, want)
	}
	if give := rep.Rows[6].Description; give != "N.J GIVEAWAY - #19 ZAJAC, Def. Zone" {
		t.Fatalf("nbsp not cleaned: %q", give)
	}
}

const reportHead = `<table><tr>
<td class="heading + bborder" width="10%">MTL On Ice</td>
<td class="heading + bborder" width="10%">TOR On Ice</td>
</tr>`

func row(cells ...string) string {
	var b strings.Builder
	b.WriteString(`<tr class="evenColor">`)
	for _, c := range cells {
		b.WriteString(`<td class=" + bborder">` + c + `</td>`)
	}
	b.WriteString(`</tr>`)
	return b.String()
}

func TestParseReport_Malformed(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"missing headers", `<table>` + row("1", "1", "", "0:00<br>20:00", "PSTR", "Period Start") + `</table>`},
		{"short row", reportHead + row("1", "1", "", "0:00<br>20:00", "PSTR") + `</table>`},
		{"bad id", reportHead + row("x", "1", "", "0:00<br>20:00", "PSTR", "Period Start") + `</table>`},
		{"bad period", reportHead + row("1", "OT", "", "0:00<br>20:00", "PSTR", "Period Start") + `</table>`},
		{"seconds overflow", reportHead + row("1", "1", "", "0:60<br>19:00", "PSTR", "Period Start") + `</table>`},
		{"non numeric time", reportHead + row("1", "1", "", "-:--<br>20:00", "PSTR", "Period Start") + `</table>`},
		{"id goes backwards", reportHead +
			row("2", "1", "", "0:00<br>20:00", "PSTR", "Period Start") +
			row("1", "1", "", "0:00<br>20:00", "FAC", "MTL won Neu. Zone") + `</table>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseReport(strings.NewReader(tc.doc))
			mustFail(t, err, ErrMalformedRow)
		})
	}
}

func TestTimeSeconds(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"0:00 20:00", 0, true},
		{"12:34 7:26", 754, true},
		{"19:59", 1199, true},
		{"5:00\n0:00", 300, true},
		{"1:60 18:00", 0, false},
		{"1:-1 18:00", 0, false},
		{"-1:00", 0, false},
		{"+1:00", 0, false},
		{"-0:30 19:30", 0, false},
		{"0:-0 20:00", 0, false},
		{"0: 30", 0, false},
		{"1:5x", 0, false},
		{"100", 0, false},
		{"", 0, false},
		{"a:b", 0, false},
	}
	for _, c := range cases {
		got, ok := TimeSeconds(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("TimeSeconds(%q) = %d,%v want %d,%v", c.in, got, ok, c.want, c.ok)
		}
	}
	// every valid MM:SS reduces to 60*MM+SS
	for mm := 0; mm < 21; mm++ {
		for ss := 0; ss < 60; ss++ {
			in := fmt.Sprintf("%d:%02d %d:%02d", mm, ss, 20-mm, 0)
			if got, ok := TimeSeconds(in); !ok || got != 60*mm+ss {
				t.Fatalf("TimeSeconds(%q) = %d,%v", in, got, ok)
			}
		}
	}
}

func TestTeamFromHeading(t *testing.T) {
	cases := map[string]string{"TOR On Ice": "tor", "N.J On Ice": "n.j", " s.j  On Ice ": "s.j"}
	for in, want := range cases {
		if got, ok := teamFromHeading(in); !ok || got != want {
			t.Fatalf("teamFromHeading(%q) = %q,%v", in, got, ok)
		}
	}
	if _, ok := teamFromHeading("On Ice"); ok {
		t.Fatalf("empty code accepted")
	}
}
