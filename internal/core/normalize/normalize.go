// Package normalize cleans play descriptions scraped from the HTML report
// Pipeline order
// 1 drop controls and invalid UTF-8 bytes
// 2 Unicode NFKC (turns &nbsp; into a plain space)
// 3 remove format chars (ZWSP, ZWJ, BOM)
// 4 width fold fullwidth to ASCII
// 5 collapse whitespace runs to one space and trim
//
// Fold additionally case folds and strips combining marks so grammars can
// match on plain lowercase ASCII
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is safe for concurrent use
type Normalizer struct{}

var cleanPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Clean returns the display form of a description: readable, single spaced, case preserved
func (n *Normalizer) Clean(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)
	s = run(&cleanPool, s)
	return collapseSpaces(s)
}

// Fold returns the matching form of s: Clean plus case folding and accent stripping
func (n *Normalizer) Fold(s string) string {
	s = n.Clean(s)
	if s == "" {
		return s
	}
	return run(&foldPool, s)
}

func run(p *sync.Pool, s string) string {
	tr := p.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	p.Put(tr)
	if err != nil {
		return s
	}
	return out
}

// collapseSpaces turns every whitespace run, line breaks included, into a single ASCII space
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
