package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize drops bytes that never belong in a stored description:
// NUL and other ASCII controls (tab, CR and LF survive as whitespace), DEL,
// the C1 block U+0080..U+009F, and invalid UTF-8.
// Clean input is returned unchanged without allocating
func Sanitize(s string) string {
	i := cleanPrefix(s)
	if i == len(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
	for i < len(s) {
		c := s[i]
		if c < utf8.RuneSelf {
			if keepASCII(c) {
				b.WriteByte(c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if keepRune(r, size) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// cleanPrefix returns the length of the longest prefix needing no changes
func cleanPrefix(s string) int {
	i := 0
	for i < len(s) {
		c := s[i]
		if c < utf8.RuneSelf {
			if !keepASCII(c) {
				return i
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if !keepRune(r, size) {
			return i
		}
		i += size
	}
	return i
}

func keepASCII(c byte) bool {
	switch {
	case c == '\n' || c == '\r' || c == '\t':
		return true
	case c < 0x20 || c == 0x7F:
		return false
	}
	return true
}

func keepRune(r rune, size int) bool {
	if r == utf8.RuneError && size == 1 {
		return false
	}
	return r < 0x80 || r > 0x9F
}
