// Package textutil converts host-provided strings into displayable text.
package textutil

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// DecodeLossy returns s as valid UTF-8, replacing invalid byte sequences with U+FFFD.
// The second result reports whether any bytes had to be replaced.
func DecodeLossy(s string) (string, bool) {
	if utf8.ValidString(s) {
		return s, false
	}
	out, err := unicode.UTF8.NewDecoder().String(s)
	if err != nil {
		// The UTF-8 decoder only substitutes; keep a stdlib fallback anyway.
		return toValid(s), true
	}
	return out, true
}

// Display is DecodeLossy without the lost-data flag.
func Display(s string) string {
	out, _ := DecodeLossy(s)
	return out
}

func toValid(s string) string {
	buf := make([]rune, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		buf = append(buf, r)
		i += size
	}
	return string(buf)
}
