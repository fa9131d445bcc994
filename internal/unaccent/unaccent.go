// Package unaccent strips combining diacritical marks for comparison.
//
// The result is only ever used to match or index text; stored and displayed
// text keeps its accents.
package unaccent

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripper decomposes to NFD, removes combining marks (category Mn) and
// recomposes to NFC, so "kočka" compares equal to "kocka".
var stripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// String returns s with all combining diacritical marks removed.
//
// The transform works on codepoints, not bytes; input that is not valid
// UTF-8 is returned unchanged.
func String(s string) string {
	out, _, err := transform.String(stripper, s)
	if err != nil {
		return s
	}
	return out
}
