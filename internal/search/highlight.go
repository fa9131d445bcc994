package search

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/scoreforum/phorum/internal/unaccent"
)

const (
	markOpen  = `<mark class="search-highlight">`
	markClose = `</mark>`
)

// tagRe matches a single HTML tag. The highlighter never touches anything
// between '<' and '>'.
var tagRe = regexp.MustCompile(`<[^>]+>`)

// Highlight wraps every query match in rendered message HTML with a
// <mark> element. Tags pass through untouched; only text between tags is
// scanned. Matching is case-insensitive and diacritics-insensitive, while
// the wrapped slices keep the original accents and casing.
//
// Unlike search filtering, which ANDs all token patterns, highlighting ORs
// them: any token match is worth marking. The result is safe to embed as-is;
// callers must not re-escape it.
func Highlight(text, query string) template.HTML {
	if text == "" || query == "" {
		return template.HTML(text)
	}

	tokens := ParseQuery(query)
	if len(tokens) == 0 {
		return template.HTML(text)
	}

	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		parts = append(parts, "("+BuildTokenPattern(t.Text, t.IsPhrase, BoundaryHighlight)+")")
	}
	re, err := regexp2.Compile(strings.Join(parts, "|"), regexp2.IgnoreCase)
	if err != nil {
		// Escaping makes user-triggered compile errors impossible; if one
		// slips through, show the text unhighlighted rather than fail.
		return template.HTML(text)
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, tag := range tagRe.FindAllStringIndex(text, -1) {
		b.WriteString(highlightSegment(re, text[last:tag[0]]))
		b.WriteString(text[tag[0]:tag[1]])
		last = tag[1]
	}
	b.WriteString(highlightSegment(re, text[last:]))

	return template.HTML(b.String())
}

// highlightSegment marks matches in a single text segment (no tags inside).
//
// Matches are located in a diacritics-normalized copy and the same rune
// offsets slice the original segment. That identity only holds while
// normalization preserves the rune count; if it does not, the segment is
// returned unhighlighted.
func highlightSegment(re *regexp2.Regexp, segment string) string {
	if segment == "" {
		return segment
	}

	normalized := unaccent.String(segment)
	orig := []rune(segment)
	if len([]rune(normalized)) != len(orig) {
		return segment
	}

	// regexp2 match offsets are rune indexes.
	var spans [][2]int
	m, err := re.FindStringMatch(normalized)
	for err == nil && m != nil {
		if m.Length > 0 {
			spans = append(spans, [2]int{m.Index, m.Index + m.Length})
		}
		m, err = re.FindNextMatch(m)
	}
	if len(spans) == 0 {
		return segment
	}

	// Splice markers in reverse offset order so pending offsets stay valid.
	out := orig
	for i := len(spans) - 1; i >= 0; i-- {
		start, end := spans[i][0], spans[i][1]
		wrapped := make([]rune, 0, len(markOpen)+len(markClose)+(end-start))
		wrapped = append(wrapped, []rune(markOpen)...)
		wrapped = append(wrapped, out[start:end]...)
		wrapped = append(wrapped, []rune(markClose)...)
		out = append(out[:start:start], append(wrapped, out[end:]...)...)
	}
	return string(out)
}
