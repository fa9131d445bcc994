package ui

import (
	"html"
	"regexp"
	"strings"
)

var (
	markSpanRe = regexp.MustCompile(`<mark class="search-highlight">(.*?)</mark>`)
	lineBrRe   = regexp.MustCompile(`<br\s*/?>`)
	htmlTagRe  = regexp.MustCompile(`<[^>]+>`)
)

// RenderHighlighted converts a highlighted HTML fragment into terminal text.
// Marked search hits keep their emphasis, <br> becomes a newline and all
// remaining markup is stripped.
func RenderHighlighted(fragment string) string {
	s := lineBrRe.ReplaceAllString(fragment, "\n")
	s = markSpanRe.ReplaceAllStringFunc(s, func(m string) string {
		inner := markSpanRe.FindStringSubmatch(m)[1]
		return Mark.Render(inner)
	})
	s = htmlTagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}
