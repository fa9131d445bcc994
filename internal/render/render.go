// Package render turns raw message text into the HTML the forum displays
// and the highlighter annotates.
package render

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// md renders message markdown. Hard wraps mirror the forum convention that
// a newline in a post is a line break. Raw HTML in the source is escaped,
// so rendered output contains only markup goldmark produced.
var md = goldmark.New(
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Message renders a message body to embeddable HTML.
func Message(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
