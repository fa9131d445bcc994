package render

import (
	"strings"
	"testing"
)

func TestMessageRendersMarkdown(t *testing.T) {
	got, err := Message("the **cat** chases a dog")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "<strong>cat</strong>") {
		t.Errorf("expected bold cat, got %q", got)
	}
}

func TestMessageHardWraps(t *testing.T) {
	got, err := Message("line one\nline two")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "<br") {
		t.Errorf("expected newline to render as <br>, got %q", got)
	}
}

func TestMessageEscapesRawHTML(t *testing.T) {
	got, err := Message(`<script>alert("x")</script>`)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(got), "<script>") {
		t.Errorf("raw HTML must be escaped, got %q", got)
	}
}
