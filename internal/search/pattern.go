package search

import (
	"regexp"
	"strings"

	"github.com/scoreforum/phorum/internal/unaccent"
)

// Boundary selects the word-boundary token emitted into compiled patterns.
//
// Two regex contexts consume the compiler's output and they do not share a
// boundary syntax: patterns handed to the message store use the store's
// boundary operator, patterns evaluated by the highlighter use the
// application engine's. Both must produce the same matches on the same
// normalized text; store_test.go and highlight_test.go pin that equivalence.
type Boundary string

const (
	// BoundaryStore is the boundary operator understood by the message
	// store's uregexp function (PostgreSQL-style \y).
	BoundaryStore Boundary = `\y`

	// BoundaryHighlight is the boundary assertion of the application-side
	// highlighting engine.
	BoundaryHighlight Boundary = `\b`
)

// BuildTokenPattern compiles one token into a regex fragment.
//
// The token is diacritics-normalized first, so compiled patterns match the
// normalized form of message text regardless of accents on either side.
// All regex metacharacters are escaped before any wildcard substitution, so
// compilation can never fail on user input.
//
// For phrase tokens '*' is literal and the fragment is anchored with word
// boundaries on both ends. For word tokens:
//
//	word   → \yword\y
//	word*  → \yword\S*
//	*word  → \S*word\y
//	*word* → \S*word\S*
//	wo*rd  → \ywo\S*rd\y
func BuildTokenPattern(token string, isPhrase bool, boundary Boundary) string {
	b := string(boundary)
	token = unaccent.String(token)

	if isPhrase {
		return b + regexp.QuoteMeta(token) + b
	}

	prefix, suffix := b, b
	if strings.HasPrefix(token, "*") {
		prefix = `\S*`
	}
	if strings.HasSuffix(token, "*") {
		suffix = `\S*`
	}

	inner := strings.Trim(token, "*")
	escaped := strings.ReplaceAll(regexp.QuoteMeta(inner), `\*`, `\S*`)

	return prefix + escaped + suffix
}

// Patterns compiles a raw query into one regex fragment per token. Matching
// a message requires every fragment independently (AND semantics); token
// order never matters.
func Patterns(query string, boundary Boundary) []string {
	tokens := ParseQuery(query)
	patterns := make([]string, 0, len(tokens))
	for _, t := range tokens {
		patterns = append(patterns, BuildTokenPattern(t.Text, t.IsPhrase, boundary))
	}
	return patterns
}
