// Package search implements the forum's free-text search: query parsing,
// pattern compilation, access-scoped execution and result highlighting.
package search

import "regexp"

// SearchToken is one parsed unit of a search query: either a quoted phrase
// or a single word. Wildcard characters stay in Text; the pattern compiler
// decides whether they are meaningful.
type SearchToken struct {
	Text     string
	IsPhrase bool
}

// tokenRe matches a quoted phrase or a maximal run of non-whitespace.
// Alternation order matters: the phrase branch is tried first, so quotes
// only form a phrase when a closing quote exists.
var tokenRe = regexp.MustCompile(`"([^"]+)"|(\S+)`)

// ParseQuery splits a raw query into phrase and word tokens, preserving the
// left-to-right order of discovery.
//
// A double-quoted substring becomes a single phrase token with the quotes
// stripped; there is no escaping inside phrases. An unterminated or empty
// quote does not form a phrase: the quote character is kept as a literal
// part of the surrounding word token. An empty query yields no tokens.
func ParseQuery(query string) []SearchToken {
	var tokens []SearchToken
	for _, m := range tokenRe.FindAllStringSubmatch(query, -1) {
		if m[1] != "" {
			tokens = append(tokens, SearchToken{Text: m[1], IsPhrase: true})
		} else {
			tokens = append(tokens, SearchToken{Text: m[2], IsPhrase: false})
		}
	}
	return tokens
}
