// Package slugs provides the canonical slugification helper used for room
// identifiers.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// RoomSlug converts a room name to a URL-safe slug.
//
// Diacritics are transliterated ("Kočky" -> "kocky") so slugs stay ASCII
// even for accented room names.
func RoomSlug(name string) string {
	slugged := goslug.Make(name)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
	}
	return slugged
}
