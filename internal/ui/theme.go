package ui

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// accentColor holds the active accent. Empty means accent coloring is off.
var accentColor = defaultAccent

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ConfigureTheme applies the accent color from the config to the shared
// styles. An empty value keeps the default; "none", "off" and "default"
// disable accent coloring entirely.
func ConfigureTheme(accent string) {
	if strings.TrimSpace(accent) == "" {
		return
	}

	color, ok := normalizeAccentColor(accent)
	if !ok {
		accentColor = ""
		Accent = lipgloss.NewStyle()
		AccentBold = lipgloss.NewStyle().Bold(true)
		Mark = lipgloss.NewStyle().Bold(true).Underline(true)
		return
	}

	accentColor = color
	c := lipgloss.Color(color)
	Accent = lipgloss.NewStyle().Foreground(c)
	AccentBold = lipgloss.NewStyle().Foreground(c).Bold(true)
	Mark = lipgloss.NewStyle().Foreground(c).Bold(true).Underline(true)
}

// AccentColor returns the active accent color, if any.
func AccentColor() (string, bool) {
	if accentColor == "" {
		return "", false
	}
	return accentColor, true
}

// normalizeAccentColor validates and canonicalizes a configured accent color.
// Accepts ANSI color codes ("0" to "255") and hex colors ("#RGB" or "#RRGGBB").
func normalizeAccentColor(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	switch strings.ToLower(v) {
	case "", "none", "off", "default":
		return "", false
	}

	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 || n > 255 {
			return "", false
		}
		return strconv.Itoa(n), true
	}

	if hexColorRe.MatchString(v) {
		if len(v) == 4 {
			// Expand shorthand #abc to #aabbcc.
			var b strings.Builder
			b.WriteByte('#')
			for _, c := range v[1:] {
				b.WriteRune(c)
				b.WriteRune(c)
			}
			return b.String(), true
		}
		return v, true
	}

	return "", false
}
