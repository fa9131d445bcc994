package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA, configurable): room names, search hits
// - Muted (gray): timestamps, hints, counters
// - No colored success/error/warning - use unicode symbols only

// defaultAccent is the accent used when the config does not set one.
const defaultAccent = "#A78BFA"

var (
	// Accent style for room names and other points of interest
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for timestamps, hints, counters
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis (usernames, headers)
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)

	// Mark is the style for matched search terms inside message bodies.
	Mark = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true).Underline(true)
)
