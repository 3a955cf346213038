// Package styles contains Lip Gloss style definitions and color tokens.
package styles

import "github.com/charmbracelet/lipgloss"

// Color tokens. Overridable from config via Apply.
var (
	HighlightColor     = lipgloss.Color("#73F59F")
	SubtleColor        = lipgloss.Color("#6B7280")
	ErrorColor         = lipgloss.Color("#F87171")
	SuccessColor       = lipgloss.Color("#34D399")
	BorderDefaultColor = lipgloss.Color("#3F3F46")
	TitleColor         = lipgloss.Color("#A5B4FC")
)

// Shared styles.
var (
	SubtleStyle    = lipgloss.NewStyle().Foreground(SubtleColor)
	ErrorStyle     = lipgloss.NewStyle().Foreground(ErrorColor)
	HighlightStyle = lipgloss.NewStyle().Foreground(HighlightColor)
	SelectionStyle = lipgloss.NewStyle().Foreground(HighlightColor).Bold(true)
	LabelStyle     = lipgloss.NewStyle().Foreground(SubtleColor).Bold(true)
	CountdownStyle = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
)

// Apply overrides the color tokens from config values. Empty strings leave
// the built-in defaults in place.
func Apply(highlight, subtle, errColor, success string) {
	if highlight != "" {
		HighlightColor = lipgloss.Color(highlight)
	}
	if subtle != "" {
		SubtleColor = lipgloss.Color(subtle)
	}
	if errColor != "" {
		ErrorColor = lipgloss.Color(errColor)
	}
	if success != "" {
		SuccessColor = lipgloss.Color(success)
	}

	SubtleStyle = lipgloss.NewStyle().Foreground(SubtleColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor)
	HighlightStyle = lipgloss.NewStyle().Foreground(HighlightColor)
	SelectionStyle = lipgloss.NewStyle().Foreground(HighlightColor).Bold(true)
	LabelStyle = lipgloss.NewStyle().Foreground(SubtleColor).Bold(true)
	CountdownStyle = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
}
