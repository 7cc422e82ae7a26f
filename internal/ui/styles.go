package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - titles, bot label
	ColorHighlight = "205" // Magenta - user label, focused border
	ColorParticle  = "33"  // Blue - particle field
	ColorDanger    = "196" // Red - errors
	ColorMuted     = "241" // Gray - hints, disabled inputs
	ColorText      = "252" // Light gray - message text
)

// Styles contains shared style definitions.
var Styles = struct {
	Title     lipgloss.Style
	Particles lipgloss.Style

	Chat       lipgloss.Style // Transcript frame
	UserLabel  lipgloss.Style
	BotLabel   lipgloss.Style
	Message    lipgloss.Style
	Loading    lipgloss.Style
	Field      lipgloss.Style // Input frame
	FieldFocus lipgloss.Style
	FieldOff   lipgloss.Style

	Status lipgloss.Style
	Error  lipgloss.Style
	Hint   lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Particles: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorParticle)),
	Chat: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorMuted)).
		Padding(0, 1),
	UserLabel: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorHighlight)),
	BotLabel: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Message: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Loading: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Field: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(ColorMuted)).
		PaddingLeft(1),
	FieldFocus: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		PaddingLeft(1),
	FieldOff: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(ColorMuted)).
		Foreground(lipgloss.Color(ColorMuted)).
		PaddingLeft(1),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
}
