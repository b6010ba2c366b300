package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette - modern dark theme.
var (
	colorPurple   = lipgloss.Color("#4f8cff")
	colorGreen    = lipgloss.Color("#2fd576")
	colorYellow   = lipgloss.Color("#f2c94c")
	colorRed      = lipgloss.Color("#ff6b6b")
	colorWhite    = lipgloss.Color("#e6edf3")
	colorGray     = lipgloss.Color("#9aa4b2")
	colorDarkGray = lipgloss.Color("#1f2937")
)

// Styles holds all the lipgloss styles for the pane.
type Styles struct {
	Header lipgloss.Style

	// Mode badges
	ModeAgent    lipgloss.Style
	ModeTerminal lipgloss.Style
	ModeShared   lipgloss.Style

	// Terminal viewport
	Terminal lipgloss.Style
	Cursor   lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusText lipgloss.Style
	StatusWarn lipgloss.Style

	// Local input line
	Prompt lipgloss.Style

	// Help screen
	Help lipgloss.Style

	// Approval dialog
	Dialog             lipgloss.Style
	DialogTitle        lipgloss.Style
	DialogDanger       lipgloss.Style
	DialogButton       lipgloss.Style
	DialogButtonActive lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPurple),

		ModeAgent: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(colorWhite).
			Background(colorPurple),

		ModeTerminal: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(colorDarkGray).
			Background(colorGreen),

		ModeShared: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(colorDarkGray).
			Background(colorYellow),

		Terminal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDarkGray),

		Cursor: lipgloss.NewStyle().
			Reverse(true),

		StatusBar: lipgloss.NewStyle().
			Padding(0, 1).
			Background(colorDarkGray).
			Foreground(colorWhite),

		StatusKey: lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true),

		StatusText: lipgloss.NewStyle().
			Foreground(colorGray),

		StatusWarn: lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true),

		Help: lipgloss.NewStyle().
			Padding(2, 4).
			Foreground(colorWhite),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPurple).
			Padding(1, 2),

		DialogTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPurple).
			MarginBottom(1),

		DialogDanger: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed),

		DialogButton: lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray),

		DialogButtonActive: lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(colorWhite).
			Background(colorPurple).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPurple),
	}
}
