package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#4A154B") // Aubergine - title bar, borders
	AccentColor  = lipgloss.Color("#007A5A") // Green - submit, checked boxes
	ErrorColor   = lipgloss.Color("#E01E5A") // Red - errors
	WarningColor = lipgloss.Color("#ECB22E") // Yellow - hints
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

var (
	// TitleStyle is for the modal title bar
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Bold(true).
			Padding(0, 1)

	// ButtonStyle is for action buttons
	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)

	// SubmitStyle is for the submit button
	SubmitStyle = ButtonStyle.
			BorderForeground(AccentColor).
			Foreground(AccentColor).
			Bold(true)

	// CheckedStyle is for checked checkboxes
	CheckedStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	// UncheckedStyle is for unchecked checkboxes
	UncheckedStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// HintStyle is for the pre-checked hint marker
	HintStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Italic(true)

	// MutedStyle is for secondary text
	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// ErrorTitleStyle is for error titles
	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// KeyStyle is for header parameter keys
	KeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(14)
)

// Checkbox markers
const (
	CheckedMarker   = "[x]"
	UncheckedMarker = "[ ]"
)

// IsTerminal reports whether stdout is a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// GetTerminalWidth returns the current terminal width, clamped to the
// supported range
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// ClampWidth clamps a width reported by the terminal to the supported range
func ClampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}
