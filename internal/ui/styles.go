package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for plain terminal output
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - success
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

// Shared styles
var (
	// HeaderTitleStyle is for the box title (e.g., "INSTALLATION PROFILE")
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				PaddingLeft(2)

	// HeaderCommandStyle is for the subtitle under the title
	HeaderCommandStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// DetailKeyStyle is for detail keys
	DetailKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(20)

	// DetailValueStyle is for detail values
	DetailValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// SecretValueStyle is for masked values
	SecretValueStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Italic(true)

	SuccessTitleStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	// TroubleshootingItemStyle is for troubleshooting bullet points
	TroubleshootingItemStyle = lipgloss.NewStyle().
					Foreground(MutedColor)
)

// Result markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
	SecretMask    = "********"
)

// GetTerminalWidth returns the width of f clamped to the supported range,
// or MinTerminalWidth when f is not a terminal.
func GetTerminalWidth(f *os.File) int {
	if f == nil {
		return MinTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return min(width, MaxContentWidth)
}

// HeaderBorderStyle returns the border style for header boxes
func HeaderBorderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2) // Account for border characters
}

// ResultBoxStyle returns the double-bordered box for a result in color.
func ResultBoxStyle(width int, color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(width-2).
		Padding(0, 2)
}
