package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
)

// Detail is one key/value row of a box.
type Detail struct {
	Key    string
	Value  string
	Secret bool // Rendered masked
}

// Result represents a success or failure box
type Result struct {
	Type            ResultType
	Title           string   // e.g., "Profile confirmed"
	Details         []Detail // Rows in display order
	Error           error    // Error (for failure results)
	Troubleshooting []string // Troubleshooting tips (for failure results)
	Width           int
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Detail) *Result {
	return &Result{Type: ResultSuccess, Title: title, Details: details, Width: MinTerminalWidth}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, troubleshooting ...string) *Result {
	return &Result{
		Type:            ResultFailure,
		Title:           title,
		Error:           err,
		Troubleshooting: troubleshooting,
		Width:           MinTerminalWidth,
	}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a detail row
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Detail{Key: key, Value: value})
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := max(r.Width, MinTerminalWidth)

	var (
		marker string
		label  string
		title  lipgloss.Style
		color  lipgloss.Color
	)
	switch r.Type {
	case ResultFailure:
		marker, label, title, color = FailureMarker, "FAILED", ErrorTitleStyle, ErrorColor
	default:
		marker, label, title, color = SuccessMarker, "SUCCESS", SuccessTitleStyle, SuccessColor
	}

	lines := []string{
		"",
		title.Render(fmt.Sprintf(" %s  %s  ─  %s", marker, label, r.Title)),
		"",
	}

	if r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render(" Error: "+r.Error.Error()), "")
	}

	if len(r.Details) > 0 {
		lines = append(lines, renderDetails(r.Details)...)
		lines = append(lines, "")
	}

	if len(r.Troubleshooting) > 0 {
		lines = append(lines, TroubleshootingItemStyle.Render(" Troubleshooting:"))
		for _, tip := range r.Troubleshooting {
			lines = append(lines, TroubleshootingItemStyle.Render("   • "+tip))
		}
		lines = append(lines, "")
	}

	return ResultBoxStyle(width, color).Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}

func renderDetails(details []Detail) []string {
	lines := make([]string, 0, len(details))
	for _, d := range details {
		key := DetailKeyStyle.Render(" " + d.Key + ":")
		value := DetailValueStyle.Render(d.Value)
		if d.Secret {
			value = SecretValueStyle.Render(SecretMask)
		}
		lines = append(lines, key+" "+value)
	}
	return lines
}
