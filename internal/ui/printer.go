package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muurk/autoinstall/internal/profile"
)

// Printer writes styled boxes to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used. The width follows the terminal when w is
// one.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	f, _ := w.(*os.File)
	return &Printer{
		out:   w,
		width: GetTerminalWidth(f),
	}
}

// Width returns the width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a header box with a title, a subtitle and detail rows.
func (p *Printer) PrintHeader(title, subtitle string, details []Detail) {
	p.Print(RenderHeader(title, subtitle, details, p.width))
	p.Newline()
}

// PrintProfile prints every profile field. Passwords are masked unless
// reveal is set.
func (p *Printer) PrintProfile(prof *profile.Profile, packages []string, reveal bool) {
	details := ProfileDetails(prof, reveal)
	details = append(details, Detail{Key: "packages", Value: strings.Join(packages, " ")})
	p.PrintHeader("Installation Profile", "confirmed settings", details)
}

// PrintResult prints a result box
func (p *Printer) PrintResult(r *Result) {
	p.Print(r.SetWidth(p.width).Render())
	p.Newline()
}

// PrintError prints a failure box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting ...string) {
	p.PrintResult(NewFailureResult(title, err, troubleshooting...))
}

// ProfileDetails returns one row per field in profile order.
func ProfileDetails(prof *profile.Profile, reveal bool) []Detail {
	fields := prof.Fields()
	details := make([]Detail, 0, len(fields))
	for _, f := range fields {
		value := f.Display()
		if !f.IsSet() {
			value = "none"
		}
		details = append(details, Detail{
			Key:    f.Name(),
			Value:  value,
			Secret: f.Secret() && !reveal,
		})
	}
	return details
}

// RenderHeader renders a header box
func RenderHeader(title, subtitle string, details []Detail, width int) string {
	width = max(width, MinTerminalWidth)

	top := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(title)),
		HeaderCommandStyle.Render(subtitle),
	)

	content := top
	if len(details) > 0 {
		divider := lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Render(strings.Repeat("─", max(width-6, 10)))
		content = lipgloss.JoinVertical(lipgloss.Left, top, divider, strings.Join(renderDetails(details), "\n"))
	}

	return HeaderBorderStyle(width).Render(content)
}
