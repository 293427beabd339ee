package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/cortex/internal/config"
)

// Printer writes styled console output.
type Printer struct {
	w       io.Writer
	heading lipgloss.Style
	success lipgloss.Style
	notice  lipgloss.Style
	failure lipgloss.Style
	detail  lipgloss.Style
}

// NewPrinter returns a Printer writing to w. Colors are used only when w is a
// terminal that supports them.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		heading: r.NewStyle().Foreground(lipgloss.Color("12")),
		success: r.NewStyle().Foreground(lipgloss.Color("10")),
		notice:  r.NewStyle().Foreground(lipgloss.Color("11")),
		failure: r.NewStyle().Foreground(lipgloss.Color("9")),
		detail:  r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.w }

// Heading prints a section heading preceded by a blank line.
func (p *Printer) Heading(msg string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.heading.Render(msg))
}

// Success prints msg in the success style.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.w, p.success.Render(msg))
}

// Notice prints msg in the notice style. It satisfies config.Reporter.
func (p *Printer) Notice(msg string) {
	fmt.Fprintln(p.w, p.notice.Render(msg))
}

// Error prints msg in the error style.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.w, p.failure.Render(msg))
}

// Detail prints msg in the muted detail style.
func (p *Printer) Detail(msg string) {
	fmt.Fprintln(p.w, p.detail.Render(msg))
}

// Plain prints msg without styling. Multi-line text is written as is.
func (p *Printer) Plain(msg string) {
	fmt.Fprintln(p.w, msg)
}

// List prints each item on its own indented line with marker.
func (p *Printer) List(marker string, items []string, style func(string)) {
	if style == nil {
		style = p.Detail
	}
	for _, item := range items {
		style(fmt.Sprintf("  %s %s", marker, item))
	}
}

// Settings dumps the resolved settings as indented JSON. It satisfies
// config.Reporter.
func (p *Printer) Settings(s config.ResolvedSettings) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		p.Error("Error rendering configuration: " + err.Error())
		return
	}
	p.Heading("Configuration:")
	p.Plain(strings.TrimRight(string(data), "\n"))
}

var _ config.Reporter = (*Printer)(nil)
