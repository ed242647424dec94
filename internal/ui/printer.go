package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes styled command output
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a Printer that writes to w, or os.Stdout if w is nil
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintHeader prints a boxed title with sorted key/value parameters
func (p *Printer) PrintHeader(title string, params map[string]string) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := []string{lipgloss.NewStyle().Bold(true).Render(strings.ToUpper(title))}
	for _, k := range keys {
		lines = append(lines, KeyStyle.Render(k+":")+" "+params[k])
	}

	p.Println(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(p.width-2).
		Padding(0, 1).
		Render(strings.Join(lines, "\n")))
}

// PrintError prints an error with a troubleshooting hint
func (p *Printer) PrintError(title string, err error, hint string) {
	lines := []string{
		ErrorTitleStyle.Render("✗ " + title),
		err.Error(),
	}
	if hint != "" {
		lines = append(lines, "", MutedStyle.Render(hint))
	}
	p.Println(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ErrorColor).
		Width(p.width-2).
		Padding(0, 1).
		Render(strings.Join(lines, "\n")))
}
