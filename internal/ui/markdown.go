package ui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
)

// mrkdwnBold matches Slack's single-asterisk bold
var mrkdwnBold = regexp.MustCompile(`\*([^*\n]+)\*`)

// ToMarkdown converts Slack mrkdwn to CommonMark. Only bold differs for the
// text this tool renders.
func ToMarkdown(mrkdwn string) string {
	return mrkdwnBold.ReplaceAllString(mrkdwn, "**$1**")
}

// Markdown renders mrkdwn sections for the terminal
type Markdown struct {
	renderer *glamour.TermRenderer
}

// NewMarkdown creates a renderer wrapping at width. Unstyled output uses the
// plain notty style.
func NewMarkdown(width int, styled bool) (*Markdown, error) {
	style := glamour.WithStylePath("notty")
	if styled {
		style = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	return &Markdown{renderer: r}, nil
}

// Render renders one mrkdwn text. If rendering fails the text is returned as is.
func (m *Markdown) Render(mrkdwn string) string {
	if m == nil || m.renderer == nil {
		return mrkdwn
	}
	out, err := m.renderer.Render(ToMarkdown(mrkdwn))
	if err != nil {
		return mrkdwn
	}
	return strings.Trim(out, "\n")
}
