package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/modalstate/internal/view"
)

// ModalOptions controls how a view is drawn
type ModalOptions struct {
	// Width is the total width including the border
	Width int
	// Checked is the selection to draw. Nil means the descriptor's
	// pre-checked options, which is what a fresh host would show.
	Checked []string
	// ShowHint marks options that the render lists in initial_options
	ShowHint bool
	// Markdown renders mrkdwn sections; nil prints them verbatim
	Markdown *Markdown
}

// RenderModal draws desc as a boxed modal
func RenderModal(desc *view.Descriptor, opts ModalOptions) string {
	width := opts.Width
	if width <= 0 {
		width = MinTerminalWidth
	}
	inner := width - 4

	checked := opts.Checked
	if checked == nil {
		checked = desc.PreChecked()
	}
	isChecked := make(map[string]bool, len(checked))
	for _, v := range checked {
		isChecked[v] = true
	}
	hinted := make(map[string]bool)
	for _, v := range desc.PreChecked() {
		hinted[v] = true
	}

	var lines []string
	lines = append(lines, TitleStyle.Render(desc.Modal.Title.Text), "")

	for _, block := range desc.Modal.Blocks {
		switch block.Type {
		case view.TypeSection:
			if block.Text != nil {
				lines = append(lines, opts.Markdown.Render(block.Text.Text))
			}
		case view.TypeDivider:
			lines = append(lines, MutedStyle.Render(strings.Repeat("─", inner)))
		case view.TypeActions:
			lines = append(lines, renderActions(block, isChecked, hinted, opts.ShowHint)...)
		}
	}

	lines = append(lines, "", lipgloss.PlaceHorizontal(inner, lipgloss.Right, SubmitStyle.Render(desc.Modal.Submit.Text)))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width-2).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func renderActions(block view.Block, checked, hinted map[string]bool, showHint bool) []string {
	var buttons []string
	var lines []string

	for _, el := range block.Elements {
		switch el.Type {
		case view.TypeButton:
			if el.Text != nil {
				buttons = append(buttons, ButtonStyle.Render(el.Text.Text))
			}
		case view.TypeCheckboxes:
			for _, opt := range el.Options {
				lines = append(lines, renderCheckbox(opt, checked[opt.Value], showHint && hinted[opt.Value]))
			}
		}
	}

	if len(buttons) > 0 {
		lines = append([]string{lipgloss.JoinHorizontal(lipgloss.Top, buttons...)}, lines...)
	}
	return lines
}

func renderCheckbox(opt view.Option, checked, hinted bool) string {
	line := UncheckedStyle.Render(UncheckedMarker + " " + opt.Text.Text)
	if checked {
		line = CheckedStyle.Render(CheckedMarker + " " + opt.Text.Text)
	}
	if hinted {
		line += " " + HintStyle.Render("(initial)")
	}
	return line
}
