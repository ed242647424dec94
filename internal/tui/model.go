package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/modalstate/internal/controller"
	"github.com/muurk/modalstate/internal/modalerr"
	"github.com/muurk/modalstate/internal/simulator"
	"github.com/muurk/modalstate/internal/ui"
)

// dispatchedMsg reports that the controller finished handling an event
type dispatchedMsg struct {
	kind string
	err  error
	// viewID is set for an open request that created a view
	viewID string
}

// Model is the simulator screen
type Model struct {
	host *simulator.Host
	ctrl *controller.Controller

	viewID  string
	opening bool
	pending int
	status  string
	lastErr error

	width    int
	markdown *ui.Markdown
	keys     keyMap
	help     help.Model
	quitting bool
}

// New creates the simulator screen. markdown may be nil.
func New(host *simulator.Host, ctrl *controller.Controller, markdown *ui.Markdown) Model {
	return Model{
		host:     host,
		ctrl:     ctrl,
		status:   "Press o to run the slash command.",
		width:    ui.GetTerminalWidth(),
		markdown: markdown,
		keys:     newKeyMap(),
		help:     help.New(),
	}
}

// Run starts the interactive program
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = ui.ClampWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case dispatchedMsg:
		return m.dispatched(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.viewID != "" || m.opening {
			m.status = "The view is already open."
			return m, nil
		}
		m.opening = true
		return m.dispatch(m.host.Trigger(), nil)

	case m.viewID == "":
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		return m.dispatch(m.host.PressSelectAll(m.viewID))

	case key.Matches(msg, m.keys.SelectNone):
		return m.dispatch(m.host.PressSelectNone(m.viewID))

	case key.Matches(msg, m.keys.Toggle):
		return m.dispatch(m.host.Toggle(m.viewID, msg.String()))

	case key.Matches(msg, m.keys.Submit):
		ev, err := m.host.Submit(m.viewID)
		if err == nil {
			m.viewID = ""
		}
		return m.dispatch(ev, err)
	}
	return m, nil
}

// dispatch hands the event produced by a host action to the controller
func (m Model) dispatch(ev controller.Event, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.lastErr = err
		return m, nil
	}

	m.pending++
	ctrl, host := m.ctrl, m.host
	return m, func() tea.Msg {
		err := ctrl.Dispatch(context.Background(), ev, host.Ack)
		done := dispatchedMsg{kind: ev.Kind(), err: err}
		if open, ok := ev.(controller.OpenRequested); ok {
			done.viewID, _ = host.Opened(open.TriggerID)
		}
		return done
	}
}

func (m Model) dispatched(msg dispatchedMsg) Model {
	if m.pending > 0 {
		m.pending--
	}
	m.lastErr = msg.err

	switch msg.kind {
	case "open_requested":
		m.opening = false
		if msg.viewID != "" {
			m.viewID = msg.viewID
		}
	case "view_submitted":
		m.status = "Submitted. Press o to open a new view."
		return m
	}

	if msg.err == nil {
		m.status = fmt.Sprintf("Handled %s.", strings.ReplaceAll(msg.kind, "_", " "))
	}
	return m
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	if snap, ok := m.host.Snapshot(m.viewID); ok {
		b.WriteString(ui.RenderModal(snap.Descriptor, ui.ModalOptions{
			Width:    m.width,
			Checked:  snap.Selected,
			ShowHint: true,
			Markdown: m.markdown,
		}))
		b.WriteString("\n")

		touched := "no - Select All / Select None still change the checkboxes"
		if snap.Touched {
			touched = "yes - initial_options are now ignored by the host"
		}
		b.WriteString(ui.MutedStyle.Render("Direct toggle recorded: "+touched) + "\n")
		b.WriteString(ui.MutedStyle.Render(fmt.Sprintf("View %s, revision %d", snap.Ref.ID, snap.Revisions)) + "\n")
	}

	b.WriteString("\n" + m.status + "\n")
	if m.lastErr != nil {
		b.WriteString(ui.ErrorTitleStyle.Render(m.lastErr.Error()) + "\n")
		b.WriteString(ui.MutedStyle.Render(modalerr.Hint(m.lastErr)) + "\n")
	}
	if m.pending > 0 {
		b.WriteString(ui.MutedStyle.Render(fmt.Sprintf("%d update(s) in flight", m.pending)) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}
