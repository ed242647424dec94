package controller

import (
	"github.com/muurk/modalstate/internal/selection"
	"github.com/muurk/modalstate/internal/view"
)

// Event is a host event. The set of variants is closed.
type Event interface {
	// Kind returns a short name for logging
	Kind() string
	isEvent()
}

// OpenRequested is sent when the user invokes the slash command
type OpenRequested struct {
	TriggerID string
}

// SelectAllTriggered is sent when the user presses Select All
type SelectAllTriggered struct {
	View  view.Ref
	State *selection.ViewState
}

// SelectNoneTriggered is sent when the user presses Select None
type SelectNoneTriggered struct {
	View  view.Ref
	State *selection.ViewState
}

// OptionToggled is sent when the user toggles a checkbox directly
type OptionToggled struct {
	View  view.Ref
	State *selection.ViewState
}

// ViewSubmitted is sent when the user submits the view. The host closes it.
type ViewSubmitted struct {
	ViewID string
}

func (OpenRequested) Kind() string       { return "open_requested" }
func (SelectAllTriggered) Kind() string  { return "select_all" }
func (SelectNoneTriggered) Kind() string { return "select_none" }
func (OptionToggled) Kind() string       { return "option_toggled" }
func (ViewSubmitted) Kind() string       { return "view_submitted" }

func (OpenRequested) isEvent()       {}
func (SelectAllTriggered) isEvent()  {}
func (SelectNoneTriggered) isEvent() {}
func (OptionToggled) isEvent()       {}
func (ViewSubmitted) isEvent()       {}

// viewID returns the view an event refers to, or "" for OpenRequested
func viewID(ev Event) string {
	switch e := ev.(type) {
	case SelectAllTriggered:
		return e.View.ID
	case SelectNoneTriggered:
		return e.View.ID
	case OptionToggled:
		return e.View.ID
	case ViewSubmitted:
		return e.ViewID
	default:
		return ""
	}
}

// kindOf is Kind that tolerates a nil event
func kindOf(ev Event) string {
	if ev == nil {
		return "unknown"
	}
	return ev.Kind()
}
