package selection

import (
	"encoding/json"
	"fmt"

	"github.com/muurk/modalstate/internal/modalerr"
	"github.com/muurk/modalstate/internal/view"
)

// ViewState mirrors the host's view.state object: block id -> action id ->
// element state.
type ViewState struct {
	Values map[string]map[string]ElementState `json:"values"`
}

// ElementState is the host's record of one input element. SelectedOptions is
// nil when the host omitted the field, which differs from an empty selection.
type ElementState struct {
	Type            string         `json:"type"`
	SelectedOptions *[]view.Option `json:"selected_options,omitempty"`
}

// Field names the host's canonical selection field for a control
type Field struct {
	BlockID  string
	ActionID string
}

// String returns the field as a dotted path
func (f Field) String() string {
	return f.BlockID + "." + f.ActionID
}

// DefaultField is the checkbox group rendered by the view package
var DefaultField = Field{BlockID: view.BlockIDCheckboxes, ActionID: view.ActionIDCheckboxes}

// State is the ordered list of selected option values, as reported by the host
type State []string

// Extract returns the selection recorded for field. A missing state object,
// block, action or selected_options field is a malformed event.
func Extract(state *ViewState, field Field) (State, error) {
	if state == nil || state.Values == nil {
		return nil, modalerr.NewMalformedEvent("event carries no view state", nil)
	}

	block, ok := state.Values[field.BlockID]
	if !ok {
		return nil, modalerr.NewMalformedEvent(fmt.Sprintf("view state has no block %q", field.BlockID), nil)
	}

	element, ok := block[field.ActionID]
	if !ok {
		return nil, modalerr.NewMalformedEvent(fmt.Sprintf("view state has no element %q", field), nil)
	}

	if element.SelectedOptions == nil {
		return nil, modalerr.NewMalformedEvent(fmt.Sprintf("element %q has no selected_options", field), nil)
	}

	selected := make(State, 0, len(*element.SelectedOptions))
	for _, opt := range *element.SelectedOptions {
		selected = append(selected, opt.Value)
	}
	return selected, nil
}

// Summary serializes the selection for display, e.g. ["0","2"]. An empty
// selection renders as [].
func Summary(s State) string {
	if s == nil {
		s = State{}
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		// []string always marshals
		return "[]"
	}
	return string(data)
}

// NewViewState builds the state blob the host would report for the given
// selection of field. It is used by the local host simulator.
func NewViewState(field Field, selected []string) *ViewState {
	opts := make([]view.Option, 0, len(selected))
	for _, v := range selected {
		opts = append(opts, view.Option{
			Value: v,
			Text:  view.Text{Type: view.TypeMrkdwn, Text: v},
		})
	}
	return &ViewState{
		Values: map[string]map[string]ElementState{
			field.BlockID: {
				field.ActionID: {
					Type:            view.TypeCheckboxes,
					SelectedOptions: &opts,
				},
			},
		},
	}
}
