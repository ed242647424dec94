package view

import (
	"encoding/json"
	"strconv"

	"github.com/muurk/modalstate/internal/modalerr"
)

// Identifiers the host echoes back in events
const (
	CallbackID = "view_1"

	BlockIDButtons     = "buttons"
	ActionSelectAll    = "action-select-all"
	ActionSelectNone   = "action-select-none"
	BlockIDCheckboxes  = "checkblox"
	ActionIDCheckboxes = "checkbox_group"
)

// DefaultControlCount is the number of checkboxes rendered when opening a view
const DefaultControlCount = 3

const (
	title       = "Checkbox View State"
	submitLabel = "Submit"

	introText = "First, press *Select All* and *Select None* and observe that the checkboxes change state as expected."
	retryText = "Next, toggle one of the checkboxes directly. " +
		"Then Try pressing the *Select All* and *Select None* buttons again"
	quirkText = "Observe that none of the checkboxes change their state now. " +
		"The select all/none buttons rely on changing initial_options " +
		"to change the checkbox selection values. But that is a fake change " +
		"which is superseded by real state created by toggling any checkbox."
	summaryPrefix = "*Selected:* "
)

// Ref identifies a live view instance: the view id and the hash of its
// current revision. The host rejects updates carrying an outdated hash.
type Ref struct {
	ID   string `json:"id"`
	Hash string `json:"hash"`
}

// Descriptor is an immutable render of the form. It is built fresh on every
// render, handed to the host and discarded.
type Descriptor struct {
	ControlCount     int
	HintSelectedAll  bool
	SelectionSummary string
	Modal            Modal
}

// Render builds the modal for controlCount checkboxes. When hintSelectedAll is
// true every checkbox is listed in initial_options. selectionSummary is
// embedded verbatim in the trailing "Selected" line.
func Render(controlCount int, hintSelectedAll bool, selectionSummary string) (*Descriptor, error) {
	if controlCount <= 0 {
		return nil, modalerr.NewInvalidArgument("control count must be positive, got %d", controlCount)
	}

	checkboxes := Element{
		Type:     TypeCheckboxes,
		ActionID: ActionIDCheckboxes,
		Options:  options(controlCount),
	}
	if hintSelectedAll {
		checkboxes.InitialOptions = options(controlCount)
	}

	modal := Modal{
		Type:       TypeModal,
		CallbackID: CallbackID,
		Title:      plainText(title),
		Submit:     plainText(submitLabel),
		Blocks: []Block{
			section(introText),
			divider(),
			{
				Type:    TypeActions,
				BlockID: BlockIDButtons,
				Elements: []Element{
					button(ActionSelectAll, "Select All"),
					button(ActionSelectNone, "Select None"),
				},
			},
			{
				Type:     TypeActions,
				BlockID:  BlockIDCheckboxes,
				Elements: []Element{checkboxes},
			},
			divider(),
			section(retryText),
			section(quirkText),
			divider(),
			section(summaryPrefix + selectionSummary),
		},
	}

	return &Descriptor{
		ControlCount:     controlCount,
		HintSelectedAll:  hintSelectedAll,
		SelectionSummary: selectionSummary,
		Modal:            modal,
	}, nil
}

func options(count int) []Option {
	opts := make([]Option, 0, count)
	for i := 0; i < count; i++ {
		label := strconv.Itoa(i)
		opts = append(opts, Option{
			Value: label,
			Text:  Text{Type: TypeMrkdwn, Text: label},
		})
	}
	return opts
}

// checkboxes returns the checkbox group element, or nil if the modal has none
func (d *Descriptor) checkboxes() *Element {
	for i := range d.Modal.Blocks {
		b := &d.Modal.Blocks[i]
		if b.BlockID != BlockIDCheckboxes {
			continue
		}
		for j := range b.Elements {
			if b.Elements[j].ActionID == ActionIDCheckboxes {
				return &b.Elements[j]
			}
		}
	}
	return nil
}

// Options returns the values of every checkbox, in display order
func (d *Descriptor) Options() []string {
	return optionValues(d.checkboxes(), false)
}

// PreChecked returns the values listed in initial_options. It is every option
// when the hint is set and empty otherwise.
func (d *Descriptor) PreChecked() []string {
	return optionValues(d.checkboxes(), true)
}

func optionValues(el *Element, initial bool) []string {
	values := []string{}
	if el == nil {
		return values
	}
	opts := el.Options
	if initial {
		opts = el.InitialOptions
	}
	for _, o := range opts {
		values = append(values, o.Value)
	}
	return values
}

// JSON returns the Block Kit payload for the host
func (d *Descriptor) JSON() ([]byte, error) {
	return json.Marshal(d.Modal)
}
