package simulator

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/muurk/modalstate/internal/controller"
	"github.com/muurk/modalstate/internal/modalerr"
	"github.com/muurk/modalstate/internal/selection"
	"github.com/muurk/modalstate/internal/view"
)

// Snapshot is what the host currently shows for a view
type Snapshot struct {
	Ref        view.Ref
	Descriptor *view.Descriptor
	// Selected is the host's selection, in option order
	Selected []string
	// Touched is true once the user has toggled a checkbox directly
	Touched bool
	// Revisions counts renders applied to the view, including the first
	Revisions int
}

type instance struct {
	ref       view.Ref
	desc      *view.Descriptor
	selected  map[string]bool
	touched   bool
	revisions int
}

// Host simulates the chat client. It is safe for concurrent use.
type Host struct {
	mu       sync.Mutex
	field    selection.Field
	triggers map[string]bool
	opened   map[string]string // trigger id -> view id
	views    map[string]*instance
	acks     int
}

// NewHost creates a host that reports selections under field
func NewHost(field selection.Field) *Host {
	if field == (selection.Field{}) {
		field = selection.DefaultField
	}
	return &Host{
		field:    field,
		triggers: make(map[string]bool),
		opened:   make(map[string]string),
		views:    make(map[string]*instance),
	}
}

// Trigger issues a single-use trigger id, as the host does for a slash command
func (h *Host) Trigger() controller.OpenRequested {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := "trig-" + uuid.NewString()
	h.triggers[id] = true
	return controller.OpenRequested{TriggerID: id}
}

// Ack records an acknowledgement. It matches controller.AckFunc.
func (h *Host) Ack() error {
	h.mu.Lock()
	h.acks++
	h.mu.Unlock()
	return nil
}

// Acks returns the number of acknowledgements received
func (h *Host) Acks() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.acks
}

// OpenView implements controller.Transport
func (h *Host) OpenView(ctx context.Context, triggerID string, desc *view.Descriptor) (view.Ref, error) {
	if err := ctx.Err(); err != nil {
		return view.Ref{}, modalerr.NewTransportError("views.open cancelled", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.triggers[triggerID] {
		return view.Ref{}, modalerr.NewHostError("views.open failed", "invalid_trigger_id")
	}
	delete(h.triggers, triggerID)

	inst := &instance{
		ref:      view.Ref{ID: "V" + shortID(), Hash: newHash()},
		selected: make(map[string]bool),
	}
	inst.apply(desc)
	h.views[inst.ref.ID] = inst
	h.opened[triggerID] = inst.ref.ID

	return inst.ref, nil
}

// UpdateView implements controller.Transport
func (h *Host) UpdateView(ctx context.Context, ref view.Ref, desc *view.Descriptor) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", modalerr.NewTransportError("views.update cancelled", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	inst, ok := h.views[ref.ID]
	if !ok {
		return "", modalerr.NewHostError("views.update failed", "not_found")
	}
	if inst.ref.Hash != ref.Hash {
		return "", modalerr.NewStaleViewVersion(ref.ID, "hash_conflict")
	}

	inst.apply(desc)
	inst.ref.Hash = newHash()
	return inst.ref.Hash, nil
}

// apply renders desc into the instance. initial_options only take effect
// while the user has not toggled a checkbox.
func (inst *instance) apply(desc *view.Descriptor) {
	inst.desc = desc
	inst.revisions++

	if inst.touched {
		return
	}
	inst.selected = make(map[string]bool)
	for _, v := range desc.PreChecked() {
		inst.selected[v] = true
	}
}

// selectedValues returns the selected values in option order
func (inst *instance) selectedValues() []string {
	out := []string{}
	for _, v := range inst.desc.Options() {
		if inst.selected[v] {
			out = append(out, v)
		}
	}
	return out
}

func (h *Host) lookup(viewID string) (*instance, error) {
	inst, ok := h.views[viewID]
	if !ok {
		return nil, fmt.Errorf("no open view %q", viewID)
	}
	return inst, nil
}

func (h *Host) state(inst *instance) *selection.ViewState {
	return selection.NewViewState(h.field, inst.selectedValues())
}

// PressSelectAll returns the event for pressing Select All
func (h *Host) PressSelectAll(viewID string) (controller.Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	inst, err := h.lookup(viewID)
	if err != nil {
		return nil, err
	}
	return controller.SelectAllTriggered{View: inst.ref, State: h.state(inst)}, nil
}

// PressSelectNone returns the event for pressing Select None
func (h *Host) PressSelectNone(viewID string) (controller.Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	inst, err := h.lookup(viewID)
	if err != nil {
		return nil, err
	}
	return controller.SelectNoneTriggered{View: inst.ref, State: h.state(inst)}, nil
}

// Toggle flips one checkbox, records the direct interaction and returns the
// resulting event
func (h *Host) Toggle(viewID, value string) (controller.Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	inst, err := h.lookup(viewID)
	if err != nil {
		return nil, err
	}

	known := false
	for _, v := range inst.desc.Options() {
		if v == value {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("view %s has no option %q", viewID, value)
	}

	inst.selected[value] = !inst.selected[value]
	inst.touched = true
	return controller.OptionToggled{View: inst.ref, State: h.state(inst)}, nil
}

// Submit closes the view and returns the submission event
func (h *Host) Submit(viewID string) (controller.Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.lookup(viewID); err != nil {
		return nil, err
	}
	delete(h.views, viewID)
	return controller.ViewSubmitted{ViewID: viewID}, nil
}

// Opened returns the id of the view opened with triggerID
func (h *Host) Opened(triggerID string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, ok := h.opened[triggerID]
	return id, ok
}

// Snapshot returns the current state of a view
func (h *Host) Snapshot(viewID string) (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	inst, ok := h.views[viewID]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{
		Ref:        inst.ref,
		Descriptor: inst.desc,
		Selected:   inst.selectedValues(),
		Touched:    inst.touched,
		Revisions:  inst.revisions,
	}, true
}

// Views returns the ids of the open views
func (h *Host) Views() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]string, 0, len(h.views))
	for id := range h.views {
		ids = append(ids, id)
	}
	return ids
}

func newHash() string {
	return uuid.NewString()
}

func shortID() string {
	return uuid.NewString()[:8]
}
