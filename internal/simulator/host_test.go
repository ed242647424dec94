package simulator

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/muurk/modalstate/internal/controller"
	"github.com/muurk/modalstate/internal/modalerr"
	"github.com/muurk/modalstate/internal/selection"
	"github.com/muurk/modalstate/internal/view"
)

// session wires a controller to a fresh host and opens a view
func session(t *testing.T) (*Host, *controller.Controller, string) {
	t.Helper()
	host := NewHost(selection.Field{})
	ctrl := controller.New(host, controller.Options{})

	if err := ctrl.Dispatch(context.Background(), host.Trigger(), host.Ack); err != nil {
		t.Fatalf("open: %v", err)
	}
	ids := host.Views()
	if len(ids) != 1 {
		t.Fatalf("open views = %v, want 1", ids)
	}
	return host, ctrl, ids[0]
}

func act(t *testing.T, host *Host, ctrl *controller.Controller, ev controller.Event, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("host action: %v", err)
	}
	if err := ctrl.Dispatch(context.Background(), ev, host.Ack); err != nil {
		t.Fatalf("Dispatch(%s): %v", ev.Kind(), err)
	}
}

func selected(t *testing.T, host *Host, id string) []string {
	t.Helper()
	snap, ok := host.Snapshot(id)
	if !ok {
		t.Fatalf("view %s not open", id)
	}
	return snap.Selected
}

func TestHost_HintsApplyBeforeDirectToggle(t *testing.T) {
	host, ctrl, id := session(t)

	if diff := cmp.Diff([]string{}, selected(t, host, id)); diff != "" {
		t.Errorf("initial selection (-want +got):\n%s", diff)
	}

	ev, err := host.PressSelectAll(id)
	act(t, host, ctrl, ev, err)
	if diff := cmp.Diff([]string{"0", "1", "2"}, selected(t, host, id)); diff != "" {
		t.Errorf("after select all (-want +got):\n%s", diff)
	}

	ev, err = host.PressSelectNone(id)
	act(t, host, ctrl, ev, err)
	if diff := cmp.Diff([]string{}, selected(t, host, id)); diff != "" {
		t.Errorf("after select none (-want +got):\n%s", diff)
	}
}

func TestHost_HintsInertAfterDirectToggle(t *testing.T) {
	host, ctrl, id := session(t)

	ev, err := host.Toggle(id, "1")
	act(t, host, ctrl, ev, err)

	ev, err = host.PressSelectAll(id)
	act(t, host, ctrl, ev, err)

	snap, _ := host.Snapshot(id)
	if !snap.Touched {
		t.Error("host should record the direct toggle")
	}
	if diff := cmp.Diff([]string{"1"}, snap.Selected); diff != "" {
		t.Errorf("select all must not override a direct toggle (-want +got):\n%s", diff)
	}
	if !snap.Descriptor.HintSelectedAll {
		t.Error("the hint is still rendered, only ignored")
	}
	if snap.Descriptor.SelectionSummary != `["1"]` {
		t.Errorf("summary = %s, want the host-reported selection", snap.Descriptor.SelectionSummary)
	}
}

func TestHost_SummaryLagsOneEvent(t *testing.T) {
	host, ctrl, id := session(t)

	// The summary shows the state the host reported when the button was
	// pressed, which is before the hint is applied.
	ev, err := host.PressSelectAll(id)
	act(t, host, ctrl, ev, err)

	snap, _ := host.Snapshot(id)
	if snap.Descriptor.SelectionSummary != "[]" {
		t.Errorf("summary = %s, want []", snap.Descriptor.SelectionSummary)
	}
}

func TestHost_StaleHash(t *testing.T) {
	host, ctrl, id := session(t)

	first, err := host.PressSelectAll(id)
	if err != nil {
		t.Fatal(err)
	}
	second, err := host.PressSelectNone(id)
	if err != nil {
		t.Fatal(err)
	}

	if err := ctrl.Dispatch(context.Background(), first, host.Ack); err != nil {
		t.Fatalf("first update: %v", err)
	}
	err = ctrl.Dispatch(context.Background(), second, host.Ack)
	if !modalerr.IsStaleViewVersion(err) {
		t.Fatalf("second update error = %v, want stale view version", err)
	}
	if host.Acks() != 3 {
		t.Errorf("acks = %d, want 3", host.Acks())
	}
}

func TestHost_TriggerSingleUse(t *testing.T) {
	host := NewHost(selection.DefaultField)
	desc, _ := view.Render(3, false, "")
	trig := host.Trigger()

	if _, err := host.OpenView(context.Background(), trig.TriggerID, desc); err != nil {
		t.Fatalf("first open: %v", err)
	}
	_, err := host.OpenView(context.Background(), trig.TriggerID, desc)
	if !modalerr.IsTransportError(err) {
		t.Errorf("reused trigger error = %v, want transport error", err)
	}
}

func TestHost_OpenedByTrigger(t *testing.T) {
	host := NewHost(selection.DefaultField)
	desc, _ := view.Render(3, false, "")
	first, second := host.Trigger(), host.Trigger()

	ref, err := host.OpenView(context.Background(), second.TriggerID, desc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if id, ok := host.Opened(second.TriggerID); !ok || id != ref.ID {
		t.Errorf("Opened(second) = %q, %v, want %q", id, ok, ref.ID)
	}
	if _, ok := host.Opened(first.TriggerID); ok {
		t.Error("Opened(first) should report no view for an unused trigger")
	}
}

func TestHost_Submit(t *testing.T) {
	host, ctrl, id := session(t)

	ev, err := host.Submit(id)
	act(t, host, ctrl, ev, err)

	if _, ok := host.Snapshot(id); ok {
		t.Error("view should be closed after submit")
	}
	if _, err := host.PressSelectAll(id); err == nil {
		t.Error("actions on a closed view should fail")
	}
}

func TestHost_ToggleUnknownOption(t *testing.T) {
	host, _, id := session(t)
	if _, err := host.Toggle(id, "9"); err == nil {
		t.Error("toggling an unknown option should fail")
	}
}

func TestHost_UpdateUnknownView(t *testing.T) {
	host := NewHost(selection.DefaultField)
	desc, _ := view.Render(3, false, "")
	_, err := host.UpdateView(context.Background(), view.Ref{ID: "nope", Hash: "h"}, desc)
	if !modalerr.IsTransportError(err) {
		t.Errorf("UpdateView() error = %v, want transport error", err)
	}
}
