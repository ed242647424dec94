package controller

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/modalstate/internal/logging"
	"github.com/muurk/modalstate/internal/modalerr"
	"github.com/muurk/modalstate/internal/selection"
	"github.com/muurk/modalstate/internal/view"
)

// Transport is the host side of the conversation
type Transport interface {
	// OpenView opens a new view instance for a slash-command trigger
	OpenView(ctx context.Context, triggerID string, desc *view.Descriptor) (view.Ref, error)
	// UpdateView replaces the view identified by ref and returns the new hash
	UpdateView(ctx context.Context, ref view.Ref, desc *view.Descriptor) (string, error)
}

// AckFunc acknowledges the event being handled
type AckFunc func() error

// Options configures a Controller
type Options struct {
	// ControlCount is the number of checkboxes to render (default 3)
	ControlCount int
	// Field is the host selection field to read (default selection.DefaultField)
	Field selection.Field
}

// Controller handles host events. It is safe for concurrent use.
type Controller struct {
	transport    Transport
	controlCount int
	field        selection.Field
}

// New creates a Controller that talks to the host through transport
func New(transport Transport, opts Options) *Controller {
	if opts.ControlCount == 0 {
		opts.ControlCount = view.DefaultControlCount
	}
	if opts.Field == (selection.Field{}) {
		opts.Field = selection.DefaultField
	}
	return &Controller{
		transport:    transport,
		controlCount: opts.ControlCount,
		field:        opts.Field,
	}
}

// Dispatch handles one event. ack is called first, exactly once, before any
// other side effect. Errors are logged and returned; none are retried.
func (c *Controller) Dispatch(ctx context.Context, ev Event, ack AckFunc) error {
	if ack != nil {
		if err := ack(); err != nil {
			err = modalerr.NewTransportError("failed to acknowledge event", err)
			logging.LogDispatch(kindOf(ev), viewID(ev), err)
			return err
		}
	}

	if ev == nil {
		err := modalerr.NewMalformedEvent("no event to dispatch", nil)
		logging.LogDispatch(kindOf(ev), "", err)
		return err
	}

	err := c.handle(ctx, ev)
	logging.LogDispatch(ev.Kind(), viewID(ev), err)
	return err
}

func (c *Controller) handle(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case OpenRequested:
		return c.open(ctx, e.TriggerID)
	case SelectAllTriggered:
		return c.rerender(ctx, e.View, e.State, true)
	case SelectNoneTriggered:
		return c.rerender(ctx, e.View, e.State, false)
	case OptionToggled:
		// A direct toggle never sets the hint
		return c.rerender(ctx, e.View, e.State, false)
	case ViewSubmitted:
		return nil
	default:
		return modalerr.NewMalformedEvent(fmt.Sprintf("unsupported event %T", ev), nil)
	}
}

func (c *Controller) open(ctx context.Context, triggerID string) error {
	if triggerID == "" {
		return modalerr.NewMalformedEvent("open request has no trigger id", nil)
	}

	desc, err := view.Render(c.controlCount, false, "")
	if err != nil {
		return err
	}

	ref, err := c.transport.OpenView(ctx, triggerID, desc)
	if err != nil {
		return err
	}

	logging.Info("View opened",
		zap.String("view_id", ref.ID),
		zap.String("hash", ref.Hash),
	)
	return nil
}

func (c *Controller) rerender(ctx context.Context, ref view.Ref, state *selection.ViewState, hint bool) error {
	if ref.ID == "" || ref.Hash == "" {
		return modalerr.NewMalformedEvent("event has no view id or hash", nil)
	}

	selected, err := selection.Extract(state, c.field)
	if err != nil {
		return err
	}

	desc, err := view.Render(c.controlCount, hint, selection.Summary(selected))
	if err != nil {
		return err
	}

	hash, err := c.transport.UpdateView(ctx, ref, desc)
	if err != nil {
		return err
	}

	logging.Debug("View updated",
		zap.String("view_id", ref.ID),
		zap.String("hash", hash),
		zap.Bool("hint_selected_all", hint),
		zap.Strings("selected", selected),
	)
	return nil
}
