// Package controller decides what to render in response to each host event.
//
// The controller owns one rule: a select-all or select-none press re-renders
// the view with (or without) the pre-checked hint, and a direct checkbox toggle
// re-renders without it. Whatever is rendered, the summary line always shows
// the selection the host reported in the event, because once the user has
// toggled a checkbox the host ignores the hint.
//
// # Dispatch
//
// Events arrive through a single entry point over a closed set of variants:
//
//	ctrl := controller.New(transport, controller.Options{})
//	err := ctrl.Dispatch(ctx, controller.SelectAllTriggered{
//	    View:  view.Ref{ID: "V1", Hash: "H1"},
//	    State: state,
//	}, ack)
//
// Dispatch always calls ack first, exactly once, before rendering or calling
// the transport. The controller keeps no state between events: the view id and
// hash are taken from each event and the selection is read fresh from it.
package controller
