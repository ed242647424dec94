// Package view renders the checkbox experiment modal.
//
// Render is a pure function of its three inputs: the number of checkboxes,
// whether to hint that every checkbox is pre-checked, and a summary of the
// selection the host last reported. The result is a Descriptor wrapping the
// Block Kit modal that is handed to the host.
//
// # Hint vs. host-reported truth
//
// When the hint is set the checkbox element carries initial_options listing
// every option. The host only honours initial_options until the user toggles
// a checkbox directly; after that the host keeps its own state and the hint
// is inert. The rendered text explains this to the user rather than trying to
// work around it.
//
// # Usage Example
//
//	desc, err := view.Render(3, true, `["0","2"]`)
//	if err != nil {
//	    return err
//	}
//	payload, err := desc.JSON()
package view
