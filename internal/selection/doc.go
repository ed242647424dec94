// Package selection reads the host-reported checkbox selection out of the view
// state blob the host echoes in every action event.
//
// The host owns this state. It is extracted fresh for each event, summarized
// for display and then dropped; it is never cached between events and never
// merged with the select-all hint.
package selection
