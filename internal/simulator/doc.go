// Package simulator is a local stand-in for the chat client that hosts the
// modal. It implements controller.Transport and reproduces the host rule the
// experiment is about: a view follows the initial_options of each render only
// until the user toggles a checkbox directly. After that the host keeps the
// user's selection and ignores the hint.
//
// User actions (PressSelectAll, PressSelectNone, Toggle, Submit) return the
// event the real host would deliver, carrying the current view state and the
// latest view hash.
package simulator
