// Package tui is an interactive terminal front end for the host simulator.
//
// It plays the part of the chat client: keys press the modal's buttons and
// toggle its checkboxes, the resulting events go through the real controller,
// and the screen shows what the simulated host now displays. Pressing keys
// faster than updates complete reproduces the stale-hash race.
package tui
