// Package ui renders views and command output in the terminal.
//
// RenderModal draws a view descriptor roughly the way the chat client would:
// title bar, mrkdwn sections (through glamour), the Select All / Select None
// buttons and the checkbox group with the host's current selection. It is
// used by the preview command and by the simulator TUI.
//
// Printer writes command headers and error boxes for the CLI commands.
package ui
