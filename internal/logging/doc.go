// Package logging provides structured logging for modalstate.
//
// This package wraps a global zap logger with convenience functions for the
// logging patterns used by the Socket Mode client and the controller.
//
// # Log Levels
//
//   - Debug: envelope bodies, keepalive pings, renders
//   - Info: connections, dispatched events, opened and updated views
//   - Warn: reconnects, dropped events
//   - Error: failures that ended the handling of an event
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// When no level is given, MODALSTATE_LOG_LEVEL is consulted. If that is unset
// too, logging is silent so CLI commands print only their own output.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
