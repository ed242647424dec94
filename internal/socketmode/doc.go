// Package socketmode delivers host events to the controller over a Slack
// Socket Mode websocket.
//
// The client asks the Web API for a websocket URL, dials it and reads
// envelopes one at a time. Each envelope carrying an event is decoded into a
// controller.Event and dispatched on the read loop, so events are handled
// strictly in order. The ack primitive handed to the controller writes the
// envelope id back on the socket, exactly once.
//
// # Envelope Types
//
//   - hello: connection is ready
//   - disconnect: the host is about to close the socket; reconnect
//   - slash_commands: the configured command opens a view
//   - interactive: block_actions and view_submission payloads
//
// Any other envelope with an id is acknowledged and ignored.
//
// # Keepalive
//
// The client pings every pingPeriod and drops the connection if nothing,
// not even a pong, arrives within pongWait. Dropped connections are
// re-established with capped exponential backoff until the context ends.
//
// # Capture
//
// When a capture directory is set every envelope, in and out, is appended to
// capture-<timestamp>.jsonl in that directory for protocol analysis.
package socketmode
