// Package modalerr defines the error taxonomy shared by the view builder, the
// reconciliation controller and the host transports.
//
// Every error produced while handling a host event is terminal for that event
// only. Nothing in this taxonomy is retried automatically:
//   - InvalidArgument: bad render parameters (programmer error)
//   - MalformedEvent: the event payload did not have the expected shape
//   - StaleViewVersion: the host rejected an update because the hash was outdated
//   - Transport: network or protocol failure talking to the host
//   - Auth: the host rejected the credentials
//
// Use the Is* predicates rather than comparing types directly; they see
// through wrapping done with fmt.Errorf("...: %w", err).
package modalerr
