// Package notifications publishes single messages to an ntfy relay.
//
// A Dispatcher validates the loosely typed task arguments, builds the JSON
// publish payload, performs exactly one POST, and returns the relay's
// acknowledgment merged over a small set of bookkeeping fields. There is no
// retry or queuing: either the full request/response cycle completes or the
// call fails with an error tagged by one of the services markers
// (ErrValidation, ErrTransport, ErrResponseFormat).
//
// Observers receive one Event per dispatch; the CLI uses them to feed the
// history journal and the Prometheus textfile.
package notifications
