// Package services defines shared utilities consumed by the dispatcher, the
// history store, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp operation names and correlation identifiers
//     for logging.
//   - Structured error markers plus the Wrap helper so callers can tell
//     validation failures from transport and response-format failures with
//     errors.Is.
//
// Use these helpers when wiring new code paths so error classification stays
// uniform between the exit status, the history table, and the metrics labels.
package services
