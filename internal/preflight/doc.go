// Package preflight provides readiness checks for the relay endpoint and the
// local paths ntfy-dispatch writes to.
//
// The CLI "doctor" command runs RunAll and renders the results as a table.
// Each check is gated by its config toggle -- disabled features are skipped.
package preflight
