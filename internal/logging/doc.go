// Package logging assembles structured slog loggers used across ntfy-dispatch.
//
// It owns the console and JSON handlers, maps CLI verbosity onto levels, rotates
// the optional log file with lumberjack, and exposes context-aware helpers that
// tag lines with the operation and correlation ID. NewNop serves tests and
// wiring code that has no logger.
package logging
