// Package main hosts the ntfy-dispatch CLI entrypoint and command graph.
//
// The Cobra-based command tree plays the role of the automation host: it
// turns flags into task arguments and variable bindings, seeds defaults from
// the configuration file, and hands the result to the notifications package.
// Supporting commands inspect the dispatch history, scaffold configuration,
// and run preflight checks.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
