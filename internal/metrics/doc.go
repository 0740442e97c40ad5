// Package metrics counts dispatch outcomes with Prometheus collectors.
//
// The CLI is short lived, so nothing is served over HTTP. Instead the registry
// is written to a file in the text exposition format for node_exporter's
// textfile collector.
package metrics
