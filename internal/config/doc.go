// Package config loads, normalizes, and validates ntfy-dispatch configuration.
//
// It supplies repository defaults (https://ntfy.sh, topic "test-topic"),
// expands user paths, reads TOML files, applies a local .env file, and honours
// environment fallbacks such as NTFY_TOPIC and NTFY_AUTH. Values here only seed
// the dispatch defaults; arguments passed to a single dispatch always win.
package config
