package preflight

import (
	"context"

	"ntfydispatch/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Options tunes which checks RunAll performs.
type Options struct {
	// Offline skips the network reachability probe.
	Offline bool
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	if cfg.Logging.File {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	endpoint := CheckEndpointURL(cfg.Ntfy.URL)
	results = append(results, endpoint)
	if endpoint.Passed && !opts.Offline {
		results = append(results, CheckEndpoint(ctx, cfg.Ntfy.URL))
	}

	if cfg.History.Enabled {
		results = append(results, CheckHistory(ctx, cfg.History.Path))
	}
	if cfg.Metrics.Textfile != "" {
		results = append(results, CheckTextfileDir(cfg.Metrics.Textfile))
	}

	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
