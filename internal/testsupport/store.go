package testsupport

import (
	"context"
	"testing"

	"ntfydispatch/internal/config"
	"ntfydispatch/internal/history"
)

// MustOpenHistory opens the dispatch journal configured in cfg and registers
// cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(context.Background(), cfg.History.Path)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
