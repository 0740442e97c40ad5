package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ntfydispatch/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckEndpointURL(t *testing.T) {
	cases := []struct {
		raw  string
		pass bool
	}{
		{"https://ntfy.sh", true},
		{"http://localhost:8080", true},
		{"", false},
		{"ftp://ntfy.sh", false},
		{"https://", false},
	}
	for _, tc := range cases {
		if got := CheckEndpointURL(tc.raw); got.Passed != tc.pass {
			t.Fatalf("CheckEndpointURL(%q) passed=%v, want %v (%s)", tc.raw, got.Passed, tc.pass, got.Detail)
		}
	}
}

func TestCheckEndpoint_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"healthy":true}`))
	}))
	defer srv.Close()

	result := CheckEndpoint(context.Background(), srv.URL+"/")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckEndpoint_NotFoundStillReachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	if result := CheckEndpoint(context.Background(), srv.URL); !result.Passed {
		t.Fatalf("expected 404 to count as reachable, got: %s", result.Detail)
	}
}

func TestCheckEndpoint_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	result := CheckEndpoint(context.Background(), srv.URL)
	if result.Passed {
		t.Fatal("expected failure for 502")
	}
	if !strings.Contains(result.Detail, "502") {
		t.Fatalf("expected status in detail, got %q", result.Detail)
	}
}

func TestCheckEndpoint_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if result := CheckEndpoint(context.Background(), url); result.Passed {
		t.Fatal("expected failure for closed server")
	}
}

func TestCheckEndpoint_MissingURL(t *testing.T) {
	if result := CheckEndpoint(context.Background(), ""); result.Passed {
		t.Fatal("expected failure for missing URL")
	}
}

func TestCheckHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "history.db")
	if result := CheckHistory(context.Background(), path); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.History.Path = filepath.Join(base, "state", "history.db")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return &cfg
}

func TestRunAll_Offline(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Textfile = filepath.Join(cfg.Paths.StateDir, "ntfy.prom")

	results := RunAll(context.Background(), cfg, Options{Offline: true})
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
		if r.Name == "Relay" {
			t.Fatal("offline run must not probe the relay")
		}
	}
	want := "State directory,Relay URL,History,Metrics textfile"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("checks = %s, want %s", got, want)
	}
	if !AllPassed(results) {
		t.Fatalf("expected all checks to pass: %#v", results)
	}
}

func TestRunAll_ProbesRelay(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Ntfy.URL = srv.URL
	cfg.History.Enabled = false

	results := RunAll(context.Background(), cfg, Options{})
	if len(results) != 3 || results[2].Name != "Relay" {
		t.Fatalf("unexpected results: %#v", results)
	}
	if !AllPassed(results) {
		t.Fatalf("expected all checks to pass: %#v", results)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, Options{}); results != nil {
		t.Fatalf("expected nil results, got %#v", results)
	}
}
