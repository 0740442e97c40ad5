package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ntfydispatch/internal/config"
	"ntfydispatch/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	relay      *testsupport.Relay
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	for _, key := range []string{"NTFY_URL", "NTFY_TOPIC", "NTFY_AUTH", "NTFY_USER", "NTFY_PASSWORD"} {
		t.Setenv(key, "")
	}

	relay := testsupport.NewRelay(t)
	opts = append([]testsupport.ConfigOption{testsupport.WithRelayURL(relay.URL), testsupport.WithMetricsTextfile()}, opts...)
	cfg := testsupport.NewConfig(t, opts...)

	homeDir := filepath.Join(testsupport.BaseDir(cfg), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "ntfy-dispatch", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, relay: relay, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "[ntfy]\nurl = %q\ntopic = %q\n", cfg.Ntfy.URL, cfg.Ntfy.Topic)
	if cfg.Ntfy.Auth != "" {
		fmt.Fprintf(&b, "auth = %q\n", cfg.Ntfy.Auth)
	}
	fmt.Fprintf(&b, "\n[paths]\nstate_dir = %q\nlog_dir = %q\n", cfg.Paths.StateDir, cfg.Paths.LogDir)
	fmt.Fprintf(&b, "\n[history]\nenabled = %t\npath = %q\n", cfg.History.Enabled, cfg.History.Path)
	fmt.Fprintf(&b, "\n[metrics]\ntextfile = %q\n", cfg.Metrics.Textfile)
	testsupport.WriteFile(t, path, b.String())
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
