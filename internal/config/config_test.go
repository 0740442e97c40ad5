package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ntfydispatch/internal/config"
	"ntfydispatch/internal/services"
)

func clearNtfyEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"NTFY_URL", "NTFY_TOPIC", "NTFY_AUTH", "NTFY_USER", "NTFY_PASSWORD"} {
		if value, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { _ = os.Setenv(key, value) })
			_ = os.Unsetenv(key)
		}
	}
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	clearNtfyEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "ntfy-dispatch")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.History.Path != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.History.Path)
	}
	if cfg.Ntfy.URL != "https://ntfy.sh" {
		t.Fatalf("unexpected url: %q", cfg.Ntfy.URL)
	}
	if cfg.Ntfy.Topic != "test-topic" {
		t.Fatalf("unexpected topic: %q", cfg.Ntfy.Topic)
	}
	if cfg.Ntfy.Message != "Ansible playbook" {
		t.Fatalf("unexpected message: %q", cfg.Ntfy.Message)
	}
	if cfg.Ntfy.Auth != "" {
		t.Fatalf("expected no auth by default, got %q", cfg.Ntfy.Auth)
	}
	if cfg.Metrics.Textfile != "" {
		t.Fatalf("expected metrics disabled by default, got %q", cfg.Metrics.Textfile)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearNtfyEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "ntfy-dispatch.toml")

	type payload struct {
		Ntfy struct {
			URL   string         `toml:"url"`
			Topic string         `toml:"topic"`
			Attrs map[string]any `toml:"attrs"`
		} `toml:"ntfy"`
		History struct {
			RetentionDays int `toml:"retention_days"`
		} `toml:"history"`
	}
	custom := payload{}
	custom.Ntfy.URL = "http://localhost:8864/"
	custom.Ntfy.Topic = "admin-alerts"
	custom.Ntfy.Attrs = map[string]any{"priority": 4}
	custom.History.RetentionDays = 7
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Ntfy.URL != "http://localhost:8864/" {
		t.Fatalf("expected url from file, got %q", cfg.Ntfy.URL)
	}
	if cfg.Ntfy.Topic != "admin-alerts" {
		t.Fatalf("expected topic from file, got %q", cfg.Ntfy.Topic)
	}
	if cfg.Ntfy.Attrs["priority"] != int64(4) {
		t.Fatalf("expected priority attr 4, got %#v", cfg.Ntfy.Attrs["priority"])
	}
	if cfg.History.RetentionDays != 7 {
		t.Fatalf("expected retention 7, got %d", cfg.History.RetentionDays)
	}
}

func TestEnvFillsMissingValues(t *testing.T) {
	clearNtfyEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NTFY_URL", "https://push.example.com")
	t.Setenv("NTFY_TOPIC", "env-topic")
	t.Setenv("NTFY_USER", "john")
	t.Setenv("NTFY_PASSWORD", "secret")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Ntfy.URL != "https://push.example.com" {
		t.Errorf("expected url from env, got %q", cfg.Ntfy.URL)
	}
	if cfg.Ntfy.Topic != "env-topic" {
		t.Errorf("expected topic from env, got %q", cfg.Ntfy.Topic)
	}
	if cfg.Ntfy.Auth != "am9objpzZWNyZXQ=" {
		t.Errorf("expected encoded credentials, got %q", cfg.Ntfy.Auth)
	}
}

func TestEnvAuthTokenPreferredOverUserPassword(t *testing.T) {
	clearNtfyEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NTFY_AUTH", "dG9rZW4=")
	t.Setenv("NTFY_USER", "john")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Ntfy.Auth != "dG9rZW4=" {
		t.Fatalf("expected NTFY_AUTH to win, got %q", cfg.Ntfy.Auth)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	clearNtfyEnv(t)
	configPath := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(configPath, []byte("[ntfy]\nurl = \"ftp://example.com\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "ntfy.url") {
		t.Fatalf("expected field name in error, got %v", err)
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	clearNtfyEnv(t)
	configPath := filepath.Join(t.TempDir(), "format.toml")
	contents := "[logging]\nformat = \"Logfmt\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), `logging.format: unsupported value "logfmt"`) {
		t.Fatalf("expected format in error, got %v", err)
	}
}

func TestLoadAcceptsMixedCaseLogFormat(t *testing.T) {
	clearNtfyEnv(t)
	configPath := filepath.Join(t.TempDir(), "format.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nformat = \" JSON \"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized json format, got %q", cfg.Logging.Format)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "https://ntfy.sh") {
		t.Fatalf("sample config missing default url: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Ntfy.Topic != "test-topic" {
		t.Fatalf("expected sample topic, got %q", cfg.Ntfy.Topic)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Ntfy.URL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid url")
	}

	cfg = config.Default()
	cfg.Ntfy.Topic = " "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for blank topic")
	}

	cfg = config.Default()
	cfg.History.Path = "/tmp/history.db"
	cfg.History.RetentionDays = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative retention")
	}

	cfg = config.Default()
	cfg.History.Path = "/tmp/history.db"
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}

	cfg = config.Default()
	cfg.History.Path = "/tmp/history.db"
	cfg.Logging.Format = "logfmt"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}

	cfg = config.Default()
	cfg.History.Path = "/tmp/history.db"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestEncodeBasicAuth(t *testing.T) {
	if got := config.EncodeBasicAuth("john", "secret"); got != "am9objpzZWNyZXQ=" {
		t.Fatalf("unexpected token %q", got)
	}
}
