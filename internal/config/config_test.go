package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_NoFile_UsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":3000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Session.HistorySize != 10 {
		t.Errorf("Session.HistorySize = %d", cfg.Session.HistorySize)
	}
	if cfg.Fetcher.Mode != "http" || cfg.Fetcher.Timeout != 20*time.Second {
		t.Errorf("Fetcher = %+v", cfg.Fetcher)
	}
	if cfg.RateLimit.Window != time.Minute {
		t.Errorf("RateLimit.Window = %v", cfg.RateLimit.Window)
	}
}

func TestLoad_YAMLFile_OverridesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
server:
  addr: ":8080"
log:
  level: debug
  format: text
fetcher:
  mode: browser
  timeout: 45s
session:
  historySize: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Fetcher.Mode != "browser" || cfg.Fetcher.Timeout != 45*time.Second {
		t.Errorf("Fetcher = %+v", cfg.Fetcher)
	}
	if cfg.Session.HistorySize != 5 {
		t.Errorf("Session.HistorySize = %d", cfg.Session.HistorySize)
	}
	if cfg.Session.CookieName != "xhs_session" {
		t.Errorf("unset fields keep defaults, got CookieName %q", cfg.Session.CookieName)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "server:\n  addr: \":8080\"\n")
	t.Setenv("HTTP_ADDR", ":9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
}

func TestLoad_DotEnv_IsRead(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("HISTORY_SIZE=7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("HISTORY_SIZE") })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Session.HistorySize != 7 {
		t.Errorf("Session.HistorySize = %d, want 7", cfg.Session.HistorySize)
	}
}

func TestLoad_InvalidValues_ReturnsReadableError(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
fetcher:
  mode: carrier-pigeon
session:
  historySize: 500
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := err.Error()
	for _, want := range []string{"fetcher.mode must be one of", "session.historysize must be at most 100"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q should contain %q", msg, want)
		}
	}
}

func TestFormatFieldPath(t *testing.T) {
	if got := formatFieldPath("Config.RateLimit.Window"); got != "ratelimit.window" {
		t.Errorf("formatFieldPath() = %q", got)
	}
}
