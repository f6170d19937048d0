package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestReloader_Current(t *testing.T) {
	cfg := Default()
	cfg.Branding.Name = "Acme"

	r := NewReloader("", "", cfg)
	if got := r.Current().Branding.Name; got != "Acme" {
		t.Errorf("Current().Branding.Name = %q, want Acme", got)
	}
}

func TestReloader_Reload(t *testing.T) {
	dir := t.TempDir()
	dotenvPath := filepath.Join(dir, ".env")
	configPath := filepath.Join(dir, "config.jsonc")

	if err := os.WriteFile(dotenvPath, []byte("RELOAD_TEST_NAME=initial\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	configContent := `{
		"webhook": {"url": "https://hooks.example.com"},
		"branding": {"name": "${{ .Env.RELOAD_TEST_NAME }}"}
	}`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RELOAD_TEST_NAME", "")

	r := NewReloader(configPath, dotenvPath, Default()).WithOverrides(func(c *Config) {
		c.Webhook.Route = "from-flag"
	})

	var callCount atomic.Int32
	r.OnReload(func(*Config) { callCount.Add(1) })

	if err := os.WriteFile(dotenvPath, []byte("RELOAD_TEST_NAME=updated\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	cfg := r.Current()
	if cfg.Branding.Name != "updated" {
		t.Errorf("expected name from reloaded .env, got %q", cfg.Branding.Name)
	}
	if cfg.Webhook.Route != "from-flag" {
		t.Errorf("expected override to be reapplied, got %q", cfg.Webhook.Route)
	}
	if callCount.Load() != 1 {
		t.Errorf("expected 1 listener call, got %d", callCount.Load())
	}
}

func TestReloader_InvalidKeepsCurrent(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.jsonc")
	if err := os.WriteFile(configPath, []byte(`{"webhook": {"url": ""}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("N8NCHAT_WEBHOOK_URL", "")
	os.Unsetenv("N8NCHAT_WEBHOOK_URL")

	initial := Default()
	initial.Webhook.URL = "https://keep.example.com"
	r := NewReloader(configPath, filepath.Join(dir, ".env"), initial)

	called := false
	r.OnReload(func(*Config) { called = true })

	if err := r.Reload(); err == nil {
		t.Fatal("expected validation error")
	}
	if r.Current() != initial {
		t.Error("expected current config to be kept")
	}
	if called {
		t.Error("listener should not run on failed reload")
	}
}
