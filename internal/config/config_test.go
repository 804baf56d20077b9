package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BaseURL != "http://localhost:8000" {
		t.Errorf("expected default base_url %q, got %q", "http://localhost:8000", cfg.BaseURL)
	}
	if cfg.LoginPage != "/login/index.html" {
		t.Errorf("expected default login_page %q, got %q", "/login/index.html", cfg.LoginPage)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout())
	}
	if cfg.Debounce() != 300*time.Millisecond {
		t.Errorf("expected default debounce 300ms, got %v", cfg.Debounce())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.talkboard.yml")

	original := DefaultConfig()
	original.BaseURL = "https://board.example.com"
	original.DataDir = filepath.Join(dir, "data")
	original.TimeoutSeconds = 5

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.BaseURL != original.BaseURL {
		t.Errorf("base_url: got %q, want %q", loaded.BaseURL, original.BaseURL)
	}
	if loaded.DataDir != original.DataDir {
		t.Errorf("data_dir: got %q, want %q", loaded.DataDir, original.DataDir)
	}
	if loaded.TimeoutSeconds != 5 {
		t.Errorf("timeout_seconds: got %d, want 5", loaded.TimeoutSeconds)
	}
	if loaded.DatabasePath() != filepath.Join(original.DataDir, "local_storage.db") {
		t.Errorf("DatabasePath: got %q", loaded.DatabasePath())
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8000" {
		t.Errorf("expected default base_url, got %q", cfg.BaseURL)
	}
}

func TestEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	os.WriteFile(path, []byte("base_url: http://from-file:8000\n"), 0644)
	t.Setenv("TALKBOARD_BASE_URL", "http://from-env:9000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "http://from-env:9000" {
		t.Errorf("expected env override, got %q", cfg.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"empty base_url", func(c *Config) { c.BaseURL = "" }, true},
		{"base_url without scheme", func(c *Config) { c.BaseURL = "localhost:8000" }, true},
		{"ftp base_url", func(c *Config) { c.BaseURL = "ftp://host" }, true},
		{"empty data_dir", func(c *Config) { c.DataDir = "" }, true},
		{"relative login_page", func(c *Config) { c.LoginPage = "login.html" }, true},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }, true},
		{"negative debounce", func(c *Config) { c.DebounceMS = -1 }, true},
		{"zero debounce", func(c *Config) { c.DebounceMS = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
