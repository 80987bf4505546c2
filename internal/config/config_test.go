package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("STORE_URL", "")
	t.Setenv("OVERRIDES_FILE", filepath.Join(t.TempDir(), "none.yaml"))

	cfg := Load()
	if cfg.Port != "3000" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("env = %q", cfg.Env)
	}
	if cfg.StoreURL != "http://localhost:54321" {
		t.Fatalf("store url = %q", cfg.StoreURL)
	}
	if cfg.DefaultLocale != "fr" {
		t.Fatalf("locale = %q", cfg.DefaultLocale)
	}
}

func TestLoadTrimsTrailingSlash(t *testing.T) {
	t.Setenv("STORE_URL", "https://abc.example.co/")
	t.Setenv("OVERRIDES_FILE", filepath.Join(t.TempDir(), "none.yaml"))

	if cfg := Load(); cfg.StoreURL != "https://abc.example.co" {
		t.Fatalf("store url = %q", cfg.StoreURL)
	}
}

func TestOverridesFileWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	body := "store_url: https://override.example.co/\nstore_anon_key: key-from-file\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write overrides: %v", err)
	}
	t.Setenv("STORE_URL", "https://env.example.co")
	t.Setenv("STORE_ANON_KEY", "key-from-env")
	t.Setenv("OVERRIDES_FILE", path)

	cfg := Load()
	if cfg.StoreURL != "https://override.example.co" {
		t.Fatalf("store url = %q", cfg.StoreURL)
	}
	if cfg.StoreAnonKey != "key-from-file" {
		t.Fatalf("anon key = %q", cfg.StoreAnonKey)
	}
}

func TestSaveOverridesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	t.Setenv("STORE_URL", "")
	t.Setenv("STORE_ANON_KEY", "")
	t.Setenv("OVERRIDES_FILE", path)

	cfg := Load()
	if err := cfg.SaveOverrides("https://saved.example.co/", "saved-key"); err != nil {
		t.Fatalf("SaveOverrides: %v", err)
	}
	if cfg.StoreURL != "https://saved.example.co" {
		t.Fatalf("store url not updated in place, got %q", cfg.StoreURL)
	}

	reloaded := Load()
	if reloaded.StoreURL != "https://saved.example.co" {
		t.Fatalf("reloaded store url = %q", reloaded.StoreURL)
	}
	if reloaded.StoreAnonKey != "saved-key" {
		t.Fatalf("reloaded anon key = %q", reloaded.StoreAnonKey)
	}
}
