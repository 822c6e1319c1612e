package config

import (
	"os"
	"path/filepath"
	"testing"

	perrors "printquote/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("DefaultFormat = %q, want text", cfg.Output.DefaultFormat)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.Ledger.Path = "/tmp/ledger.db"
	cfg.Output.DefaultFormat = "json"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Ledger.Path != "/tmp/ledger.db" {
		t.Errorf("Ledger.Path = %q", loaded.Ledger.Path)
	}
	if loaded.Output.DefaultFormat != "json" {
		t.Errorf("DefaultFormat = %q", loaded.Output.DefaultFormat)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("PRINTQUOTE_ADDR", ":9090")
	t.Setenv("PRINTQUOTE_LOG_LEVEL", "debug")
	t.Setenv("PRINTQUOTE_DB_PATH", "/var/lib/printquote/quotes.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Ledger.Path != "/var/lib/printquote/quotes.db" {
		t.Errorf("Ledger.Path = %q", cfg.Ledger.Path)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !perrors.IsType(err, perrors.TypeConfig) {
		t.Fatalf("expected CONFIG_ERROR, got %v", err)
	}
}
