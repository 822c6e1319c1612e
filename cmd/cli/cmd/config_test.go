package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"printquote/internal/config"
	perrors "printquote/internal/errors"
)

func TestInitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printquote", "config.json")

	cfg := config.Default()
	cfg.Server.Addr = ":9191"
	if err := initConfigFile(path, cfg, false); err != nil {
		t.Fatalf("initConfigFile() error = %v", err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server.Addr != ":9191" {
		t.Errorf("Server.Addr = %q, want :9191", loaded.Server.Addr)
	}

	err = initConfigFile(path, config.Default(), false)
	if !perrors.IsType(err, perrors.TypeConfig) {
		t.Fatalf("second init error = %v, want CONFIG_ERROR", err)
	}
	if kept, _ := config.Load(path); kept.Server.Addr != ":9191" {
		t.Errorf("existing file overwritten without --force")
	}

	if err := initConfigFile(path, config.Default(), true); err != nil {
		t.Fatalf("forced init error = %v", err)
	}
	if forced, _ := config.Load(path); forced.Server.Addr != ":8080" {
		t.Errorf("Server.Addr after --force = %q, want :8080", forced.Server.Addr)
	}
}

func TestInitConfigFileNeedsPath(t *testing.T) {
	if err := initConfigFile("", config.Default(), false); !perrors.IsType(err, perrors.TypeConfig) {
		t.Errorf("error = %v, want CONFIG_ERROR", err)
	}
}

func TestShowConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Ledger.Path = "/srv/quotes.db"

	var buf bytes.Buffer
	if err := showConfig(&buf, cfg); err != nil {
		t.Fatalf("showConfig() error = %v", err)
	}

	var decoded config.Config
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if decoded.Ledger.Path != "/srv/quotes.db" {
		t.Errorf("Ledger.Path = %q", decoded.Ledger.Path)
	}
}

func TestConfigCommandRegistered(t *testing.T) {
	for _, args := range [][]string{{"config", "init"}, {"config", "show"}} {
		c, _, err := rootCmd.Find(args)
		if err != nil || c.Name() != args[1] {
			t.Errorf("Find(%v) = %v, %v", args, c, err)
		}
	}
}
