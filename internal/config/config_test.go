package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Returns.Workers < 1 {
		t.Errorf("expected at least one worker, got %d", cfg.Returns.Workers)
	}
}

func TestSaveLoadRoundTripKeepsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "astrochart.json")

	cfg := Default()
	cfg.CatalogPath = "/etc/astrochart/catalog.hcl"
	cfg.Cache.Enabled = true
	cfg.Logging.Level = "debug"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.CatalogPath != cfg.CatalogPath || !loaded.Cache.Enabled || loaded.Logging.Level != "debug" {
		t.Errorf("overrides lost: %+v", loaded)
	}
}

func TestLoadPartialFileKeepsDefaultsForOmittedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"server":{"addr":":9090"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Cache.TTLSeconds != 3600 {
		t.Errorf("expected default ttl to survive, got %d", cfg.Cache.TTLSeconds)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"server":`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.json")
	if err := os.WriteFile(path, []byte(`{"catalog_path":"x.hcl"}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPath, path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.CatalogPath != "x.hcl" {
		t.Errorf("catalog path = %q", cfg.CatalogPath)
	}
}
