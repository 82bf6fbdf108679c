package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Study.SetsDir != nil || cfg.Study.DelayMs != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigStudyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[study]
sets = "decks"
backend = "sqlite"
delay-ms = 0
policy = "threshold"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Study.SetsDir == nil || *cfg.Study.SetsDir != "decks" {
		t.Fatalf("unexpected sets dir: %v", cfg.Study.SetsDir)
	}
	if cfg.Study.Backend == nil || *cfg.Study.Backend != "sqlite" {
		t.Fatalf("unexpected backend: %v", cfg.Study.Backend)
	}
	if cfg.Study.DelayMs == nil || *cfg.Study.DelayMs != 0 {
		t.Fatalf("expected explicit zero delay, got %v", cfg.Study.DelayMs)
	}
	if cfg.Study.ProgressPath != nil {
		t.Fatalf("expected unset progress path")
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[study]\nspeed = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
