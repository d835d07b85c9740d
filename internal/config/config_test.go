package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
processing_root = "` + dir + `"
processed_dir = "structure"
log_dir = "` + filepath.Join(dir, "logs") + `"
database_path = "` + filepath.Join(dir, "runs.db") + `"

[workflow]
sink_url = "http://127.0.0.1:9"
stage = "structuring"

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("expected config file to be detected")
	}
	if resolved != path {
		t.Fatalf("resolved path mismatch: %s", resolved)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging section not applied: %+v", cfg.Logging)
	}
	if got := cfg.ProcessedDirAbs(); got != filepath.Join(dir, "structure") {
		t.Fatalf("processed dir resolution: %s", got)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("file should not exist")
	}
	if cfg.Paths.ProcessedDir != defaultProcessedDir {
		t.Fatalf("expected default processed dir, got %s", cfg.Paths.ProcessedDir)
	}
	if cfg.Workflow.Stage != "structuring" {
		t.Fatalf("expected default stage, got %s", cfg.Workflow.Stage)
	}
}

func TestValidateRejectsAbsoluteProcessedDir(t *testing.T) {
	cfg := Default()
	cfg.Paths.ProcessedDir = "/etc/structure"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for absolute processed_dir")
	}
}

func TestValidateRejectsUnknownLogFormat(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

func TestOverrideProcessingRoot(t *testing.T) {
	cfg := Default()
	dir := t.TempDir()
	if err := cfg.OverrideProcessingRoot(dir); err != nil {
		t.Fatal(err)
	}
	if cfg.Paths.ProcessingRoot != dir {
		t.Fatalf("override not applied: %s", cfg.Paths.ProcessingRoot)
	}
}

func TestOverrideProcessedDir(t *testing.T) {
	cfg := Default()
	if err := cfg.OverrideProcessedDir("  structure/./batch//out "); err != nil {
		t.Fatal(err)
	}
	if cfg.Paths.ProcessedDir != filepath.Join("structure", "batch", "out") {
		t.Fatalf("override not normalized: %q", cfg.Paths.ProcessedDir)
	}

	if err := cfg.OverrideProcessedDir("/etc/structure"); err == nil {
		t.Fatal("expected error for absolute override")
	}
	if err := cfg.OverrideProcessedDir("   "); err == nil {
		t.Fatal("expected error for blank override")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	got, err := expandPath("~/logs")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, home) {
		t.Fatalf("tilde not expanded: %s", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[paths]") {
		t.Fatal("sample config missing [paths] section")
	}
}
