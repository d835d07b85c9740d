package testsupport

import (
	"path/filepath"
	"testing"

	"voltaic/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config rooted in a unique temp directory per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ProcessingRoot = base
	cfg.Paths.ProcessedDir = "structure"
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DatabasePath = filepath.Join(base, "runs.db")
	cfg.Workflow.SinkURL = ""

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSinkURL points the workflow sink at the given endpoint.
func WithSinkURL(url string) ConfigOption {
	return func(c *config.Config) {
		c.Workflow.SinkURL = url
	}
}

// WithProcessedDir overrides the relative structured-output directory.
func WithProcessedDir(dir string) ConfigOption {
	return func(c *config.Config) {
		c.Paths.ProcessedDir = dir
	}
}
