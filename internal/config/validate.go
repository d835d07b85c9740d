package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.ProcessingRoot == "" {
		return errors.New("paths.processing_root must be set")
	}
	if c.Paths.ProcessedDir == "" || c.Paths.ProcessedDir == "." {
		return errors.New("paths.processed_dir must be set")
	}
	if filepath.IsAbs(c.Paths.ProcessedDir) {
		return errors.New("paths.processed_dir must be relative; it is resolved under paths.processing_root")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.RequestTimeout <= 0 {
		return errors.New("workflow.request_timeout must be positive")
	}
	if c.Workflow.Stage == "" {
		return errors.New("workflow.stage must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
