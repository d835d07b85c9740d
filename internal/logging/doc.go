// Package logging assembles the structured slog loggers used across voltaic.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and defines the standardized field keys so batch code tags log
// lines with batch and run identifiers consistently. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
