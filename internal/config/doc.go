// Package config loads, normalizes, and validates voltaic configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI needs: the processing root and processed directory that anchor structured
// output, the workflow sink endpoint, and log routing.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors. The processing-root environment
// override lives at the process boundary in cmd/voltaic, not here.
package config
