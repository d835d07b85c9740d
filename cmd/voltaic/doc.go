// Package main hosts the voltaic CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into batch
// structuring runs, format-registry inspection, run-journal queries, and
// configuration scaffolding. It centralizes configuration resolution (including
// the VOLTAIC_PROCESSING_DIR override) and logging setup so subcommands focus
// on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
