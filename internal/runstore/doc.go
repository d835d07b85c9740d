// Package runstore persists per-file structuring outcomes in SQLite.
//
// The journal is append-only bookkeeping, not the source of truth for a batch:
// the output manifest carries the authoritative result. Schema changes bump
// the version constant; users delete the database to adopt the new schema.
package runstore
