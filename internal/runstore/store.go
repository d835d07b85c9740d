package runstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"voltaic/internal/config"
)

// schemaVersion is bumped on schema changes; users clear the database to
// adopt a new schema.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const schemaSQL = `
CREATE TABLE schema_version (
    version INTEGER NOT NULL
);

CREATE TABLE structuring_runs (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    batch_id      TEXT NOT NULL,
    run_id        TEXT NOT NULL,
    source_path   TEXT NOT NULL,
    output_path   TEXT,
    format        TEXT,
    result        TEXT NOT NULL,
    error_message TEXT,
    created_at    TEXT NOT NULL
);

CREATE INDEX idx_structuring_runs_batch ON structuring_runs(batch_id);
CREATE INDEX idx_structuring_runs_result ON structuring_runs(result);
`

// Run is one per-file structuring outcome.
type Run struct {
	ID           int64
	BatchID      string
	RunID        string
	SourcePath   string
	OutputPath   string
	Format       string
	Result       string
	ErrorMessage string
	CreatedAt    time.Time
}

// Store persists structuring outcomes in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the run database and verifies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Paths.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: cfg.Paths.DatabasePath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// Record inserts one structuring outcome and returns its row id.
func (s *Store) Record(ctx context.Context, run *Run) (int64, error) {
	if run == nil {
		return 0, errors.New("run is nil")
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO structuring_runs (
            batch_id, run_id, source_path, output_path, format, result, error_message, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.BatchID,
		run.RunID,
		run.SourcePath,
		nullableString(run.OutputPath),
		nullableString(run.Format),
		run.Result,
		nullableString(run.ErrorMessage),
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

const runColumns = "id, batch_id, run_id, source_path, output_path, format, result, error_message, created_at"

// List returns the most recent runs, newest first. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM structuring_runs ORDER BY id DESC`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListByBatch returns the runs recorded for a batch, in insertion order.
func (s *Store) ListByBatch(ctx context.Context, batchID string) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM structuring_runs WHERE batch_id = ? ORDER BY id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("list batch runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Stats returns a count of runs grouped by result tag.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT result, COUNT(1) FROM structuring_runs GROUP BY result`)
	if err != nil {
		return nil, fmt.Errorf("run stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var result string
		var count int
		if err := rows.Scan(&result, &count); err != nil {
			return nil, err
		}
		stats[result] = count
	}
	return stats, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id         int64
		batchID    string
		runID      string
		sourcePath string
		outputPath sql.NullString
		format     sql.NullString
		result     string
		errMessage sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(&id, &batchID, &runID, &sourcePath, &outputPath, &format, &result, &errMessage, &createdRaw); err != nil {
		return nil, err
	}

	run := &Run{
		ID:           id,
		BatchID:      batchID,
		RunID:        runID,
		SourcePath:   sourcePath,
		OutputPath:   outputPath.String,
		Format:       format.String,
		Result:       result,
		ErrorMessage: errMessage.String,
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		run.CreatedAt = created
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
