package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tantoon94/hotseat/internal/model"
)

// DBFileName is the name of the database file inside the data directory.
const DBFileName = "hotseat.db"

var (
	// ErrRunNotFound is returned when no run matches an ID prefix.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousRun is returned when an ID prefix matches several runs.
	ErrAmbiguousRun = errors.New("run id prefix is ambiguous")
)

// HistoryDB records runs and the artifacts they wrote.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per command invocation, in insertion order
	CREATE TABLE IF NOT EXISTS runs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		command TEXT NOT NULL,
		dir TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		warnings TEXT,
		steps TEXT,
		error TEXT
	);

	-- Files written by a run, keyed by absolute path
	CREATE TABLE IF NOT EXISTS artifacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		kind TEXT NOT NULL,
		path TEXT NOT NULL,
		seat INTEGER DEFAULT 0,
		bytes INTEGER NOT NULL,
		sha256 TEXT NOT NULL,
		previous_sha256 TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts(run_id);
	CREATE INDEX IF NOT EXISTS idx_artifacts_path ON artifacts(path);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// timeLayout sorts lexically in UTC.
const timeLayout = "2006-01-02 15:04:05.000000000"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

// RecordRun stores run and its artifacts in one transaction. Each artifact's
// PreviousSHA256 is set from the last recorded artifact with the same path
// before it is inserted, so run reflects what changed when RecordRun returns.
func (hdb *HistoryDB) RecordRun(ctx context.Context, run *model.Run) error {
	warnings, err := json.Marshal(run.Warnings)
	if err != nil {
		return fmt.Errorf("failed to serialize warnings: %w", err)
	}
	steps, err := json.Marshal(run.Steps)
	if err != nil {
		return fmt.Errorf("failed to serialize steps: %w", err)
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, command, dir, started_at, finished_at, warnings, steps, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Command,
		run.Dir,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		string(warnings),
		string(steps),
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i := range run.Artifacts {
		a := &run.Artifacts[i]

		path, err := filepath.Abs(a.Path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", a.Path, err)
		}

		prev, err := previousDigest(ctx, tx, path)
		if err != nil {
			return err
		}
		a.PreviousSHA256 = prev

		_, err = tx.ExecContext(ctx, `
		INSERT INTO artifacts (run_id, kind, path, seat, bytes, sha256, previous_sha256)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			a.Kind.String(),
			path,
			a.Seat,
			a.Bytes,
			a.SHA256,
			a.PreviousSHA256,
		)
		if err != nil {
			return fmt.Errorf("failed to insert artifact %s: %w", a.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// previousDigest returns the last recorded digest of path, or "" when the
// path has never been recorded.
func previousDigest(ctx context.Context, tx *sql.Tx, path string) (string, error) {
	var digest string
	err := tx.QueryRowContext(ctx, `
	SELECT sha256 FROM artifacts
	WHERE path = ?
	ORDER BY id DESC
	LIMIT 1
	`, path).Scan(&digest)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up previous digest: %w", err)
	}
	return digest, nil
}

const runColumns = `id, command, dir, started_at, finished_at, warnings, steps, error`

// ListRuns returns up to limit runs, newest first, with their artifacts.
// A limit of zero or less returns every run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]*model.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY seq DESC`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	runs, err := hdb.queryRuns(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for _, run := range runs {
		if run.Artifacts, err = hdb.runArtifacts(ctx, run.ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// GetRun returns the run whose ID starts with prefix.
func (hdb *HistoryDB) GetRun(ctx context.Context, prefix string) (*model.Run, error) {
	runs, err := hdb.queryRuns(ctx,
		`SELECT `+runColumns+` FROM runs WHERE substr(id, 1, length(?)) = ? ORDER BY seq DESC LIMIT 2`,
		prefix, prefix)
	if err != nil {
		return nil, err
	}
	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, prefix)
	}

	run := runs[0]
	if run.Artifacts, err = hdb.runArtifacts(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// ArtifactHistory returns every recorded generation of path, newest first.
func (hdb *HistoryDB) ArtifactHistory(ctx context.Context, path string) ([]model.Artifact, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return hdb.queryArtifacts(ctx, `
	SELECT kind, path, seat, bytes, sha256, previous_sha256
	FROM artifacts
	WHERE path = ?
	ORDER BY id DESC
	`, abs)
}

// Prune deletes all but the newest keep runs and their artifacts.
// It returns the number of runs deleted.
func (hdb *HistoryDB) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const stale = `SELECT id FROM runs ORDER BY seq DESC LIMIT -1 OFFSET ?`

	if _, err := tx.ExecContext(ctx, `DELETE FROM artifacts WHERE run_id IN (`+stale+`)`, keep); err != nil {
		return 0, fmt.Errorf("failed to prune artifacts: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id IN (`+stale+`)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prune: %w", err)
	}
	return n, nil
}

func (hdb *HistoryDB) queryRuns(ctx context.Context, query string, args ...any) ([]*model.Run, error) {
	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*model.Run, 0)
	for rows.Next() {
		var (
			run             model.Run
			startedAt       string
			finishedAt      sql.NullString
			warnings, steps sql.NullString
			runErr          sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Command, &run.Dir, &startedAt, &finishedAt, &warnings, &steps, &runErr); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.StartedAt = parseTimestamp(startedAt)
		run.FinishedAt = parseTimestamp(finishedAt.String)
		run.Error = runErr.String
		if err := unmarshalList(warnings, &run.Warnings); err != nil {
			return nil, fmt.Errorf("failed to parse warnings of run %s: %w", run.ID, err)
		}
		if err := unmarshalList(steps, &run.Steps); err != nil {
			return nil, fmt.Errorf("failed to parse steps of run %s: %w", run.ID, err)
		}
		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

func unmarshalList(s sql.NullString, v *[]string) error {
	if !s.Valid || s.String == "" || s.String == "null" {
		*v = make([]string, 0)
		return nil
	}
	return json.Unmarshal([]byte(s.String), v)
}

func (hdb *HistoryDB) runArtifacts(ctx context.Context, runID string) ([]model.Artifact, error) {
	return hdb.queryArtifacts(ctx, `
	SELECT kind, path, seat, bytes, sha256, previous_sha256
	FROM artifacts
	WHERE run_id = ?
	ORDER BY id
	`, runID)
}

func (hdb *HistoryDB) queryArtifacts(ctx context.Context, query string, args ...any) ([]model.Artifact, error) {
	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := make([]model.Artifact, 0)
	for rows.Next() {
		var (
			a    model.Artifact
			kind string
			prev sql.NullString
		)
		if err := rows.Scan(&kind, &a.Path, &a.Seat, &a.Bytes, &a.SHA256, &prev); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		// Unknown kinds from a newer schema are kept as ArtifactUnknown.
		a.Kind, _ = model.ParseArtifactKind(kind)
		a.PreviousSHA256 = prev.String
		artifacts = append(artifacts, a)
	}

	return artifacts, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timeLayout,
	"2006-01-02 15:04:05",  // SQLite default datetime format
	"2006-01-02T15:04:05Z", // ISO 8601 with Z suffix
	time.RFC3339Nano,
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// Stored times are UTC; zero time is returned when no format matches.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
