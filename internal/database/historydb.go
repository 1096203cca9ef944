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

	"github.com/nao1215/csvhash/internal/model"
)

// FileName is the name of the history database inside the data directory.
const FileName = "history.db"

// storedTimeFormat keeps a fixed width so stored timestamps sort lexically.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryDB provides SQLite-based storage for run summaries.
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

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	var dsn string
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
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
	-- One row per run
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		input_path TEXT NOT NULL,
		output_path TEXT NOT NULL,
		column_name TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		salted INTEGER NOT NULL DEFAULT 0,
		truncate_length INTEGER NOT NULL DEFAULT 0,
		total_rows INTEGER NOT NULL DEFAULT 0,
		group_count INTEGER NOT NULL DEFAULT 0,
		colliding_rows INTEGER NOT NULL DEFAULT 0,
		percentage REAL NOT NULL DEFAULT 0,
		clash_log TEXT,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	-- Collision groups of a run, in first-member order
	CREATE TABLE IF NOT EXISTS collision_groups (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		truncated TEXT NOT NULL,
		size INTEGER NOT NULL,
		row_positions TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	-- Columns flagged by the residual identifier scan
	CREATE TABLE IF NOT EXISTS residual_findings (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		column_name TEXT NOT NULL,
		kind TEXT NOT NULL,
		severity TEXT NOT NULL,
		match_count INTEGER NOT NULL,
		first_row INTEGER NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a run summary, its collision groups and its residual
// findings in one transaction.
func (hdb *HistoryDB) SaveRun(ctx context.Context, s *model.Summary) (err error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() //nolint:errcheck // Already failing
		}
	}()

	query := `
	INSERT INTO runs (
		id, started_at, duration_ms, input_path, output_path, column_name,
		algorithm, salted, truncate_length, total_rows, group_count,
		colliding_rows, percentage, clash_log, error
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		s.RunID,
		s.StartedAt.UTC().Format(storedTimeFormat),
		s.Duration.Milliseconds(),
		s.InputPath,
		s.OutputPath,
		s.Column,
		s.Algorithm,
		s.Salted,
		s.TruncateLength,
		s.TotalRows,
		s.GroupCount,
		s.CollidingRows,
		s.Percentage,
		nullString(s.ClashLogPath),
		nullString(s.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	for i, g := range s.Groups {
		rowsJSON, mErr := json.Marshal(g.Rows)
		if mErr != nil {
			return fmt.Errorf("failed to serialize group rows: %w", mErr)
		}
		_, err = tx.ExecContext(ctx, `
		INSERT INTO collision_groups (run_id, position, truncated, size, row_positions)
		VALUES (?, ?, ?, ?, ?)
		`, s.RunID, i, g.Truncated, g.Size, string(rowsJSON))
		if err != nil {
			return fmt.Errorf("failed to save collision group: %w", err)
		}
	}

	for i, f := range s.Residuals {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO residual_findings (run_id, position, column_name, kind, severity, match_count, first_row)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		`, s.RunID, i, f.Column, f.Kind, f.Severity.String(), f.Count, f.FirstRow)
		if err != nil {
			return fmt.Errorf("failed to save residual finding: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// runColumns is the select list shared by ListRuns and GetRun.
const runColumns = `
	id, started_at, duration_ms, input_path, output_path, column_name,
	algorithm, salted, truncate_length, total_rows, group_count,
	colliding_rows, percentage, clash_log, error
`

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun reads one runs row into a Summary.
func scanRun(sc rowScanner) (*model.Summary, error) {
	var (
		s          model.Summary
		startedAt  string
		durationMS int64
		clashLog   sql.NullString
		errMsg     sql.NullString
	)
	err := sc.Scan(
		&s.RunID, &startedAt, &durationMS, &s.InputPath, &s.OutputPath, &s.Column,
		&s.Algorithm, &s.Salted, &s.TruncateLength, &s.TotalRows, &s.GroupCount,
		&s.CollidingRows, &s.Percentage, &clashLog, &errMsg,
	)
	if err != nil {
		return nil, err
	}
	s.StartedAt = parseTimestamp(startedAt)
	s.Duration = time.Duration(durationMS) * time.Millisecond
	s.ClashLogPath = clashLog.String
	s.Error = errMsg.String
	return &s, nil
}

// ListRuns returns up to limit runs, newest first. Groups are not loaded.
// A limit of zero or less returns every run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]*model.Summary, error) {
	query := "SELECT" + runColumns + "FROM runs ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.Summary
	for rows.Next() {
		s, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, s)
	}

	return runs, rows.Err()
}

// GetRun retrieves one run with its collision groups and residual findings.
// It returns nil without error when no run has the given id.
func (hdb *HistoryDB) GetRun(ctx context.Context, id string) (*model.Summary, error) {
	query := "SELECT" + runColumns + "FROM runs WHERE id = ?"

	s, err := scanRun(hdb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	groups, err := hdb.GetGroups(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(groups) > 0 {
		s.Groups = groups
	}

	residuals, err := hdb.GetResiduals(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Residuals = residuals
	return s, nil
}

// GetGroups returns the collision groups of a run in first-member order.
func (hdb *HistoryDB) GetGroups(ctx context.Context, runID string) ([]model.GroupSummary, error) {
	query := `
	SELECT truncated, size, row_positions FROM collision_groups
	WHERE run_id = ?
	ORDER BY position
	`

	rows, err := hdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collision groups: %w", err)
	}
	defer rows.Close()

	var groups []model.GroupSummary
	for rows.Next() {
		var (
			g        model.GroupSummary
			rowsJSON string
		)
		if err := rows.Scan(&g.Truncated, &g.Size, &rowsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan collision group: %w", err)
		}
		if err := json.Unmarshal([]byte(rowsJSON), &g.Rows); err != nil {
			return nil, fmt.Errorf("failed to parse group rows: %w", err)
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

// GetResiduals returns the residual findings of a run in scan order.
func (hdb *HistoryDB) GetResiduals(ctx context.Context, runID string) ([]model.ResidualFinding, error) {
	query := `
	SELECT column_name, kind, severity, match_count, first_row FROM residual_findings
	WHERE run_id = ?
	ORDER BY position
	`

	rows, err := hdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get residual findings: %w", err)
	}
	defer rows.Close()

	var findings []model.ResidualFinding
	for rows.Next() {
		var (
			f        model.ResidualFinding
			severity string
		)
		if err := rows.Scan(&f.Column, &f.Kind, &severity, &f.Count, &f.FirstRow); err != nil {
			return nil, fmt.Errorf("failed to scan residual finding: %w", err)
		}
		if err := f.Severity.UnmarshalText([]byte(severity)); err != nil {
			f.Severity = model.GetSeverity(f.Kind)
		}
		findings = append(findings, f)
	}

	return findings, rows.Err()
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite default datetime format
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
