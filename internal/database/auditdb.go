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

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// ErrNotEnoughRuns is returned by CompareLatest when fewer than two runs
// are stored for the requested target. We use a specific error value so
// the history command can explain the situation instead of printing a
// generic failure.
var ErrNotEnoughRuns = errors.New("not enough stored runs to compare")

// AuditDB provides SQLite-based storage for audit runs and their failure
// findings.
//
// Design decision: We use a single database file for all targets rather
// than one file per target. This keeps the history command able to list
// every audited application and simplifies backup/restore operations.
type AuditDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AuditDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an AuditDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*AuditDB, error) {
	dbPath := filepath.Join(dbDir, "wcag-zoo-runner.db")

	// Check if we should create the database or require it to exist
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

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	// SQLite doesn't benefit from multiple connections for writes,
	// but multiple readers can improve performance
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AuditDB{
		db:     db,
		dbPath: dbPath,
	}

	// Enable WAL mode if requested
	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Create tables
	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (adb *AuditDB) Close() error {
	return adb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
//
// Design decision: the category totals are flat columns rather than a JSON
// blob because the four buckets are fixed by the result schema, and flat
// columns let the history listing come straight out of one query.
func (adb *AuditDB) createTables() error {
	schema := `
	-- Audit runs store one row per completed run
	CREATE TABLE IF NOT EXISTS audit_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		level TEXT NOT NULL,
		started_at TEXT NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		failures INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		successes INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_target ON audit_runs(target);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON audit_runs(started_at);

	-- Failure findings, stored per run for run-over-run comparison
	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES audit_runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		guideline TEXT NOT NULL,
		technique TEXT NOT NULL,
		xpath TEXT NOT NULL,
		message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveAuditReport stores one run row plus its failure findings and the
// full report JSON. Returns the new run's database ID.
func (adb *AuditDB) SaveAuditReport(ctx context.Context, report *model.AuditReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	totals := report.Totals()

	// The run row and its findings land together or not at all, so a
	// half-written run can never skew a later comparison.
	tx, err := adb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO audit_runs (target, level, started_at, elapsed_ms, pages, failures, warnings, skipped, successes, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.Target,
		report.Level,
		report.DateStarted.UTC().Format(time.RFC3339Nano),
		report.Elapsed.Milliseconds(),
		len(report.Pages),
		totals[model.CategoryFailures],
		totals[model.CategoryWarnings],
		totals[model.CategorySkipped],
		totals[model.CategorySuccess],
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, finding := range report.Failures() {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO findings (run_id, url, guideline, technique, xpath, message)
		VALUES (?, ?, ?, ?, ?, ?)
		`,
			runID,
			finding.URL,
			finding.Guideline,
			finding.Technique,
			finding.XPath,
			finding.Message,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert finding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// RunSummary contains summary information about a stored run.
// This is used for displaying history without loading the full report.
type RunSummary struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Target is the base URL the run audited.
	Target string

	// Level is the conformance level the run was validated against.
	Level string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration

	// Pages is the number of audited URLs.
	Pages int

	// Totals holds the per-category finding counts.
	Totals map[string]int
}

// ListRuns returns run summaries, most recent first. An empty target
// lists runs for every target.
func (adb *AuditDB) ListRuns(ctx context.Context, target string) ([]RunSummary, error) {
	query := `
	SELECT id, target, level, started_at, elapsed_ms, pages, failures, warnings, skipped, successes
	FROM audit_runs
	`
	args := make([]interface{}, 0)

	if target != "" {
		query += " WHERE target = ?"
		args = append(args, target)
	}

	// Runs are inserted as they finish, so the id orders them by recency
	// without depending on timestamp precision.
	query += " ORDER BY id DESC"

	rows, err := adb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunSummary
	for rows.Next() {
		var summary RunSummary
		var startedAt string
		var elapsedMS int64
		var failures, warnings, skipped, successes int

		err := rows.Scan(
			&summary.ID,
			&summary.Target,
			&summary.Level,
			&startedAt,
			&elapsedMS,
			&summary.Pages,
			&failures,
			&warnings,
			&skipped,
			&successes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		summary.StartedAt = parseTimestamp(startedAt)
		summary.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		summary.Totals = map[string]int{
			model.CategoryFailures: failures,
			model.CategoryWarnings: warnings,
			model.CategorySkipped:  skipped,
			model.CategorySuccess:  successes,
		}
		results = append(results, summary)
	}

	return results, rows.Err()
}

// StoredFinding is one failure finding from a stored run.
type StoredFinding struct {
	// URL is the page the finding belongs to.
	URL string

	// Guideline is the WCAG guideline the finding relates to.
	Guideline string

	// Technique is the WCAG technique the check applied.
	Technique string

	// XPath locates the offending element inside the document.
	XPath string

	// Message is the human-readable finding text.
	Message string
}

// Key identifies a finding across runs. Two findings with the same key
// are treated as the same issue when comparing runs.
func (f StoredFinding) Key() string {
	return f.URL + "\x00" + f.Guideline + "\x00" + f.Technique + "\x00" + f.XPath
}

// FindingsForRun returns the failure findings stored for one run.
func (adb *AuditDB) FindingsForRun(ctx context.Context, runID int64) ([]StoredFinding, error) {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT url, guideline, technique, xpath, message
	FROM findings
	WHERE run_id = ?
	ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var results []StoredFinding
	for rows.Next() {
		var finding StoredFinding
		var message sql.NullString

		if err := rows.Scan(&finding.URL, &finding.Guideline, &finding.Technique, &finding.XPath, &message); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		finding.Message = message.String
		results = append(results, finding)
	}

	return results, rows.Err()
}

// GetReport loads the full stored report for a run.
// Returns nil without error when the run does not exist.
func (adb *AuditDB) GetReport(ctx context.Context, runID int64) (*model.AuditReport, error) {
	var reportJSON string
	err := adb.db.QueryRowContext(ctx, `
	SELECT report_json FROM audit_runs WHERE id = ?
	`, runID).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.AuditReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// ListTargets returns every audited target, sorted.
func (adb *AuditDB) ListTargets(ctx context.Context) ([]string, error) {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT DISTINCT target FROM audit_runs ORDER BY target
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, target)
	}

	return targets, rows.Err()
}

// RunComparison is the outcome of diffing the failure findings of two runs.
type RunComparison struct {
	// Previous is the older of the two compared runs.
	Previous RunSummary

	// Latest is the newer of the two compared runs.
	Latest RunSummary

	// New holds failures present in the latest run but not the previous one.
	New []StoredFinding

	// Resolved holds failures present in the previous run but not the
	// latest one.
	Resolved []StoredFinding
}

// CompareLatest diffs the two most recent runs for a target. Findings are
// matched by (url, guideline, technique, xpath), so reworded messages do
// not show up as churn. Returns ErrNotEnoughRuns when fewer than two runs
// are stored.
func (adb *AuditDB) CompareLatest(ctx context.Context, target string) (*RunComparison, error) {
	runs, err := adb.ListRuns(ctx, target)
	if err != nil {
		return nil, err
	}
	if len(runs) < 2 {
		return nil, fmt.Errorf("%w: target %q has %d run(s)", ErrNotEnoughRuns, target, len(runs))
	}

	latest, previous := runs[0], runs[1]

	latestFindings, err := adb.FindingsForRun(ctx, latest.ID)
	if err != nil {
		return nil, err
	}
	previousFindings, err := adb.FindingsForRun(ctx, previous.ID)
	if err != nil {
		return nil, err
	}

	previousKeys := make(map[string]bool, len(previousFindings))
	for _, finding := range previousFindings {
		previousKeys[finding.Key()] = true
	}
	latestKeys := make(map[string]bool, len(latestFindings))
	for _, finding := range latestFindings {
		latestKeys[finding.Key()] = true
	}

	comparison := &RunComparison{
		Previous: previous,
		Latest:   latest,
	}
	for _, finding := range latestFindings {
		if !previousKeys[finding.Key()] {
			comparison.New = append(comparison.New, finding)
		}
	}
	for _, finding := range previousFindings {
		if !latestKeys[finding.Key()] {
			comparison.Resolved = append(comparison.Resolved, finding)
		}
	}

	return comparison, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,          // How SaveAuditReport stores started_at
	time.RFC3339,              // Full RFC3339 format
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
