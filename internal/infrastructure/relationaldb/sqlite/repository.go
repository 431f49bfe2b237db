// Package sqlite provides a SQLite implementation of the SnapshotDB interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ersonp/dex-core/internal/domain/entities"
	"github.com/ersonp/dex-core/internal/infrastructure/config"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// memoryPath is the SQLite in-memory database name.
const memoryPath = ":memory:"

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.SnapshotDB using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Every connection to :memory: opens its own empty database
	if cfg.Path == memoryPath {
		db.SetMaxOpenConns(1)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- One row per enrichment of a source file
	CREATE TABLE IF NOT EXISTS load_runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		records INTEGER NOT NULL,
		base_records INTEGER NOT NULL,
		rejected INTEGER NOT NULL,
		duplicates INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_load_runs_fingerprint ON load_runs(fingerprint);
	CREATE INDEX IF NOT EXISTS idx_load_runs_created ON load_runs(created_at);

	-- Enriched records of a run, in source order
	CREATE TABLE IF NOT EXISTS records (
		run_id TEXT NOT NULL REFERENCES load_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		type_1 TEXT NOT NULL,
		type_2 TEXT NOT NULL,
		hp REAL NOT NULL,
		attack REAL NOT NULL,
		defense REAL NOT NULL,
		sp_atk REAL NOT NULL,
		sp_def REAL NOT NULL,
		speed REAL NOT NULL,
		generation INTEGER NOT NULL DEFAULT 0,
		legendary INTEGER NOT NULL DEFAULT 0,
		total_stats REAL NOT NULL,
		power_score REAL NOT NULL,
		base_name TEXT NOT NULL,
		form TEXT NOT NULL,
		image_file TEXT NOT NULL,
		source_line INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, position)
	);
	CREATE INDEX IF NOT EXISTS idx_records_base_name ON records(run_id, base_name);

	-- Rows excluded from a run
	CREATE TABLE IF NOT EXISTS rejects (
		run_id TEXT NOT NULL REFERENCES load_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		line INTEGER NOT NULL,
		record_id INTEGER NOT NULL DEFAULT 0,
		field TEXT NOT NULL,
		value TEXT NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveRun stores a load run with its records and rejects in one transaction.
// An empty run ID or zero CreatedAt is filled in.
func (r *Repository) SaveRun(ctx context.Context, run *entities.LoadRun, records []entities.Record, rejects []entities.Reject) error {
	if run.ID == "" {
		run.ID = generateUUID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = timeNow()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO load_runs (id, source, fingerprint, records, base_records, rejected, duplicates, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Source,
		run.Fingerprint,
		run.Records,
		run.BaseRecords,
		run.Rejected,
		run.Duplicates,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving load run: %w", err)
	}

	if err := insertRecords(ctx, tx, run.ID, records); err != nil {
		return err
	}
	if err := insertRejects(ctx, tx, run.ID, rejects); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load run: %w", err)
	}
	return nil
}

func insertRecords(ctx context.Context, tx *sql.Tx, runID string, records []entities.Record) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (
			run_id, position, id, name, type_1, type_2,
			hp, attack, defense, sp_atk, sp_def, speed,
			generation, legendary, total_stats, power_score,
			base_name, form, image_file, source_line
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		_, err := stmt.ExecContext(ctx,
			runID, i, rec.ID, rec.Name, rec.Type1, rec.Type2,
			rec.Stats[0], rec.Stats[1], rec.Stats[2], rec.Stats[3], rec.Stats[4], rec.Stats[5],
			rec.Generation, rec.Legendary, rec.TotalStats, rec.PowerScore,
			rec.BaseName, rec.Form, rec.ImageKey, rec.SourceLine,
		)
		if err != nil {
			return fmt.Errorf("saving record %d: %w", rec.ID, err)
		}
	}
	return nil
}

func insertRejects(ctx context.Context, tx *sql.Tx, runID string, rejects []entities.Reject) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rejects (run_id, position, line, record_id, field, value, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing reject insert: %w", err)
	}
	defer stmt.Close()

	for i, rej := range rejects {
		if _, err := stmt.ExecContext(ctx, runID, i, rej.Line, rej.RecordID, rej.Field, rej.Value, rej.Message); err != nil {
			return fmt.Errorf("saving reject at line %d: %w", rej.Line, err)
		}
	}
	return nil
}

const runColumns = `id, source, fingerprint, records, base_records, rejected, duplicates, created_at`

// ListRuns lists load runs, newest first. limit <= 0 lists all.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]entities.LoadRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM load_runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying load runs: %w", err)
	}
	defer rows.Close()

	var result []entities.LoadRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *run)
	}
	return result, rows.Err()
}

// FindRun finds a load run by ID. Returns nil if not found.
func (r *Repository) FindRun(ctx context.Context, id string) (*entities.LoadRun, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM load_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// FindRunByFingerprint finds the newest run of a fingerprint. Returns nil if
// not found.
func (r *Repository) FindRunByFingerprint(ctx context.Context, fingerprint string) (*entities.LoadRun, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM load_runs
		WHERE fingerprint = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, fingerprint)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*entities.LoadRun, error) {
	var run entities.LoadRun
	err := s.Scan(
		&run.ID,
		&run.Source,
		&run.Fingerprint,
		&run.Records,
		&run.BaseRecords,
		&run.Rejected,
		&run.Duplicates,
		&run.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning load run: %w", err)
	}
	return &run, nil
}

// FindRecords returns the records stored for a run in source order.
func (r *Repository) FindRecords(ctx context.Context, runID string) ([]entities.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type_1, type_2,
			hp, attack, defense, sp_atk, sp_def, speed,
			generation, legendary, total_stats, power_score,
			base_name, form, image_file, source_line
		FROM records
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var result []entities.Record
	for rows.Next() {
		var rec entities.Record
		if err := rows.Scan(
			&rec.ID, &rec.Name, &rec.Type1, &rec.Type2,
			&rec.Stats[0], &rec.Stats[1], &rec.Stats[2], &rec.Stats[3], &rec.Stats[4], &rec.Stats[5],
			&rec.Generation, &rec.Legendary, &rec.TotalStats, &rec.PowerScore,
			&rec.BaseName, &rec.Form, &rec.ImageKey, &rec.SourceLine,
		); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

// FindRejects returns the rejected rows of a run in source order.
func (r *Repository) FindRejects(ctx context.Context, runID string) ([]entities.Reject, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT line, record_id, field, value, message
		FROM rejects
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying rejects: %w", err)
	}
	defer rows.Close()

	var result []entities.Reject
	for rows.Next() {
		var rej entities.Reject
		if err := rows.Scan(&rej.Line, &rej.RecordID, &rej.Field, &rej.Value, &rej.Message); err != nil {
			return nil, fmt.Errorf("scanning reject: %w", err)
		}
		result = append(result, rej)
	}
	return result, rows.Err()
}

// DeleteRun deletes a run and, by cascade, its records and rejects.
func (r *Repository) DeleteRun(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM load_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting load run: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("load run not found: %s", id)
	}
	return nil
}
