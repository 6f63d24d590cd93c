// Package storage provides SQLite-based persistence for simulated drops.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-bounce/internal/drop"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// Run is a saved drop.
type Run struct {
	ID            string
	Preset        string
	Gravity       float64
	Restitution   float64
	StartHeight   float64
	StartVelocity float64
	Bounces       int
	PeakHeight    float64
	SettleSecs    float64 // Zero if the run was saved before coming to rest
	CreatedAt     time.Time
}

// Impact is one saved ground contact of a run.
type Impact struct {
	RunID    string
	Seq      int
	AtSecs   float64
	Incoming float64
	Outgoing float64
}

// Stats contains aggregated statistics over all saved runs.
type Stats struct {
	Runs          int
	MaxBounces    int
	AvgSettleSecs float64
	LastRun       time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			preset TEXT NOT NULL DEFAULT '',
			gravity REAL NOT NULL,
			restitution REAL NOT NULL,
			start_height REAL NOT NULL,
			start_velocity REAL NOT NULL,
			bounces INTEGER NOT NULL DEFAULT 0,
			peak_height REAL NOT NULL DEFAULT 0,
			settle_secs REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS impacts (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			at_secs REAL NOT NULL,
			incoming REAL NOT NULL,
			outgoing REAL NOT NULL,
			PRIMARY KEY (run_id, seq)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished drop together with its impacts.
// Returns the generated run ID.
func (s *Store) SaveRun(rec drop.RunRecord) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	cfg := rec.Config
	_, err = tx.Exec(
		`INSERT INTO runs
		 (id, preset, gravity, restitution, start_height, start_velocity, bounces, peak_height, settle_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		cfg.Preset,
		cfg.Physics.Gravity,
		cfg.Physics.Restitution,
		cfg.Drop.StartHeight,
		cfg.Drop.StartVelocity,
		rec.Bounces,
		rec.PeakHeight,
		rec.SettleTime.Seconds(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO impacts (run_id, seq, at_secs, incoming, outgoing) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("storage: cannot prepare impact insert: %w", err)
	}
	defer stmt.Close()

	for _, imp := range rec.Impacts {
		if _, err := stmt.Exec(id, imp.Seq, imp.At.Seconds(), imp.IncomingSpeed, imp.OutgoingSpeed); err != nil {
			return "", fmt.Errorf("storage: cannot save impact %d: %w", imp.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

const runColumns = `id, preset, gravity, restitution, start_height, start_velocity,
		        bounces, peak_height, settle_secs, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var createdAt any
	err := row.Scan(
		&r.ID,
		&r.Preset,
		&r.Gravity,
		&r.Restitution,
		&r.StartHeight,
		&r.StartVelocity,
		&r.Bounces,
		&r.PeakHeight,
		&r.SettleSecs,
		&createdAt,
	)
	r.CreatedAt = parseTime(createdAt)
	return r, err
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY seq DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunByID retrieves a run by its ID.
func (s *Store) RunByID(id string) (Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("storage: %w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return r, nil
}

// Impacts retrieves the impacts of a run in order.
func (s *Store) Impacts(runID string) ([]Impact, error) {
	rows, err := s.db.Query(
		`SELECT run_id, seq, at_secs, incoming, outgoing
		 FROM impacts
		 WHERE run_id = ?
		 ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query impacts: %w", err)
	}
	defer rows.Close()

	var impacts []Impact
	for rows.Next() {
		var imp Impact
		if err := rows.Scan(&imp.RunID, &imp.Seq, &imp.AtSecs, &imp.Incoming, &imp.Outgoing); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		impacts = append(impacts, imp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return impacts, nil
}

// ClearRuns deletes all runs and their impacts.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM impacts"); err != nil {
		return fmt.Errorf("storage: cannot clear impacts: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// Stats retrieves aggregated statistics over all runs.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(bounces), 0), COALESCE(AVG(settle_secs), 0)
		 FROM runs`,
	).Scan(&stats.Runs, &stats.MaxBounces, &stats.AvgSettleSecs)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	var lastRun any
	err = s.db.QueryRow(`SELECT created_at FROM runs ORDER BY seq DESC LIMIT 1`).Scan(&lastRun)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last run: %w", err)
	}
	if err == nil {
		stats.LastRun = parseTime(lastRun)
	}

	return stats, nil
}
