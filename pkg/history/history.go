// Package history persists validation runs in a local SQLite database so
// verdict changes can be tracked across configuration edits.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/homecfg/hagate/pkg/validate"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at DATETIME NOT NULL,
    config_dir TEXT NOT NULL,
    verdict INTEGER NOT NULL,
    files INTEGER NOT NULL,
    valid INTEGER NOT NULL,
    unknown INTEGER NOT NULL,
    disabled INTEGER NOT NULL,
    consistency INTEGER NOT NULL,
    syntax_errors INTEGER NOT NULL,
    registry_available INTEGER NOT NULL,
    report_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

CREATE TABLE IF NOT EXISTS findings (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    file TEXT NOT NULL,
    ref_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    classification TEXT NOT NULL,
    detail TEXT
);

CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
CREATE INDEX IF NOT EXISTS idx_findings_class ON findings(classification);
`

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

// Run is one recorded validation run.
type Run struct {
	ID                string    `json:"id"`
	StartedAt         time.Time `json:"started_at"`
	ConfigDir         string    `json:"config_dir"`
	Verdict           bool      `json:"verdict"`
	Files             int       `json:"files"`
	Valid             int       `json:"valid"`
	Unknown           int       `json:"unknown"`
	Disabled          int       `json:"disabled"`
	Consistency       int       `json:"consistency"`
	SyntaxErrors      int       `json:"syntax_errors"`
	RegistryAvailable bool      `json:"registry_available"`
}

// Open opens (creating if needed) the history database at path and applies
// the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Record stores one report and returns the new run id.
func (s *Store) Record(configDir string, r *validate.Report) (string, error) {
	reportJSON, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	id := uuid.NewString()
	counts := r.Counts()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, started_at, config_dir, verdict, files, valid, unknown, disabled,
		 consistency, syntax_errors, registry_available, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), configDir, r.Verdict, len(r.Files),
		counts[validate.ClassValid], counts[validate.ClassUnknown],
		counts[validate.ClassDisabled], counts[validate.ClassConsistency],
		r.SyntaxErrorCount(), r.RegistryAvailable, string(reportJSON))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	insert, err := tx.Prepare(`INSERT INTO findings
		(run_id, file, ref_id, kind, classification, detail)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare findings insert: %w", err)
	}
	defer insert.Close()
	for _, f := range r.Findings {
		if _, err := insert.Exec(id, f.File, f.ID, string(f.Kind),
			string(f.Classification), f.Detail); err != nil {
			return "", fmt.Errorf("insert finding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT id, started_at, config_dir, verdict, files,
		valid, unknown, disabled, consistency, syntax_errors, registry_available
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.ConfigDir, &r.Verdict,
			&r.Files, &r.Valid, &r.Unknown, &r.Disabled, &r.Consistency,
			&r.SyntaxErrors, &r.RegistryAvailable); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Show loads the full report stored for one run.
func (s *Store) Show(id string) (*validate.Report, error) {
	var reportJSON string
	err := s.db.QueryRow(`SELECT report_json FROM runs WHERE id = ?`, id).
		Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	var r validate.Report
	if err := json.Unmarshal([]byte(reportJSON), &r); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &r, nil
}

// Prune deletes runs older than the cutoff and returns how many were removed.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := s.db.Exec(`DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}
