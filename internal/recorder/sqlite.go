package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.Logger) (*SQLiteRecorder, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases alive across statements.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL UNIQUE,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			input_dir   TEXT,
			failed      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON scan_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS analysis_results (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			name      TEXT NOT NULL,
			status    TEXT NOT NULL,
			reports   INTEGER,
			row_count INTEGER,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON analysis_results(run_id)`,

		`CREATE TABLE IF NOT EXISTS big_scan_scores (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			symbol      TEXT NOT NULL,
			total       INTEGER,
			tier        TEXT,
			whale       TEXT,
			trend       TEXT,
			whale_cost  REAL,
			close_price REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_run ON big_scan_scores(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_symbol ON big_scan_scores(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT INTO scan_runs
		(run_id, started_at, finished_at, input_dir, failed)
		VALUES (?,?,?,?,?)`,
		run.RunID, run.StartedAt.Unix(), run.FinishedAt.Unix(), run.InputDir, run.Failed,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for _, a := range run.Analyses {
		if _, err := tx.Exec(`INSERT INTO analysis_results
			(run_id, name, status, reports, row_count, error)
			VALUES (?,?,?,?,?,?)`,
			run.RunID, a.Name, a.Status, a.Reports, a.Rows, a.Error,
		); err != nil {
			return fmt.Errorf("insert analysis %s: %w", a.Name, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordScores(scores []ScoreRecord) error {
	if len(scores) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO big_scan_scores
		(run_id, symbol, total, tier, whale, trend, whale_cost, close_price)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range scores {
		if _, err := stmt.Exec(s.RunID, s.Symbol, s.Total, s.Tier, s.Whale, s.Trend, s.WhaleCost, s.Close); err != nil {
			return fmt.Errorf("insert score %s: %w", s.Symbol, err)
		}
	}
	return tx.Commit()
}

// RecentRuns returns the latest runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT s.run_id, s.started_at, s.failed,
			(SELECT COUNT(*) FROM analysis_results a WHERE a.run_id = s.run_id)
		FROM scan_runs s
		ORDER BY s.started_at DESC, s.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var started int64
		if err := rows.Scan(&s.RunID, &started, &s.Failed, &s.Analyses); err != nil {
			return nil, err
		}
		s.StartedAt = time.Unix(started, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
