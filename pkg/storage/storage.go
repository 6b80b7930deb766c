package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS build_runs (
  id          INTEGER PRIMARY KEY,
  session_id  TEXT NOT NULL,
  matched     INTEGER NOT NULL,
  total       INTEGER NOT NULL,
  built_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_session ON build_runs(session_id, built_at);
CREATE TABLE IF NOT EXISTS missing_names (
  id          INTEGER PRIMARY KEY,
  run_id      INTEGER NOT NULL REFERENCES build_runs(id),
  name        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_missing_run ON missing_names(run_id);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// RecordBuildRun stores a cache build's counts and missing names for later
// inspection via `realmlog db stats`.
func (d *DB) RecordBuildRun(ctx context.Context, sessionID string, matched, total int, missing []string) (err error) {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO build_runs(session_id, matched, total) VALUES(?,?,?)`,
		sessionID, matched, total)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for _, name := range missing {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO missing_names(run_id, name) VALUES(?,?)`, runID, name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SessionStats holds the latest build-run numbers for one session.
type SessionStats struct {
	SessionID    string
	Matched      int
	Total        int
	MissingCount int
	BuiltAt      time.Time
}

// GetStats returns the most recent build run per session, oldest first.
func (d *DB) GetStats(ctx context.Context) ([]SessionStats, error) {
	rows, err := d.sql.QueryContext(ctx, `
SELECT r.session_id, r.matched, r.total,
       (SELECT COUNT(*) FROM missing_names m WHERE m.run_id = r.id),
       r.built_at
FROM build_runs r
WHERE r.id = (SELECT MAX(id) FROM build_runs WHERE session_id = r.session_id)
ORDER BY r.built_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []SessionStats
	for rows.Next() {
		var s SessionStats
		if err := rows.Scan(&s.SessionID, &s.Matched, &s.Total, &s.MissingCount, &s.BuiltAt); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// ListMissing returns the missing names recorded by the latest build run for
// a session.
func (d *DB) ListMissing(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx, `
SELECT m.name FROM missing_names m
WHERE m.run_id = (SELECT MAX(id) FROM build_runs WHERE session_id = ?)
ORDER BY m.name`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing missing names: %w", err)
	}
	return names, nil
}
