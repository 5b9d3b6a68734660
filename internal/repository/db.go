package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

type Config struct {
	Path        string
	BusyTimeout time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS scan_files (
	id            TEXT PRIMARY KEY,
	source_path   TEXT NOT NULL,
	filename      TEXT NOT NULL,
	file_ext      TEXT NOT NULL,
	file_size     INTEGER NOT NULL,
	content_hash  BLOB NOT NULL,
	uploaded_at   TIMESTAMP NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_scan_files_hash ON scan_files(content_hash);

CREATE TABLE IF NOT EXISTS scan_jobs (
	id             TEXT PRIMARY KEY,
	file_id        TEXT NOT NULL REFERENCES scan_files(id),
	status         TEXT NOT NULL,
	started_at     TIMESTAMP NOT NULL,
	finished_at    TIMESTAMP,
	error_message  TEXT,
	ocr_text       TEXT,
	ocr_confidence REAL,
	record_count   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_scan_jobs_file ON scan_jobs(file_id);

CREATE TABLE IF NOT EXISTS form_records (
	id          TEXT PRIMARY KEY,
	job_id      TEXT NOT NULL REFERENCES scan_jobs(id),
	form_no     TEXT NOT NULL,
	record_no   TEXT NOT NULL,
	fields_json TEXT NOT NULL,
	raw_text    TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_form_records_job ON form_records(job_id);
CREATE INDEX IF NOT EXISTS idx_form_records_record_no ON form_records(record_no);
`

// Open opens (or creates) the sqlite store and applies the schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opening database", "path", cfg.Path)

	dsn := cfg.Path
	if cfg.BusyTimeout > 0 {
		dsn = fmt.Sprintf("%s?_pragma=busy_timeout(%d)", cfg.Path, cfg.BusyTimeout.Milliseconds())
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, err
	}
	// modernc sqlite is not safe for concurrent writers on one connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Error("failed to apply schema", "error", err)
		_ = db.Close()
		return nil, err
	}

	logger.Info("database ready")
	return db, nil
}

// Close closes the database gracefully.
func Close(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
		return
	}
	logger.Info("database closed")
}
