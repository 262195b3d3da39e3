package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (and creates) the history database.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "create history directory").
				WithContext("path", dbPath).Build()
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "open history database").
			WithContext("path", dbPath).Build()
	}
	// Every pooled connection to ":memory:" would otherwise see its own empty database.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "initialize history schema").Build()
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		path TEXT PRIMARY KEY,
		build_id TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		config_snapshot TEXT NOT NULL,
		state TEXT NOT NULL,
		diagnostics BLOB,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		docset TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		files INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		warnings INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// PutFile inserts or replaces the record for rec.Path.
func (s *SQLiteStore) PutFile(ctx context.Context, rec FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	diags, err := json.Marshal(rec.Diagnostics)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryStorage, "marshal diagnostics").Build()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO files (path, build_id, fingerprint, config_snapshot, state, diagnostics, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			build_id = excluded.build_id,
			fingerprint = excluded.fingerprint,
			config_snapshot = excluded.config_snapshot,
			state = excluded.state,
			diagnostics = excluded.diagnostics,
			updated_at = excluded.updated_at`,
		rec.Path, rec.BuildID, rec.Fingerprint, rec.ConfigSnapshot, rec.State, diags, rec.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryStorage, "upsert file record").WithContext("path", rec.Path).Build()
	}
	return nil
}

// GetFile returns the record for path; ok is false when none exists.
func (s *SQLiteStore) GetFile(ctx context.Context, path string) (FileRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT path, build_id, fingerprint, config_snapshot, state, diagnostics, updated_at FROM files WHERE path = ?", path)
	rec, err := scanFile(row)
	if err == sql.ErrNoRows {
		return FileRecord{}, false, nil
	}
	if err != nil {
		return FileRecord{}, false, ferrors.WrapError(err, ferrors.CategoryStorage, "query file record").
			WithContext("path", path).Build()
	}
	return rec, true, nil
}

// DeleteFile forgets path.
func (s *SQLiteStore) DeleteFile(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, "DELETE FROM files WHERE path = ?", path); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryStorage, "delete file record").WithContext("path", path).Build()
	}
	return nil
}

// Files returns every file record ordered by path.
func (s *SQLiteStore) Files(ctx context.Context) ([]FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT path, build_id, fingerprint, config_snapshot, state, diagnostics, updated_at FROM files ORDER BY path")
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "query file records").Build()
	}
	defer rows.Close()

	var out []FileRecord
	for rows.Next() {
		rec, err := scanFile(rows)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "scan file record").Build()
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "iterate file records").Build()
	}
	return out, nil
}

// RecordBuild stores a build summary.
func (s *SQLiteStore) RecordBuild(ctx context.Context, rec BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO builds (id, docset, started_at, finished_at, outcome, files, skipped, errors, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Docset, rec.StartedAt.UnixNano(), rec.FinishedAt.UnixNano(), rec.Outcome,
		rec.Files, rec.Skipped, rec.Errors, rec.Warnings,
	)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryStorage, "insert build record").WithContext("build_id", rec.ID).Build()
	}
	return nil
}

// Builds returns the most recent builds first; limit <= 0 returns all.
func (s *SQLiteStore) Builds(ctx context.Context, limit int) ([]BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, docset, started_at, finished_at, outcome, files, skipped, errors, warnings
		FROM builds ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "query builds").Build()
	}
	defer rows.Close()

	var out []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var started, finished int64
		if err := rows.Scan(&rec.ID, &rec.Docset, &started, &finished, &rec.Outcome,
			&rec.Files, &rec.Skipped, &rec.Errors, &rec.Warnings); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "scan build").Build()
		}
		rec.StartedAt = time.Unix(0, started)
		rec.FinishedAt = time.Unix(0, finished)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryStorage, "iterate builds").Build()
	}
	return out, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (FileRecord, error) {
	var rec FileRecord
	var diags []byte
	var updated int64
	if err := row.Scan(&rec.Path, &rec.BuildID, &rec.Fingerprint, &rec.ConfigSnapshot, &rec.State, &diags, &updated); err != nil {
		return FileRecord{}, err
	}
	rec.UpdatedAt = time.Unix(0, updated)
	if len(diags) > 0 {
		var ds []diagnostics.Diagnostic
		if err := json.Unmarshal(diags, &ds); err != nil {
			return FileRecord{}, err
		}
		rec.Diagnostics = ds
	}
	return rec, nil
}
