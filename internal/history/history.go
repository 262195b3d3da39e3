// Package history persists per-file build outcomes between runs.
package history

import (
	"context"
	"time"

	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
)

// FileRecord is the last build outcome of one file.
type FileRecord struct {
	Path           string
	BuildID        string
	Fingerprint    string
	ConfigSnapshot string
	State          string
	Diagnostics    []diagnostics.Diagnostic
	UpdatedAt      time.Time
}

// BuildRecord summarizes one docset build.
type BuildRecord struct {
	ID         string
	Docset     string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    string
	Files      int
	Skipped    int
	Errors     int
	Warnings   int
}

// Store persists build history.
type Store interface {
	PutFile(ctx context.Context, rec FileRecord) error
	GetFile(ctx context.Context, path string) (FileRecord, bool, error)
	DeleteFile(ctx context.Context, path string) error
	Files(ctx context.Context) ([]FileRecord, error)
	RecordBuild(ctx context.Context, rec BuildRecord) error
	Builds(ctx context.Context, limit int) ([]BuildRecord, error)
	Close() error
}
