package build

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	"git.home.luguber.info/inful/docsetbuild/internal/incremental"
)

// FileReport is the outcome of one file in a docset build.
type FileReport struct {
	Path        string                   `json:"path"`
	ContentType string                   `json:"content_type"`
	State       FileState                `json:"state"`
	Skipped     bool                     `json:"skipped,omitempty"`
	Artifact    string                   `json:"artifact,omitempty"`
	Diagnostics []diagnostics.Diagnostic `json:"diagnostics,omitempty"`
}

// Report summarizes a docset build.
type Report struct {
	BuildID    string         `json:"build_id"`
	Docset     string         `json:"docset"`
	Status     Status         `json:"status"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Duration   time.Duration  `json:"duration"`
	Signature  string         `json:"signature,omitempty"`
	DryRun     bool           `json:"dry_run,omitempty"`
	Files      []FileReport   `json:"files"`
	Counts     map[string]int `json:"counts"`
	Skipped    int            `json:"skipped"`
	Written    int            `json:"written"`
	// Delta is set for incremental builds.
	Delta *incremental.Delta `json:"delta,omitempty"`

	mu sync.Mutex
}

func newReport(buildID, docsetName string, start time.Time) *Report {
	return &Report{
		BuildID:   buildID,
		Docset:    docsetName,
		StartedAt: start,
		Files:     []FileReport{},
		Counts:    make(map[string]int),
	}
}

func (r *Report) add(fr FileReport, written bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Files = append(r.Files, fr)
	if fr.Skipped {
		r.Skipped++
	}
	if written {
		r.Written++
	}
	for _, d := range fr.Diagnostics {
		r.Counts[d.Level.String()]++
	}
}

func (r *Report) finish(canceled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sort.Slice(r.Files, func(i, j int) bool { return r.Files[i].Path < r.Files[j].Path })
	r.FinishedAt = time.Now()
	r.Duration = r.FinishedAt.Sub(r.StartedAt)
	switch {
	case canceled:
		r.Status = StatusCanceled
	case r.Counts[diagnostics.LevelError.String()] > 0:
		r.Status = StatusFailed
	default:
		r.Status = StatusSuccess
	}
}

// File returns the report of path.
func (r *Report) File(path string) (FileReport, bool) {
	for _, f := range r.Files {
		if f.Path == path {
			return f, true
		}
	}
	return FileReport{}, false
}

// Failed lists the files that ended in StateFailed.
func (r *Report) Failed() []string {
	var out []string
	for _, f := range r.Files {
		if f.State == StateFailed {
			out = append(out, f.Path)
		}
	}
	return out
}

// Summary is a one-line human description.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s: %d files (%d skipped, %d written), %d errors, %d warnings in %s",
		r.Status, len(r.Files), r.Skipped, r.Written,
		r.Counts[diagnostics.LevelError.String()], r.Counts[diagnostics.LevelWarning.String()],
		r.Duration.Round(time.Millisecond))
}
