package incremental

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	"git.home.luguber.info/inful/docsetbuild/internal/history"
	"git.home.luguber.info/inful/docsetbuild/internal/logfields"
)

// StateBuilt is the history state of a file whose last build succeeded.
const StateBuilt = "Built"

// Reason explains a planner decision.
type Reason string

const (
	ReasonUnavailable      Reason = "history_unavailable" // history lookup failed
	ReasonNew              Reason = "new_file"
	ReasonConfigChanged    Reason = "config_changed" // snapshot differs from the recorded one
	ReasonContentChanged   Reason = "content_changed"
	ReasonPreviouslyFailed Reason = "previously_failed"
	ReasonUnchanged        Reason = "unchanged"
)

// Decision is the planner's verdict for one file.
type Decision struct {
	Skip        bool
	Fingerprint string
	// Diagnostics replays what the skipped build reported last time.
	Diagnostics []diagnostics.Diagnostic
	Reason      Reason
}

// Planner compares files against the build history.
type Planner struct {
	store    history.Store
	snapshot string
	logger   *slog.Logger
}

// NewPlanner creates a planner for a configuration snapshot.
func NewPlanner(store history.Store, configSnapshot string) *Planner {
	return &Planner{store: store, snapshot: configSnapshot, logger: slog.Default()}
}

// WithLogger sets a custom logger.
func (p *Planner) WithLogger(logger *slog.Logger) *Planner {
	p.logger = logger
	return p
}

// Check decides whether path can be skipped. A file is skipped only when
// its fingerprint and the configuration snapshot both match a previous
// successful build.
func (p *Planner) Check(ctx context.Context, path string, content []byte) (Decision, error) {
	fp := Fingerprint(content)
	rec, ok, err := p.store.GetFile(ctx, path)
	if err != nil {
		return Decision{Fingerprint: fp, Reason: ReasonUnavailable}, err
	}
	switch {
	case !ok:
		return Decision{Fingerprint: fp, Reason: ReasonNew}, nil
	case rec.ConfigSnapshot != p.snapshot:
		return Decision{Fingerprint: fp, Reason: ReasonConfigChanged}, nil
	case rec.Fingerprint != fp:
		return Decision{Fingerprint: fp, Reason: ReasonContentChanged}, nil
	case rec.State != StateBuilt:
		return Decision{Fingerprint: fp, Reason: ReasonPreviouslyFailed}, nil
	}
	p.logger.Debug("Skipping unchanged file", logfields.File(path))
	return Decision{Skip: true, Fingerprint: fp, Diagnostics: rec.Diagnostics, Reason: ReasonUnchanged}, nil
}

// Record stores the outcome of building path.
func (p *Planner) Record(ctx context.Context, path, buildID, fingerprint, state string, diags []diagnostics.Diagnostic) error {
	return p.store.PutFile(ctx, history.FileRecord{
		Path:           path,
		BuildID:        buildID,
		Fingerprint:    fingerprint,
		ConfigSnapshot: p.snapshot,
		State:          state,
		Diagnostics:    diags,
	})
}

// Forget drops paths that are no longer part of the docset.
func (p *Planner) Forget(ctx context.Context, present map[string]bool) ([]string, error) {
	recs, err := p.store.Files(ctx)
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, rec := range recs {
		if present[rec.Path] {
			continue
		}
		if err := p.store.DeleteFile(ctx, rec.Path); err != nil {
			return removed, err
		}
		removed = append(removed, rec.Path)
	}
	return removed, nil
}
