package build

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsetbuild/internal/build/queue"
	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	"git.home.luguber.info/inful/docsetbuild/internal/docset"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetbuild/internal/history"
	"git.home.luguber.info/inful/docsetbuild/internal/incremental"
	"git.home.luguber.info/inful/docsetbuild/internal/logfields"
)

// Request selects what a docset build does.
type Request struct {
	// Files limits the build to these docset-relative paths; empty builds everything.
	Files []string
	// Incremental skips unchanged files (also enabled by build.incremental).
	Incremental bool
	// DryRun builds without writing artifacts (also enabled by output.dry_run).
	DryRun bool
	// OutputDir overrides output.path.
	OutputDir string
}

// buildRun is the state shared by the workers of one docset build.
type buildRun struct {
	id      string
	log     *slog.Logger
	docs    map[string]docset.Document
	planner *incremental.Planner
	writer  *writer
	report  *Report

	mu           sync.Mutex
	fingerprints map[string]string
	reasons      map[string]incremental.Reason
}

// Build builds the docset, or the files named in req, on the configured
// number of workers. A file's failure is recorded in the report and never
// stops the other files. The returned error is reserved for session-level
// problems and cancellation.
func (s *Session) Build(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()
	run := &buildRun{
		id:           uuid.NewString(),
		docs:         make(map[string]docset.Document),
		fingerprints: make(map[string]string),
		reasons:      make(map[string]incremental.Reason),
	}
	run.log = s.logger.With(logfields.BuildID(run.id))
	run.report = newReport(run.id, s.Docset.Name, start)

	var docs []docset.Document
	if len(req.Files) > 0 {
		docs = s.Docset.Select(req.Files)
	} else {
		all, err := s.Docset.Enumerate()
		if err != nil {
			s.Recorder.IncBuildOutcome(string(StatusFailed))
			return nil, err
		}
		docs = all
	}
	for _, doc := range docs {
		run.docs[doc.Path] = doc
	}

	if req.Incremental || s.Config.Build.Incremental {
		if s.History == nil {
			run.log.Warn("Incremental build requested without a history store, building everything")
		} else {
			run.planner = incremental.NewPlanner(s.History, s.Config.Snapshot()).WithLogger(run.log)
		}
	}

	outDir := req.OutputDir
	if outDir == "" {
		outDir = s.Config.Resolve(s.Config.Output.Path)
	}
	dryRun := req.DryRun || s.Config.Output.DryRun
	run.writer = newWriter(outDir, dryRun)
	run.report.DryRun = dryRun

	run.log.Info("Starting docset build",
		slog.Int("files", len(docs)),
		slog.Int("workers", s.Config.Build.Workers),
		slog.Bool("incremental", run.planner != nil),
		slog.Bool("dry_run", dryRun))

	workers := s.Config.Build.Workers
	q := queue.New(workers*2, workers, queue.HandlerFunc(func(ctx context.Context, job *queue.Job) error {
		return s.buildOne(ctx, run, run.docs[job.Path])
	}))
	q.SetLogger(run.log)
	q.Start(ctx)
	for _, doc := range docs {
		if err := q.Submit(ctx, &queue.Job{ID: doc.Path, Path: doc.Path}); err != nil {
			break
		}
	}
	q.Close()
	q.Wait()

	canceled := ctx.Err() != nil
	if run.planner != nil && len(req.Files) == 0 && !canceled {
		present := make(map[string]bool, len(run.docs))
		for p := range run.docs {
			present[p] = true
		}
		removed, err := run.planner.Forget(ctx, present)
		if err != nil {
			run.log.Warn("Failed to prune build history", logfields.Error(err))
		} else if len(removed) > 0 {
			run.log.Debug("Pruned build history", slog.Int("files", len(removed)))
		}
	}

	run.report.Signature = incremental.Signature(s.Config.Snapshot(), run.fingerprints)
	if run.planner != nil {
		delta := incremental.Summarize(run.reasons)
		run.report.Delta = &delta
	}
	run.report.finish(canceled)
	s.Recorder.ObserveBuildDuration(run.report.Duration)
	s.Recorder.IncBuildOutcome(string(run.report.Status))
	s.recordBuild(ctx, run.report)

	level := slog.LevelInfo
	if run.report.Status != StatusSuccess {
		level = slog.LevelWarn
	}
	run.log.Log(ctx, level, "Docset build finished", slog.String("summary", run.report.Summary()))

	if canceled {
		return run.report, ferrors.CanceledError("docset build canceled").WithCause(ctx.Err()).
			WithContext("build_id", run.id).Build()
	}
	return run.report, nil
}

func (s *Session) buildOne(ctx context.Context, run *buildRun, doc docset.Document) error {
	var content []byte
	if doc.ContentType != docset.Redirection {
		data, err := s.Docset.Input.Read(doc.Path)
		if err != nil {
			diag := diagnostics.FileNotFound(diagnostics.Source{File: doc.Path})
			s.Diagnostics.ReplaceFile(doc.Path, []diagnostics.Diagnostic{diag})
			run.report.add(FileReport{
				Path:        doc.Path,
				ContentType: doc.ContentType.String(),
				State:       StateFailed,
				Diagnostics: []diagnostics.Diagnostic{diag},
			}, false)
			return nil
		}
		content = data
	}

	fingerprint := incremental.Fingerprint(content)
	if run.planner != nil {
		decision, err := run.planner.Check(ctx, doc.Path, content)
		run.addReason(doc.Path, decision.Reason)
		switch {
		case err != nil:
			run.log.Warn("Build history lookup failed", logfields.File(doc.Path), logfields.Error(err))
		case decision.Skip:
			s.Diagnostics.ReplaceFile(doc.Path, decision.Diagnostics)
			s.Recorder.IncIncrementalSkip()
			run.addFingerprint(doc.Path, decision.Fingerprint)
			run.report.add(FileReport{
				Path:        doc.Path,
				ContentType: doc.ContentType.String(),
				State:       StateBuilt,
				Skipped:     true,
				Diagnostics: decision.Diagnostics,
			}, false)
			return nil
		}
	}
	run.addFingerprint(doc.Path, fingerprint)

	res, err := s.Dispatcher.BuildDocument(ctx, doc, content, run.id)
	if err != nil {
		return err
	}

	fr := FileReport{
		Path:        res.Path,
		ContentType: res.ContentType.String(),
		State:       res.State,
		Diagnostics: res.Diagnostics,
	}
	// Files with Error diagnostics are never published; preview still sees
	// their artifact through RebuildFile.
	written := false
	if res.Artifact != nil && !diagnostics.HasError(res.Diagnostics) {
		fr.Artifact = res.Artifact.Path
		written, err = run.writer.Write(res.Artifact)
		if err != nil {
			diag := diagnostics.InternalError(diagnostics.Source{File: doc.Path}, err.Error())
			s.Diagnostics.Add(diag)
			fr.Diagnostics = append(fr.Diagnostics, diag)
			fr.State = StateFailed
		}
	}

	if run.planner != nil {
		if err := run.planner.Record(ctx, doc.Path, run.id, fingerprint, fr.State.String(), fr.Diagnostics); err != nil {
			run.log.Warn("Failed to record build history", logfields.File(doc.Path), logfields.Error(err))
		}
	}
	run.report.add(fr, written)
	return nil
}

func (run *buildRun) addReason(p string, r incremental.Reason) {
	run.mu.Lock()
	run.reasons[p] = r
	run.mu.Unlock()
}

func (run *buildRun) addFingerprint(p, fp string) {
	run.mu.Lock()
	run.fingerprints[p] = fp
	run.mu.Unlock()
}

func (s *Session) recordBuild(ctx context.Context, r *Report) {
	if s.History == nil {
		return
	}
	err := s.History.RecordBuild(context.WithoutCancel(ctx), history.BuildRecord{
		ID:         r.BuildID,
		Docset:     r.Docset,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Outcome:    string(r.Status),
		Files:      len(r.Files),
		Skipped:    r.Skipped,
		Errors:     r.Counts[diagnostics.LevelError.String()],
		Warnings:   r.Counts[diagnostics.LevelWarning.String()],
	})
	if err != nil {
		s.logger.Warn("Failed to record build", logfields.BuildID(r.BuildID), logfields.Error(err))
	}
}
