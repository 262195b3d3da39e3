package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsetbuild/internal/config"
	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	"git.home.luguber.info/inful/docsetbuild/internal/docset"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetbuild/internal/logfields"
	"git.home.luguber.info/inful/docsetbuild/internal/markdown"
	"git.home.luguber.info/inful/docsetbuild/internal/metrics"
	"git.home.luguber.info/inful/docsetbuild/internal/moniker"
	"git.home.luguber.info/inful/docsetbuild/internal/notify"
	"git.home.luguber.info/inful/docsetbuild/internal/schema"
	"git.home.luguber.info/inful/docsetbuild/internal/templates"
)

// ErrSuperseded is wrapped by the error of a rebuild that a newer rebuild of
// the same path replaced before it could complete.
var ErrSuperseded = errors.New("superseded by a newer rebuild")

// Deps are the collaborators of a Dispatcher. Docset and Monikers are
// required; everything else has a working default.
type Deps struct {
	Docset      *docset.Docset
	Monikers    *moniker.Provider
	Markdown    MarkdownEngine
	Schemas     SchemaProvider
	Templates   TemplateRunner
	Diagnostics *diagnostics.Store
	Recorder    metrics.Recorder
	Notifier    notify.Notifier
	Logger      *slog.Logger
	OutputType  config.OutputType
}

// entry serializes builds of one path. sem is held for the whole build; gen
// identifies the newest request so older waiters can step aside.
type entry struct {
	sem chan struct{}
	gen atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	state  FileState
}

func (e *entry) setState(s FileState) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// Dispatcher rebuilds individual files. Builds of the same path run one at a
// time and a newer request supersedes older ones; builds of different paths
// share nothing but the diagnostic store and the read-mostly moniker caches.
type Dispatcher struct {
	deps Deps

	mu      sync.Mutex
	entries map[string]*entry
}

// NewDispatcher creates a dispatcher, filling in default collaborators.
func NewDispatcher(deps Deps) *Dispatcher {
	if deps.Docset == nil || deps.Monikers == nil {
		panic("build.NewDispatcher: docset and moniker provider are required")
	}
	if deps.Markdown == nil {
		deps.Markdown = markdown.Default()
	}
	if deps.Schemas == nil {
		deps.Schemas = schema.NewRegistry()
	}
	if deps.Templates == nil {
		deps.Templates = templates.New("")
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = diagnostics.NewStore()
	}
	if deps.Recorder == nil {
		deps.Recorder = metrics.NoopRecorder{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Noop{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.OutputType == "" {
		deps.OutputType = config.OutputHTML
	}
	return &Dispatcher{deps: deps, entries: make(map[string]*entry)}
}

// Diagnostics returns the per-file diagnostic store.
func (d *Dispatcher) Diagnostics() *diagnostics.Store { return d.deps.Diagnostics }

// State returns the build state of path.
func (d *Dispatcher) State(path string) FileState {
	d.mu.Lock()
	e, ok := d.entries[config.NormalizePath(path)]
	d.mu.Unlock()
	if !ok {
		return StateUnbuilt
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (d *Dispatcher) entry(path string) *entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.entries[path]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		d.entries[path] = e
	}
	return e
}

// RebuildFile registers content as the authoritative source of path for the
// rest of the session and rebuilds it. The returned diagnostics belong to
// this call only.
//
// A call that a newer call for the same path supersedes returns an error
// wrapping ErrSuperseded and leaves no trace in the diagnostic store.
func (d *Dispatcher) RebuildFile(ctx context.Context, path string, content []byte) (*Result, error) {
	p := config.NormalizePath(path)
	return d.dispatch(ctx, p, content, true, uuid.NewString())
}

// BuildDocument builds doc from content without registering it as an
// in-memory buffer. Used by whole-docset builds.
func (d *Dispatcher) BuildDocument(ctx context.Context, doc docset.Document, content []byte, buildID string) (*Result, error) {
	return d.dispatch(ctx, doc.Path, content, false, buildID)
}

func (d *Dispatcher) dispatch(ctx context.Context, p string, content []byte, register bool, buildID string) (*Result, error) {
	e := d.entry(p)
	gen := e.gen.Add(1)

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.mu.Unlock()
	defer cancel()

	select {
	case e.sem <- struct{}{}:
	case <-runCtx.Done():
		return nil, d.abandoned(ctx, p, gen, e)
	}
	defer func() { <-e.sem }()

	if e.gen.Load() != gen {
		return nil, d.superseded(p, gen)
	}

	if register {
		d.deps.Docset.Input.Register(p, content)
	}
	doc := d.deps.Docset.Document(p)
	return d.run(runCtx, ctx, e, gen, doc, content, buildID)
}

func (d *Dispatcher) run(runCtx, callerCtx context.Context, e *entry, gen uint64, doc docset.Document, content []byte, buildID string) (*Result, error) {
	start := time.Now()
	log := d.deps.Logger.With(logfields.File(doc.Path), logfields.BuildID(buildID))

	e.setState(StateBuilding)
	d.deps.Diagnostics.ClearFile(doc.Path)

	var sink diagnostics.SliceSink
	art, monikers, err := d.execute(runCtx, log, doc, content, &sink)
	if err != nil || e.gen.Load() != gen {
		// Nothing from this pass is committed.
		e.setState(StateUnbuilt)
		return nil, d.abandoned(callerCtx, doc.Path, gen, e)
	}

	state := StateBuilt
	if diagnostics.HasError(sink) {
		state = StateFailed
	}
	d.deps.Diagnostics.ReplaceFile(doc.Path, sink)
	e.setState(state)

	res := &Result{
		Path:        doc.Path,
		ContentType: doc.ContentType,
		State:       state,
		Monikers:    monikers,
		Diagnostics: append([]diagnostics.Diagnostic{}, sink...),
		Artifact:    art,
		Generation:  gen,
		BuildID:     buildID,
		Duration:    time.Since(start),
	}
	d.observe(res)
	log.Debug("File built",
		logfields.ContentType(doc.ContentType.String()),
		logfields.State(state.String()),
		logfields.Diagnostics(len(sink)),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))

	d.publish(callerCtx, log, res)
	return res, nil
}

// execute runs the content-type specific step. Step failures and panics
// become internal-error diagnostics; only cancellation is returned.
func (d *Dispatcher) execute(ctx context.Context, log *slog.Logger, doc docset.Document, content []byte, sink *diagnostics.SliceSink) (art *Artifact, monikers []string, err error) {
	fc := &fileContext{doc: doc, content: content, sink: sink, monikers: []string{}}

	defer func() {
		if r := recover(); r != nil {
			log.Error("Build step panicked", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
			sink.Add(diagnostics.InternalError(diagnostics.Source{File: doc.Path}, fmt.Sprint(r)))
			art, monikers, err = nil, fc.monikers, nil
		}
	}()

	var step func(context.Context, *fileContext) error
	switch doc.ContentType {
	case docset.TableOfContents:
		step = d.buildTOC
	case docset.Resource:
		step = d.buildResource
	case docset.Redirection:
		step = d.buildRedirection
	default:
		if doc.Format == docset.Markdown {
			step = d.buildMarkdownPage
		} else {
			step = d.buildStructuredPage
		}
	}

	if stepErr := step(ctx, fc); stepErr != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		log.Warn("Build step failed", logfields.Error(stepErr))
		sink.Add(diagnostics.InternalError(diagnostics.Source{File: doc.Path}, stepErr.Error()))
		return nil, fc.monikers, nil
	}
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}
	return fc.artifact, fc.monikers, nil
}

func (d *Dispatcher) abandoned(callerCtx context.Context, p string, gen uint64, e *entry) error {
	if e.gen.Load() != gen {
		return d.superseded(p, gen)
	}
	if err := callerCtx.Err(); err != nil {
		return ferrors.CanceledError("rebuild canceled").WithCause(err).WithContext("file", p).Build()
	}
	return ferrors.InternalError("rebuild abandoned").WithContext("file", p).Build()
}

func (d *Dispatcher) superseded(p string, gen uint64) error {
	d.deps.Recorder.IncSuperseded()
	d.deps.Logger.Debug("Rebuild superseded", logfields.File(p), slog.Uint64("generation", gen))
	return ferrors.CanceledError("rebuild superseded").
		WithCause(ErrSuperseded).
		WithContext("file", p).
		WithContext("generation", gen).
		Build()
}

func (d *Dispatcher) observe(res *Result) {
	ct := res.ContentType.String()
	d.deps.Recorder.ObserveFileBuild(ct, res.Duration)
	d.deps.Recorder.IncFileResult(ct, res.State.String())
	counts := make(map[diagnostics.Level]int)
	for _, diag := range res.Diagnostics {
		counts[diag.Level]++
	}
	for level, n := range counts {
		d.deps.Recorder.IncDiagnostics(level.String(), n)
	}
}

func (d *Dispatcher) publish(ctx context.Context, log *slog.Logger, res *Result) {
	ev := notify.Event{
		Docset:      d.deps.Docset.Name,
		File:        res.Path,
		BuildID:     res.BuildID,
		State:       res.State.String(),
		Generation:  res.Generation,
		ContentType: res.ContentType.String(),
	}
	for _, diag := range res.Diagnostics {
		switch diag.Level {
		case diagnostics.LevelError:
			ev.Errors++
		case diagnostics.LevelWarning:
			ev.Warnings++
		}
	}
	if res.Artifact != nil {
		ev.Artifact = res.Artifact.Path
	}
	if err := d.deps.Notifier.Notify(ctx, ev); err != nil {
		log.Warn("Failed to publish rebuild event", logfields.Error(err))
	}
}
