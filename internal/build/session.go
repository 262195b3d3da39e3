package build

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docsetbuild/internal/config"
	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	"git.home.luguber.info/inful/docsetbuild/internal/docset"
	"git.home.luguber.info/inful/docsetbuild/internal/history"
	"git.home.luguber.info/inful/docsetbuild/internal/logfields"
	"git.home.luguber.info/inful/docsetbuild/internal/markdown"
	"git.home.luguber.info/inful/docsetbuild/internal/metrics"
	"git.home.luguber.info/inful/docsetbuild/internal/moniker"
	"git.home.luguber.info/inful/docsetbuild/internal/notify"
	"git.home.luguber.info/inful/docsetbuild/internal/schema"
	"git.home.luguber.info/inful/docsetbuild/internal/templates"
)

// Session owns everything one docset build needs: the loaded moniker
// universe, the compiled rules, the collaborators and the diagnostic store.
type Session struct {
	Config      *config.Config
	Docset      *docset.Docset
	Monikers    *moniker.Provider
	Dispatcher  *Dispatcher
	Diagnostics *diagnostics.Store
	// History is nil unless incremental builds are configured.
	History  history.Store
	Recorder metrics.Recorder
	Notifier notify.Notifier

	prom   *metrics.PrometheusRecorder
	logger *slog.Logger
}

type sessionOptions struct {
	logger   *slog.Logger
	root     string
	history  history.Store
	notifier notify.Notifier
	recorder metrics.Recorder
	markdown MarkdownEngine
}

// Option customizes Open.
type Option func(*sessionOptions)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option { return func(o *sessionOptions) { o.logger = l } }

// WithRoot overrides the docset root (defaults to the config directory).
func WithRoot(dir string) Option { return func(o *sessionOptions) { o.root = dir } }

// WithHistory injects a history store instead of opening the configured one.
func WithHistory(s history.Store) Option { return func(o *sessionOptions) { o.history = s } }

// WithNotifier injects a notifier instead of connecting to the configured one.
func WithNotifier(n notify.Notifier) Option { return func(o *sessionOptions) { o.notifier = n } }

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(o *sessionOptions) { o.recorder = r } }

// WithMarkdownEngine replaces the markdown engine.
func WithMarkdownEngine(m MarkdownEngine) Option { return func(o *sessionOptions) { o.markdown = m } }

// Open prepares a build session. Configuration problems (bad globs, invalid
// configured ranges, unreadable moniker definitions or schemas) abort here.
func Open(cfg *config.Config, opts ...Option) (*Session, error) {
	o := sessionOptions{logger: slog.Default(), root: cfg.BaseDir()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger.With(logfields.Docset(cfg.Name))

	s := &Session{Config: cfg, Diagnostics: diagnostics.NewStore(), logger: log}

	s.Recorder = o.recorder
	if s.Recorder == nil {
		if cfg.Metrics.Enabled {
			s.prom = metrics.NewPrometheusRecorder(prometheus.NewRegistry())
			s.Recorder = s.prom
		} else {
			s.Recorder = metrics.NoopRecorder{}
		}
	}

	def, err := cfg.LoadMonikerDefinition()
	if err != nil {
		return nil, err
	}
	parser := moniker.NewRangeParser(def).WithObserver(s.Recorder)
	s.Monikers, err = moniker.NewProvider(parser, cfg.RuleSpecs())
	if err != nil {
		return nil, err
	}
	s.Monikers.WithLogger(log)

	s.Docset, err = docset.New(cfg, o.root)
	if err != nil {
		return nil, err
	}
	s.Docset.WithLogger(log)

	schemas := schema.NewRegistry()
	if cfg.Schemas != "" {
		if err := schemas.LoadDir(cfg.Resolve(cfg.Schemas)); err != nil {
			return nil, err
		}
	}

	s.History = o.history
	if s.History == nil && cfg.Build.Incremental && cfg.Build.HistoryDB != "" {
		store, err := history.NewSQLiteStore(cfg.Resolve(cfg.Build.HistoryDB))
		if err != nil {
			return nil, err
		}
		s.History = store
	}

	s.Notifier = o.notifier
	if s.Notifier == nil {
		n, err := notify.New(cfg.Notify)
		if err != nil {
			// Notifications are best effort; the build does not depend on them.
			log.Warn("Rebuild notifications disabled", logfields.Error(err))
			n = notify.Noop{}
		}
		s.Notifier = n
	}

	engine := o.markdown
	if engine == nil {
		engine = markdown.Default()
	}
	s.Dispatcher = NewDispatcher(Deps{
		Docset:      s.Docset,
		Monikers:    s.Monikers,
		Markdown:    engine,
		Schemas:     schemas,
		Templates:   templates.New(cfg.Resolve(cfg.Templates)),
		Diagnostics: s.Diagnostics,
		Recorder:    s.Recorder,
		Notifier:    s.Notifier,
		Logger:      log,
		OutputType:  cfg.Output.Type,
	})

	log.Debug("Build session ready",
		slog.Int("monikers", def.Len()),
		slog.Int("rules", len(s.Monikers.Rules())),
		slog.Int("schemas", len(schemas.Mimes())))
	return s, nil
}

// Close flushes metrics and releases the history store and notifier.
func (s *Session) Close() error {
	var errs []error
	if s.prom != nil && s.Config.Metrics.Path != "" {
		if err := s.prom.WriteTextfile(s.Config.Resolve(s.Config.Metrics.Path)); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Notifier != nil {
		if err := s.Notifier.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.History != nil {
		if err := s.History.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
