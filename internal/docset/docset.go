package docset

import (
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docsetbuild/internal/config"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetbuild/internal/glob"
	"git.home.luguber.info/inful/docsetbuild/internal/logfields"
)

// Docset is the configured file set of one build session.
type Docset struct {
	Name       string
	Input      *Input
	Classifier *Classifier

	include []glob.Matcher
	exclude []glob.Matcher
	logger  *slog.Logger
}

// New compiles the include/exclude globs of cfg against root.
func New(cfg *config.Config, root string) (*Docset, error) {
	ds := &Docset{
		Name:       cfg.Name,
		Input:      NewInput(root),
		Classifier: NewClassifier(cfg.Redirections),
		logger:     slog.Default(),
	}
	for _, p := range cfg.Files {
		m, err := glob.Compile(p)
		if err != nil {
			return nil, err
		}
		ds.include = append(ds.include, m)
	}
	for _, p := range cfg.Exclude {
		m, err := glob.Compile(p)
		if err != nil {
			return nil, err
		}
		ds.exclude = append(ds.exclude, m)
	}
	return ds, nil
}

// WithLogger sets a custom logger.
func (ds *Docset) WithLogger(logger *slog.Logger) *Docset {
	if logger != nil {
		ds.logger = logger
	}
	return ds
}

// Contains reports whether p belongs to the docset by its globs.
func (ds *Docset) Contains(p string) bool {
	if hidden(p) || path.Base(p) == config.DefaultFileName {
		return false
	}
	for _, m := range ds.exclude {
		if m(p) {
			return false
		}
	}
	for _, m := range ds.include {
		if m(p) {
			return true
		}
	}
	return false
}

// Document classifies p.
func (ds *Docset) Document(p string) Document {
	return ds.Classifier.Classify(p)
}

// Enumerate lists every document in the docset, including in-memory buffers
// with no file on disk, sorted by path. Directories holding their own
// docset config belong to that docset and are skipped.
func (ds *Docset) Enumerate() ([]Document, error) {
	seen := make(map[string]bool)
	var docs []Document

	err := ds.Input.walk(func(rel string, d fs.DirEntry) error {
		if d.IsDir() {
			if hidden(rel) || ds.Input.nestedDocset(rel) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !ds.Contains(rel) {
			return nil
		}
		seen[rel] = true
		docs = append(docs, ds.Document(rel))
		return nil
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "enumerate docset").
			WithContext("root", ds.Input.Root()).Build()
	}

	for _, p := range ds.Input.overlayPaths() {
		if !seen[p] && ds.Contains(p) {
			docs = append(docs, ds.Document(p))
		}
	}
	// Redirection sources usually have no file behind them.
	for src := range ds.Classifier.redirections {
		if !seen[src] && !ds.Input.InMemory(src) {
			docs = append(docs, ds.Document(src))
		}
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	ds.logger.Debug("Enumerated docset", logfields.Docset(ds.Name), slog.Int("files", len(docs)))
	return docs, nil
}

// Select resolves an explicit file list, keeping only docset members.
func (ds *Docset) Select(paths []string) []Document {
	docs := make([]Document, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, raw := range paths {
		p := config.NormalizePath(raw)
		if seen[p] {
			continue
		}
		seen[p] = true
		if _, redirect := ds.Classifier.RedirectTarget(p); !redirect && !ds.Contains(p) {
			ds.logger.Warn("Skipping file outside docset", logfields.Path(p))
			continue
		}
		docs = append(docs, ds.Document(p))
	}
	return docs
}

func hidden(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}
