package docset

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"git.home.luguber.info/inful/docsetbuild/internal/config"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

// Input reads docset content. Buffers registered in memory supersede the
// file on disk for the rest of the session. Safe for concurrent use.
type Input struct {
	root string

	mu      sync.RWMutex
	overlay map[string][]byte
}

// NewInput creates an Input rooted at dir.
func NewInput(root string) *Input {
	return &Input{root: root, overlay: make(map[string][]byte)}
}

// Root returns the docset directory.
func (in *Input) Root() string { return in.root }

// Register makes content authoritative for p. The slice is copied.
func (in *Input) Register(p string, content []byte) {
	cp := append([]byte(nil), content...)
	in.mu.Lock()
	in.overlay[p] = cp
	in.mu.Unlock()
}

// Unregister drops the in-memory buffer for p, falling back to disk.
func (in *Input) Unregister(p string) {
	in.mu.Lock()
	delete(in.overlay, p)
	in.mu.Unlock()
}

// InMemory reports whether p is served from a registered buffer.
func (in *Input) InMemory(p string) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	_, ok := in.overlay[p]
	return ok
}

// Read returns the content of p, preferring a registered buffer.
func (in *Input) Read(p string) ([]byte, error) {
	in.mu.RLock()
	buf, ok := in.overlay[p]
	in.mu.RUnlock()
	if ok {
		return append([]byte(nil), buf...), nil
	}
	data, err := os.ReadFile(in.FullPath(p))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.NotFoundError("file not found").WithCause(err).WithContext("path", p).Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read file").WithContext("path", p).Build()
	}
	return data, nil
}

// Exists reports whether p is registered or present on disk.
func (in *Input) Exists(p string) bool {
	if in.InMemory(p) {
		return true
	}
	info, err := os.Stat(in.FullPath(p))
	return err == nil && !info.IsDir()
}

// FullPath maps a docset path to a filesystem path.
func (in *Input) FullPath(p string) string {
	return filepath.Join(in.root, filepath.FromSlash(p))
}

// overlayPaths returns registered paths, sorted.
func (in *Input) overlayPaths() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]string, 0, len(in.overlay))
	for p := range in.overlay {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// walk visits every regular file under root, passing docset-relative slash paths.
// nestedDocset reports whether dir holds another docset's config file.
func (in *Input) nestedDocset(dir string) bool {
	_, err := os.Stat(filepath.Join(in.root, filepath.FromSlash(dir), config.DefaultFileName))
	return err == nil
}

func (in *Input) walk(visit func(rel string, d fs.DirEntry) error) error {
	return filepath.WalkDir(in.root, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, rerr := filepath.Rel(in.root, full)
		if rerr != nil {
			return rerr
		}
		if rel == "." {
			return nil
		}
		return visit(filepath.ToSlash(rel), d)
	})
}
