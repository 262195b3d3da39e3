package build

import (
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

// writer persists artifacts under the output directory.
type writer struct {
	root   string
	dryRun bool
}

func newWriter(root string, dryRun bool) *writer {
	return &writer{root: root, dryRun: dryRun}
}

// Write stores a; it reports whether a file was written.
func (w *writer) Write(a *Artifact) (bool, error) {
	if a == nil || w.dryRun {
		return false, nil
	}
	target := filepath.Join(w.root, filepath.FromSlash(a.Path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "create output directory").
			WithContext("path", target).Build()
	}
	if err := os.WriteFile(target, a.Data, 0o644); err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "write artifact").
			WithContext("path", target).Build()
	}
	return true, nil
}
