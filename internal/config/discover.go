package config

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

// skippedDirs never hold docsets worth building.
var skippedDirs = []string{"node_modules", "_site"}

// FindDocsets returns the config files of every docset under root, sorted.
// Hidden directories and build output are not searched.
func FindDocsets(root string) ([]string, error) {
	var found []string
	err := doublestar.GlobWalk(os.DirFS(root), "**/"+DefaultFileName, func(p string, d fs.DirEntry) error {
		if d.IsDir() || skipped(path.Dir(p)) {
			return nil
		}
		found = append(found, filepath.Join(root, filepath.FromSlash(p)))
		return nil
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "search for docsets").
			WithContext("root", root).Build()
	}
	if len(found) == 0 {
		return nil, ferrors.NotFoundError("no docset configuration found").
			WithContext("root", root).WithContext("file", DefaultFileName).Build()
	}
	slices.Sort(found)
	return found, nil
}

// LoadDocsets finds and loads every docset under root.
func LoadDocsets(root string) ([]*Config, error) {
	paths, err := FindDocsets(root)
	if err != nil {
		return nil, err
	}
	cfgs := make([]*Config, 0, len(paths))
	for _, p := range paths {
		cfg, err := Load(p)
		if err != nil {
			return nil, err
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs, nil
}

func skipped(dir string) bool {
	if dir == "." {
		return false
	}
	for _, seg := range strings.Split(dir, "/") {
		if strings.HasPrefix(seg, ".") || slices.Contains(skippedDirs, seg) {
			return true
		}
	}
	return false
}
