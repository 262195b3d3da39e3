package build

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docsetbuild/internal/config"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetbuild/internal/logfields"
)

// BuildAll builds independent docsets concurrently, at most parallel at a
// time, each in its own session. A docset that fails to open or build does
// not stop the others; their errors are joined. Reports come back in cfgs
// order, with nil for docsets that never produced one.
//
// req.Files is ignored since file paths are docset-relative. A req.OutputDir
// gets one subdirectory per docset name.
func BuildAll(ctx context.Context, cfgs []*config.Config, req Request, parallel int, opts ...Option) ([]*Report, error) {
	if parallel < 1 {
		parallel = 1
	}
	reports := make([]*Report, len(cfgs))

	var (
		mu   sync.Mutex
		errs []error
	)
	fail := func(cfg *config.Config, err error) {
		mu.Lock()
		errs = append(errs, ferrors.WrapError(err, ferrors.GetCategory(err), "docset build failed").
			WithContext("docset", cfg.Name).Build())
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, cfg := range cfgs {
		r := req
		r.Files = nil
		if req.OutputDir != "" && len(cfgs) > 1 {
			r.OutputDir = filepath.Join(req.OutputDir, cfg.Name)
		}
		g.Go(func() error {
			s, err := Open(cfg, opts...)
			if err != nil {
				fail(cfg, err)
				return nil
			}
			defer func() {
				if cerr := s.Close(); cerr != nil {
					s.logger.Warn("Failed to close build session", logfields.Error(cerr))
				}
			}()
			report, err := s.Build(ctx, r)
			reports[i] = report
			if err != nil {
				fail(cfg, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return reports, errors.Join(errs...)
}
