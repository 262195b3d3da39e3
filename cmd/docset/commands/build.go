package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/docsetbuild/internal/build"
	"git.home.luguber.info/inful/docsetbuild/internal/config"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Files       []string `arg:"" optional:"" help:"Docset-relative files to build (default: the whole docset)"`
	Output      string   `short:"o" help:"Output directory (overrides output.path)" type:"path"`
	Incremental bool     `short:"i" help:"Skip files unchanged since the last successful build"`
	DryRun      bool     `name:"dry-run" help:"Build without writing artifacts"`
	Format      string   `short:"f" help:"Report format" default:"summary" enum:"summary,tree,json"`
	All         bool     `short:"a" help:"Build every docset found under the directory of --config, in parallel"`
	Parallel    int      `help:"Docsets built at the same time with --all" default:"2"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	if b.All {
		return b.runAll(g, root)
	}
	s, err := root.openSession(g)
	if err != nil {
		return err
	}
	defer closeSession(g, s)

	ctx, cancel := signalContext()
	defer cancel()

	report, err := s.Build(ctx, build.Request{
		Files:       b.Files,
		Incremental: b.Incremental,
		DryRun:      b.DryRun,
		OutputDir:   b.Output,
	})
	if report != nil {
		if perr := b.print(g, report); perr != nil {
			return perr
		}
	}
	if err != nil {
		return err
	}
	if report.Status == build.StatusFailed {
		return ferrors.BuildError("docset build finished with errors").
			WithContext("failed_files", len(report.Failed())).
			WithContext("build_id", report.BuildID).Build()
	}
	return nil
}

func (b *BuildCmd) runAll(g *Global, root *CLI) error {
	if len(b.Files) > 0 {
		return ferrors.ValidationError("files cannot be combined with --all").Build()
	}
	cfgs, err := config.LoadDocsets(filepath.Dir(root.Config))
	if err != nil {
		return err
	}
	g.Logger.Info("Building docsets", slog.Int("docsets", len(cfgs)), slog.Int("parallel", b.Parallel))

	ctx, cancel := signalContext()
	defer cancel()

	reports, buildErr := build.BuildAll(ctx, cfgs, build.Request{
		Incremental: b.Incremental,
		DryRun:      b.DryRun,
		OutputDir:   b.Output,
	}, b.Parallel, build.WithLogger(g.Logger))

	failed := 0
	for _, report := range reports {
		if report == nil {
			continue
		}
		if err := b.print(g, report); err != nil {
			return err
		}
		if report.Status == build.StatusFailed {
			failed++
		}
	}
	if buildErr != nil {
		return buildErr
	}
	if failed > 0 {
		return ferrors.BuildError("docset builds finished with errors").
			WithContext("failed_docsets", failed).Build()
	}
	return nil
}

func (b *BuildCmd) print(g *Global, report *build.Report) error {
	switch b.Format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryInternal, "encode build report").Build()
		}
		_, err = fmt.Fprintln(g.Stdout, string(data))
		return err
	case "tree":
		_, err := fmt.Fprint(g.Stdout, reportTree(report))
		if err != nil {
			return err
		}
	}
	line := report.Summary()
	if b.All {
		line = report.Docset + " " + line
	}
	_, err := fmt.Fprintln(g.Stdout, line)
	return err
}
