package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsetbuild/cmd/docset/commands"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetbuild/internal/version"
)

func main() {
	cli := &commands.CLI{}
	g := commands.NewGlobal()
	ctx := kong.Parse(cli,
		kong.Name("docset"),
		kong.Description("Build versioned documentation sets: monikers, diagnostics and per-file rebuilds."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(g),
	)

	err := ctx.Run(g, cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
