package commands

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsetbuild/internal/config"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetbuild/internal/moniker"
)

// MonikersCmd groups the moniker inspection commands.
type MonikersCmd struct {
	List MonikersListCmd `cmd:"" default:"1" help:"List the declared monikers in canonical order"`
	Eval MonikersEvalCmd `cmd:"" help:"Evaluate a moniker range expression"`
	File MonikersFileCmd `cmd:"" help:"Show the file-level monikers of docset paths"`
}

type MonikersListCmd struct{}

type MonikersEvalCmd struct {
	Range string `arg:"" help:"Range expression, e.g. '>= v2 || legacy'"`
}

type MonikersFileCmd struct {
	Paths []string `arg:"" help:"Docset-relative paths"`
}

func loadMonikers(root *CLI) (*config.Config, *moniker.RangeParser, error) {
	cfg, err := root.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	def, err := cfg.LoadMonikerDefinition()
	if err != nil {
		return nil, nil, err
	}
	return cfg, moniker.NewRangeParser(def), nil
}

func (c *MonikersListCmd) Run(g *Global, root *CLI) error {
	_, parser, err := loadMonikers(root)
	if err != nil {
		return err
	}
	def := parser.Definition()
	for i := range def.Len() {
		m := def.Moniker(i)
		line := m.Name
		if m.Product != "" {
			line += "\t" + m.Product
		}
		if m.IsDefault {
			line += "\t(default)"
		}
		if _, err := fmt.Fprintln(g.Stdout, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *MonikersEvalCmd) Run(g *Global, root *CLI) error {
	_, parser, err := loadMonikers(root)
	if err != nil {
		return err
	}
	names, err := parser.Parse(c.Range)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryMoniker, "invalid moniker range").
			WithContext("range", c.Range).Build()
	}
	_, err = fmt.Fprintln(g.Stdout, strings.Join(names, " "))
	return err
}

func (c *MonikersFileCmd) Run(g *Global, root *CLI) error {
	cfg, parser, err := loadMonikers(root)
	if err != nil {
		return err
	}
	provider, err := moniker.NewProvider(parser, cfg.RuleSpecs())
	if err != nil {
		return err
	}
	provider.WithLogger(g.Logger)
	for _, raw := range c.Paths {
		p := config.NormalizePath(raw)
		monikers := provider.GetFileMonikers(p)
		label := strings.Join(monikers, " ")
		if len(monikers) == 0 {
			label = "(unversioned)"
		}
		if _, err := fmt.Fprintf(g.Stdout, "%s\t%s\n", p, label); err != nil {
			return err
		}
	}
	return nil
}
