package commands

import (
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/docsetbuild/internal/build"
	"git.home.luguber.info/inful/docsetbuild/internal/config"
	"git.home.luguber.info/inful/docsetbuild/internal/docset"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

// TocCmd builds one table of contents and prints its entries.
type TocCmd struct {
	Path string `arg:"" help:"Docset-relative path of a toc.yml, toc.json or TOC.md"`
}

func (c *TocCmd) Run(g *Global, root *CLI) error {
	s, err := root.openSession(g)
	if err != nil {
		return err
	}
	defer closeSession(g, s)

	p := config.NormalizePath(c.Path)
	if s.Docset.Document(p).ContentType != docset.TableOfContents {
		return ferrors.ValidationError("not a table of contents file").WithContext("path", p).Build()
	}
	content, err := s.Docset.Input.Read(p)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	res, err := s.Dispatcher.RebuildFile(ctx, p, content)
	if err != nil {
		return err
	}
	for _, d := range res.Diagnostics {
		if _, err := fmt.Fprintln(g.Stdout, d.String()); err != nil {
			return err
		}
	}
	if res.Artifact == nil {
		return ferrors.BuildError("table of contents could not be built").WithContext("path", p).Build()
	}

	var model build.TocModel
	if err := json.Unmarshal(res.Artifact.Data, &model); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "decode table of contents").Build()
	}
	_, err = fmt.Fprint(g.Stdout, tocTree(model))
	return err
}
