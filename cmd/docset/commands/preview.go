package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/docsetbuild/internal/build"
	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

// PreviewCmd rebuilds a single file from in-memory content, the way an editor
// integration does on every keystroke.
type PreviewCmd struct {
	Path     string `arg:"" help:"Docset-relative path of the file being edited"`
	Content  string `name:"content" help:"Read the buffer from this file instead of stdin" type:"existingfile"`
	Artifact bool   `name:"artifact" help:"Print the rendered artifact instead of the diagnostics"`
}

type previewOutput struct {
	Path        string                           `json:"path"`
	State       build.FileState                  `json:"state"`
	Monikers    []string                         `json:"monikers"`
	Generation  uint64                           `json:"generation"`
	Artifact    *build.Artifact                  `json:"artifact,omitempty"`
	Diagnostics []diagnostics.ProtocolDiagnostic `json:"diagnostics"`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	content, err := p.read(g)
	if err != nil {
		return err
	}

	s, err := root.openSession(g)
	if err != nil {
		return err
	}
	defer closeSession(g, s)

	ctx, cancel := signalContext()
	defer cancel()

	res, err := s.Dispatcher.RebuildFile(ctx, p.Path, content)
	if err != nil {
		return err
	}

	if p.Artifact {
		if res.Artifact == nil {
			return ferrors.NotFoundError("no artifact was produced").WithContext("path", res.Path).Build()
		}
		_, err = g.Stdout.Write(res.Artifact.Data)
		return err
	}

	data, err := json.MarshalIndent(previewOutput{
		Path:        res.Path,
		State:       res.State,
		Monikers:    res.Monikers,
		Generation:  res.Generation,
		Artifact:    res.Artifact,
		Diagnostics: diagnostics.ToProtocol(res.Diagnostics),
	}, "", "  ")
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode preview result").Build()
	}
	_, err = fmt.Fprintln(g.Stdout, string(data))
	return err
}

func (p *PreviewCmd) read(g *Global) ([]byte, error) {
	if p.Content != "" {
		data, err := os.ReadFile(p.Content)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read content").
				WithContext("path", p.Content).Build()
		}
		return data, nil
	}
	data, err := io.ReadAll(g.Stdin)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read stdin").Build()
	}
	return data, nil
}
