package markdown

import (
	"bytes"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

// Pipeline selects how content is rendered.
type Pipeline int

const (
	// PipelineMarkdown renders a whole document.
	PipelineMarkdown Pipeline = iota
	// PipelineInline renders a fragment; a single wrapping <p> is removed.
	PipelineInline
)

// Options carries per-conversion input.
type Options struct {
	File     string
	Pipeline Pipeline
	// BaseLine is the document line the content starts on (after front matter).
	BaseLine int
	// Zones resolves moniker zones; nil leaves zone markers as plain text.
	Zones ZoneResolver
	// Diagnostics receives zone marker problems.
	Diagnostics diagnostics.Sink
}

// Result is the rendered document and its side outputs.
type Result struct {
	HTML      string
	Title     string
	WordCount int
	Bookmarks []string
	Zones     []Zone
}

// Engine converts markdown to HTML. Safe for concurrent use.
type Engine struct {
	md goldmark.Markdown
}

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// Default returns a shared engine.
func Default() *Engine {
	defaultEngineOnce.Do(func() { defaultEngine = New() })
	return defaultEngine
}

// New creates an engine with GFM, heading ids and raw HTML passthrough.
func New() *Engine {
	return &Engine{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)}
}

// ToHTML renders content. Zone diagnostics go to opts.Diagnostics; the
// returned error is reserved for renderer failures.
func (e *Engine) ToHTML(content []byte, opts Options) (Result, error) {
	if opts.BaseLine <= 0 {
		opts.BaseLine = 1
	}
	sink := opts.Diagnostics
	if sink == nil {
		sink = &diagnostics.SliceSink{}
	}

	var zones []Zone
	if opts.Zones != nil {
		content, zones = expandZones(content, opts.BaseLine, opts.Zones, sink, opts.File)
	}

	var buf bytes.Buffer
	if err := e.md.Convert(content, &buf); err != nil {
		return Result{}, ferrors.BuildError("markdown conversion failed").
			WithCause(err).WithContext("file", opts.File).Build()
	}

	out := buf.String()
	if opts.Pipeline == PipelineInline {
		out = stripParagraph(out)
	}

	res := Result{HTML: out, Zones: zones}
	if err := inspect(out, &res); err != nil {
		return Result{}, ferrors.BuildError("html post-processing failed").
			WithCause(err).WithContext("file", opts.File).Build()
	}
	return res, nil
}

func stripParagraph(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "<p>") && strings.HasSuffix(t, "</p>") &&
		strings.Count(t, "<p>") == 1 {
		return strings.TrimSuffix(strings.TrimPrefix(t, "<p>"), "</p>")
	}
	return s
}
