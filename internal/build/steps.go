package build

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"path"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsetbuild/internal/config"
	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	"git.home.luguber.info/inful/docsetbuild/internal/docset"
	"git.home.luguber.info/inful/docsetbuild/internal/frontmatter"
	"git.home.luguber.info/inful/docsetbuild/internal/markdown"
	"git.home.luguber.info/inful/docsetbuild/internal/schema"
	"git.home.luguber.info/inful/docsetbuild/internal/templates"
)

// MonikerRangeKey is the metadata key that narrows a file's monikers.
const MonikerRangeKey = "monikerRange"

// fileContext carries one file through its build step.
type fileContext struct {
	doc      docset.Document
	content  []byte
	sink     diagnostics.Sink
	monikers []string
	artifact *Artifact
}

func (fc *fileContext) report(code string, level diagnostics.Level, line int, format string, args ...any) {
	src := diagnostics.Source{File: fc.doc.Path}
	if line > 0 {
		src = diagnostics.At(fc.doc.Path, line, 1)
	}
	fc.sink.Add(diagnostics.New(code, level, src, format, args...))
}

// resolveMonikers sets the file-level monikers, narrowed by a metadata range
// when one is declared. The metadata range is checked exactly like a zone.
func (d *Dispatcher) resolveMonikers(fc *fileContext, metadata map[string]any, line int) {
	fc.monikers = d.deps.Monikers.GetFileMonikers(fc.doc.Path)
	rangeString, ok := frontmatter.String(metadata, MonikerRangeKey)
	if !ok {
		return
	}
	src := diagnostics.Source{File: fc.doc.Path}
	if line > 0 {
		src = diagnostics.At(fc.doc.Path, line, 1)
	}
	narrowed, diags := d.deps.Monikers.GetZoneMonikers(src, rangeString, fc.monikers)
	for _, diag := range diags {
		fc.sink.Add(diag)
	}
	fc.monikers = narrowed
}

func (d *Dispatcher) render(fc *fileContext, templateName string, model PageModel) {
	if model.Monikers == nil {
		model.Monikers = []string{}
	}
	if d.deps.OutputType == config.OutputJSON {
		data, err := json.MarshalIndent(model, "", "  ")
		if err != nil {
			fc.report(diagnostics.CodeTemplateError, diagnostics.LevelError, 0, "Cannot serialize page model: %v", err)
			return
		}
		fc.artifact = &Artifact{Path: outputPath(fc.doc.Path, ".json"), MediaType: "application/json", Data: data}
		return
	}

	out, err := d.deps.Templates.Run(templateName, model)
	if err != nil {
		fc.report(diagnostics.CodeTemplateError, diagnostics.LevelError, 0, "Template '%s' failed: %v", templateName, err)
		return
	}
	fc.artifact = &Artifact{Path: outputPath(fc.doc.Path, ".html"), MediaType: "text/html", Data: []byte(out)}
}

func markdownOptions(fc *fileContext, baseLine int, zones markdown.ZoneResolver) markdown.Options {
	return markdown.Options{
		File:        fc.doc.Path,
		Pipeline:    markdown.PipelineMarkdown,
		BaseLine:    baseLine,
		Zones:       zones,
		Diagnostics: fc.sink,
	}
}

func is404(p string) bool {
	base := path.Base(p)
	return strings.EqualFold(strings.TrimSuffix(base, path.Ext(base)), "404")
}

// Markdown pages

const conceptualTemplate = "conceptual"

func (d *Dispatcher) buildMarkdownPage(ctx context.Context, fc *fileContext) error {
	if line := mergeConflictLine(fc.content); line > 0 {
		fc.sink.Add(diagnostics.MergeConflict(diagnostics.At(fc.doc.Path, line, 1)))
		return nil
	}

	block, err := frontmatter.Split(fc.content)
	if err != nil {
		fc.report(diagnostics.CodeYAMLSyntaxError, diagnostics.LevelError, 1, "Invalid front matter: %v", err)
		return nil
	}
	metadata, err := frontmatter.ParseYAML(block.Raw)
	if err != nil {
		// Front matter starts on line 2.
		fc.report(diagnostics.CodeYAMLSyntaxError, diagnostics.LevelError, yamlErrorLine(err)+1,
			"Invalid front matter: %s", yamlErrorMessage(err))
		return nil
	}

	d.resolveMonikers(fc, metadata, keyLine(block.Raw, MonikerRangeKey, 2))
	if err := ctx.Err(); err != nil {
		return err
	}

	fileMonikers := fc.monikers
	res, err := d.deps.Markdown.ToHTML(block.Body, markdownOptions(fc, block.BodyLine, func(line int, rangeString string) []string {
		monikers, diags := d.deps.Monikers.GetZoneMonikers(diagnostics.At(fc.doc.Path, line, 1), rangeString, fileMonikers)
		for _, diag := range diags {
			fc.sink.Add(diag)
		}
		return monikers
	}))
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if is404(fc.doc.Path) {
		fc.sink.Add(diagnostics.Custom404Page(diagnostics.Source{File: fc.doc.Path}))
	}

	title, ok := frontmatter.String(metadata, "title")
	if !ok {
		title = res.Title
	}
	d.render(fc, conceptualTemplate, PageModel{
		Docset:    d.deps.Docset.Name,
		File:      fc.doc.Path,
		Title:     title,
		Monikers:  fc.monikers,
		WordCount: res.WordCount,
		Bookmarks: res.Bookmarks,
		Metadata:  metadata,
		Content:   template.HTML(res.HTML), //nolint:gosec // rendered by the markdown engine
	})
	return nil
}

// mergeConflictLine returns the line of an unresolved conflict start marker
// that is followed by an end marker, or 0.
func mergeConflictLine(content []byte) int {
	start := 0
	for i, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimRight(line, "\r")
		switch {
		case bytes.HasPrefix(line, []byte("<<<<<<<")):
			if start == 0 {
				start = i + 1
			}
		case bytes.HasPrefix(line, []byte(">>>>>>>")):
			if start > 0 {
				return start
			}
		}
	}
	return 0
}

// keyLine finds the document line of a top-level key in raw YAML that
// starts on document line first.
func keyLine(raw []byte, key string, first int) int {
	for i, line := range strings.Split(string(raw), "\n") {
		if strings.HasPrefix(line, key+":") {
			return first + i
		}
	}
	return 0
}

var yamlLinePattern = regexp.MustCompile(`^yaml: line (\d+): `)

func yamlErrorLine(err error) int {
	m := yamlLinePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 1
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func yamlErrorMessage(err error) string {
	msg := yamlLinePattern.ReplaceAllString(err.Error(), "")
	return strings.TrimPrefix(msg, "yaml: ")
}

// Structured (YAML/JSON) pages

var yamlMimePattern = regexp.MustCompile(`^###\s*YamlMime\s*:\s*(\S+)`)

// decode parses YAML or JSON content, reporting syntax errors.
func decode(fc *fileContext) (any, bool) {
	var v any
	if fc.doc.Format == docset.JSON {
		if err := json.Unmarshal(fc.content, &v); err != nil {
			line := 1
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				line = 1 + bytes.Count(fc.content[:min(int(syntaxErr.Offset), len(fc.content))], []byte("\n"))
			}
			fc.report(diagnostics.CodeJSONSyntaxError, diagnostics.LevelError, line, "Invalid JSON: %v", err)
			return nil, false
		}
		return v, true
	}
	if err := yaml.Unmarshal(fc.content, &v); err != nil {
		fc.report(diagnostics.CodeYAMLSyntaxError, diagnostics.LevelError, yamlErrorLine(err), "Invalid YAML: %s", yamlErrorMessage(err))
		return nil, false
	}
	return v, true
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, float64, uint64:
		return "number"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

// mimeOf reads the content mime from a YamlMime header or a $schema URL.
func mimeOf(content []byte, obj map[string]any) string {
	firstLine, _, _ := bytes.Cut(content, []byte("\n"))
	if m := yamlMimePattern.FindSubmatch(bytes.TrimRight(firstLine, "\r")); m != nil {
		return string(m[1])
	}
	if ref, ok := frontmatter.String(obj, "$schema"); ok {
		name := path.Base(strings.TrimRight(ref, "/"))
		name = strings.TrimSuffix(name, ".json")
		return strings.TrimSuffix(name, ".schema")
	}
	return ""
}

func (d *Dispatcher) buildStructuredPage(ctx context.Context, fc *fileContext) error {
	v, ok := decode(fc)
	if !ok {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		fc.report(diagnostics.CodeUnexpectedType, diagnostics.LevelError, 1, "Expect to be an object, but got %s", typeName(v))
		return nil
	}

	d.resolveMonikers(fc, obj, 0)
	mimeType := mimeOf(fc.content, obj)

	if mimeType != "" {
		s, found := d.deps.Schemas.Get(mimeType)
		if !found {
			fc.report(diagnostics.CodeSchemaNotFound, diagnostics.LevelError, 1, "Unknown schema '%s'", mimeType)
			return nil
		}
		diags := d.deps.Schemas.Validate(s, fc.doc.Path, obj)
		for _, diag := range diags {
			fc.sink.Add(diag)
		}
		if diagnostics.HasError(diags) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		transformed, err := schemaTransform(d.deps.Markdown, fc, s, obj)
		if err != nil {
			return err
		}
		obj = transformed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if is404(fc.doc.Path) {
		fc.sink.Add(diagnostics.Custom404Page(diagnostics.Source{File: fc.doc.Path}))
	}

	name := fallbackTemplate
	if mimeType != "" && d.deps.Templates.Has(mimeType) {
		name = mimeType
	}
	title, _ := frontmatter.String(obj, "title")
	d.render(fc, name, PageModel{
		Docset:   d.deps.Docset.Name,
		File:     fc.doc.Path,
		Title:    title,
		Mime:     mimeType,
		Monikers: fc.monikers,
		Data:     obj,
	})
	return nil
}

const fallbackTemplate = templates.Fallback

// schemaTransform renders the markdown-typed properties of obj.
func schemaTransform(engine MarkdownEngine, fc *fileContext, s *schema.Schema, obj map[string]any) (map[string]any, error) {
	return schema.Transform(s, obj, func(_, md string) (string, error) {
		res, err := engine.ToHTML([]byte(md), markdown.Options{
			File:        fc.doc.Path,
			Pipeline:    markdown.PipelineMarkdown,
			Diagnostics: fc.sink,
		})
		return res.HTML, err
	})
}

// Resources and redirections

func (d *Dispatcher) buildResource(_ context.Context, fc *fileContext) error {
	mediaType := mime.TypeByExtension(path.Ext(fc.doc.Path))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	fc.monikers = d.deps.Monikers.GetFileMonikers(fc.doc.Path)
	fc.artifact = &Artifact{Path: fc.doc.Path, MediaType: mediaType, Data: fc.content}
	return nil
}

func (d *Dispatcher) buildRedirection(_ context.Context, fc *fileContext) error {
	target, _ := d.deps.Docset.Classifier.RedirectTarget(fc.doc.Path)
	if strings.TrimSpace(target) == "" {
		fc.report(diagnostics.CodeRedirectionInvalid, diagnostics.LevelError, 0,
			"Redirection target for '%s' is empty", fc.doc.Path)
	}
	return nil
}
