package schema

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/docsetbuild/internal/logfields"
)

// Schema is one compiled page schema.
type Schema struct {
	Mime     string
	value    cue.Value
	markdown []string
}

// MarkdownProperties lists properties rendered by Transform.
func (s *Schema) MarkdownProperties() []string { return append([]string(nil), s.markdown...) }

// Registry holds schemas by mime (case-insensitive). CUE values share one
// runtime that is not safe for concurrent use, so validation is serialized.
type Registry struct {
	mu      sync.Mutex
	ctx     *cue.Context
	schemas map[string]*Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctx: cuecontext.New(), schemas: make(map[string]*Schema)}
}

// LoadDir compiles every *.cue file in dir. A missing dir is not an error.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ferrors.WrapError(err, ferrors.CategoryConfig, "read schema directory").WithContext("dir", dir).Build()
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".cue" {
			continue
		}
		p := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(p)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "read schema").WithContext("path", p).Build()
		}
		if err := r.Add(strings.TrimSuffix(e.Name(), ".cue"), data); err != nil {
			return err
		}
		slog.Debug("Loaded schema", logfields.Path(p))
	}
	return nil
}

// Add compiles src as the schema for mime.
func (r *Registry) Add(mime string, src []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := r.ctx.CompileBytes(src, cue.Filename(mime+".cue"))
	if v.Err() != nil {
		return ferrors.ConfigError("invalid schema").WithCause(v.Err()).WithContext("mime", mime).Build()
	}
	def := v.LookupPath(cue.ParsePath("#Schema"))
	if !def.Exists() {
		return ferrors.ConfigError("schema has no #Schema definition").WithContext("mime", mime).Build()
	}
	s := &Schema{Mime: mime, value: def}
	if md := v.LookupPath(cue.ParsePath("#Markdown")); md.Exists() {
		if err := md.Decode(&s.markdown); err != nil {
			return ferrors.ConfigError("#Markdown must be a list of property names").
				WithCause(err).WithContext("mime", mime).Build()
		}
	}
	r.schemas[strings.ToLower(mime)] = s
	return nil
}

// Get returns the schema for mime.
func (r *Registry) Get(mime string) (*Schema, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schemas[strings.ToLower(mime)]
	return s, ok
}

// Mimes lists registered mimes, sorted.
func (r *Registry) Mimes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.schemas))
	for _, s := range r.schemas {
		out = append(out, s.Mime)
	}
	sort.Strings(out)
	return out
}

// Validate checks obj against s and returns one schema-violation per problem.
func (r *Registry) Validate(s *Schema, file string, obj map[string]any) []diagnostics.Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := r.ctx.Encode(obj)
	if data.Err() != nil {
		return []diagnostics.Diagnostic{violation(file, "", data.Err().Error())}
	}
	err := s.value.Unify(data).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return []diagnostics.Diagnostic{violation(file, "", err.Error())}
	}
	out := make([]diagnostics.Diagnostic, 0, len(errs))
	for _, e := range errs {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		if path != "" {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		out = append(out, violation(file, path, msg))
	}
	return out
}

// Transform renders the markdown properties of obj. The input map is not modified.
func Transform(s *Schema, obj map[string]any, render func(property, markdown string) (string, error)) (map[string]any, error) {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		out[k] = v
	}
	for _, prop := range s.markdown {
		raw, ok := out[prop].(string)
		if !ok {
			continue
		}
		html, err := render(prop, raw)
		if err != nil {
			return nil, fmt.Errorf("transform %s: %w", prop, err)
		}
		out[prop] = html
	}
	return out, nil
}

func violation(file, path, msg string) diagnostics.Diagnostic {
	src := diagnostics.Source{File: file}
	if path != "" {
		return diagnostics.New(diagnostics.CodeSchemaViolation, diagnostics.LevelError, src, "%s: %s", path, msg)
	}
	return diagnostics.New(diagnostics.CodeSchemaViolation, diagnostics.LevelError, src, "%s", msg)
}

// formatPath renders a CUE error path as "items[0].name".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if isIndex(part) && i > 0 {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
