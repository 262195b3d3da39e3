package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ferrors "git.home.luguber.info/inful/docsetbuild/internal/foundation/errors"
)

//go:embed defaults/*.html.tmpl
var defaultTemplates embed.FS

const suffix = ".html.tmpl"

// Fallback is used for structured pages whose mime has no template.
const Fallback = "default"

// Engine renders page models through named templates. Templates in the
// override directory replace the built-in ones of the same name. Safe for
// concurrent use.
type Engine struct {
	dir string

	mu     sync.RWMutex
	parsed map[string]*template.Template
}

// New creates an engine; dir may be empty.
func New(dir string) *Engine {
	return &Engine{dir: dir, parsed: make(map[string]*template.Template)}
}

// Has reports whether a template named name exists (case-insensitive).
func (e *Engine) Has(name string) bool {
	_, err := e.lookup(name)
	return err == nil
}

// Run executes template name with model.
func (e *Engine) Run(name string, model any) (string, error) {
	tpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, model); err != nil {
		return "", ferrors.BuildError("render template").WithCause(err).WithContext("template", name).Build()
	}
	return buf.String(), nil
}

func (e *Engine) lookup(name string) (*template.Template, error) {
	key := strings.ToLower(name)
	e.mu.RLock()
	tpl, ok := e.parsed[key]
	e.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	src, err := e.source(key)
	if err != nil {
		return nil, err
	}
	tpl, err = template.New(key).Funcs(funcs()).Option("missingkey=zero").Parse(string(src))
	if err != nil {
		return nil, ferrors.BuildError("parse template").WithCause(err).WithContext("template", name).Build()
	}

	e.mu.Lock()
	if existing, raced := e.parsed[key]; raced {
		tpl = existing
	} else {
		e.parsed[key] = tpl
	}
	e.mu.Unlock()
	return tpl, nil
}

func (e *Engine) source(key string) ([]byte, error) {
	if e.dir != "" {
		entries, err := os.ReadDir(e.dir)
		if err == nil {
			for _, ent := range entries {
				if !ent.IsDir() && strings.EqualFold(ent.Name(), key+suffix) {
					return os.ReadFile(filepath.Join(e.dir, ent.Name()))
				}
			}
		}
	}
	data, err := defaultTemplates.ReadFile("defaults/" + key + suffix)
	if err != nil {
		return nil, ferrors.NotFoundError("template not found").WithContext("template", key).Build()
	}
	return data, nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
		"toJSON": func(v any) (string, error) {
			b, err := json.MarshalIndent(v, "", "  ")
			return string(b), err
		},
		"now": func() string { return time.Now().UTC().Format(time.RFC3339) },
	}
}
