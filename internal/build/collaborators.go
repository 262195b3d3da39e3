package build

import (
	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	"git.home.luguber.info/inful/docsetbuild/internal/markdown"
	"git.home.luguber.info/inful/docsetbuild/internal/schema"
)

// MarkdownEngine converts markdown to HTML.
type MarkdownEngine interface {
	ToHTML(content []byte, opts markdown.Options) (markdown.Result, error)
}

// TemplateRunner renders page models.
type TemplateRunner interface {
	Has(name string) bool
	Run(name string, model any) (string, error)
}

// SchemaProvider looks up and validates structured content schemas.
type SchemaProvider interface {
	Get(mime string) (*schema.Schema, bool)
	Validate(s *schema.Schema, file string, obj map[string]any) []diagnostics.Diagnostic
}
