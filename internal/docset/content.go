package docset

import (
	"path"
	"strings"
)

// ContentType decides which build step handles a document.
type ContentType int

const (
	Page ContentType = iota
	TableOfContents
	Resource
	Redirection
)

func (c ContentType) String() string {
	switch c {
	case Page:
		return "Page"
	case TableOfContents:
		return "TableOfContents"
	case Resource:
		return "Resource"
	case Redirection:
		return "Redirection"
	}
	return "Unknown"
}

// Format is the source syntax of a document.
type Format int

const (
	Unknown Format = iota
	Markdown
	YAML
	JSON
)

func (f Format) String() string {
	switch f {
	case Markdown:
		return "Markdown"
	case YAML:
		return "YAML"
	case JSON:
		return "JSON"
	}
	return "Unknown"
}

// FormatOf derives the format from the file extension.
func FormatOf(p string) Format {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".markdown":
		return Markdown
	case ".yml", ".yaml":
		return YAML
	case ".json":
		return JSON
	}
	return Unknown
}

// Document identifies one unit of content. Content itself lives in Input.
type Document struct {
	Path        string
	ContentType ContentType
	Format      Format
}

// Classifier maps paths to content types.
type Classifier struct {
	redirections map[string]string
}

// NewClassifier creates a classifier; redirections maps source paths to targets.
func NewClassifier(redirections map[string]string) *Classifier {
	return &Classifier{redirections: redirections}
}

// Classify builds the Document for a docset-relative slash path.
func (c *Classifier) Classify(p string) Document {
	doc := Document{Path: p, Format: FormatOf(p)}
	if _, ok := c.redirections[p]; ok {
		doc.ContentType = Redirection
		return doc
	}
	switch strings.ToLower(path.Base(p)) {
	case "toc.md", "toc.yml", "toc.yaml", "toc.json":
		doc.ContentType = TableOfContents
		return doc
	}
	if doc.Format == Unknown {
		doc.ContentType = Resource
		return doc
	}
	doc.ContentType = Page
	return doc
}

// RedirectTarget returns the configured target for a redirection source.
func (c *Classifier) RedirectTarget(p string) (string, bool) {
	t, ok := c.redirections[p]
	return t, ok
}
