package build

import (
	"html/template"
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	"git.home.luguber.info/inful/docsetbuild/internal/docset"
)

// Artifact is the output of one file build.
type Artifact struct {
	// Path is relative to the output directory.
	Path      string `json:"path"`
	MediaType string `json:"media_type"`
	Data      []byte `json:"-"`
}

// Result is what RebuildFile returns.
type Result struct {
	Path        string                   `json:"path"`
	ContentType docset.ContentType       `json:"-"`
	State       FileState                `json:"state"`
	Monikers    []string                 `json:"monikers"`
	Diagnostics []diagnostics.Diagnostic `json:"diagnostics"`
	Artifact    *Artifact                `json:"artifact,omitempty"`
	Generation  uint64                   `json:"generation"`
	BuildID     string                   `json:"build_id"`
	Duration    time.Duration            `json:"duration"`
}

// PageModel is handed to page templates or serialized as the JSON artifact.
type PageModel struct {
	Docset    string         `json:"docset"`
	File      string         `json:"file"`
	Title     string         `json:"title"`
	Mime      string         `json:"mime,omitempty"`
	Monikers  []string       `json:"monikers"`
	WordCount int            `json:"wordCount,omitempty"`
	Bookmarks []string       `json:"bookmarks,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Content   template.HTML  `json:"content,omitempty"`
	Data      any            `json:"data,omitempty"`
}

// TocNode is one table of contents entry.
type TocNode struct {
	Name  string     `json:"name"`
	Href  string     `json:"href,omitempty"`
	UID   string     `json:"uid,omitempty"`
	Items []*TocNode `json:"items,omitempty"`
}

// TocModel is the JSON artifact of a table of contents.
type TocModel struct {
	Docset   string     `json:"docset"`
	File     string     `json:"file"`
	Monikers []string   `json:"monikers"`
	Items    []*TocNode `json:"items"`
}

// outputPath swaps the extension of a docset path.
func outputPath(p, ext string) string {
	return strings.TrimSuffix(p, path.Ext(p)) + ext
}
