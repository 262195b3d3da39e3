package build

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docsetbuild/internal/diagnostics"
	"git.home.luguber.info/inful/docsetbuild/internal/docset"
	"git.home.luguber.info/inful/docsetbuild/internal/frontmatter"
)

func (d *Dispatcher) buildTOC(ctx context.Context, fc *fileContext) error {
	fc.monikers = d.deps.Monikers.GetFileMonikers(fc.doc.Path)

	var items []*TocNode
	if fc.doc.Format == docset.Markdown {
		if line := mergeConflictLine(fc.content); line > 0 {
			fc.sink.Add(diagnostics.MergeConflict(diagnostics.At(fc.doc.Path, line, 1)))
			return nil
		}
		items = parseMarkdownTOC(fc)
	} else {
		v, ok := decode(fc)
		if !ok {
			return nil
		}
		var list []any
		switch t := v.(type) {
		case []any:
			list = t
		case map[string]any:
			raw, ok := t["items"]
			if !ok {
				fc.report(diagnostics.CodeMissingAttribute, diagnostics.LevelWarning, 1, "Missing attribute: items")
				break
			}
			l, ok := raw.([]any)
			if !ok {
				fc.report(diagnostics.CodeUnexpectedType, diagnostics.LevelError, 1, "Expect items to be an array, but got %s", typeName(raw))
				return nil
			}
			list = l
		default:
			fc.report(diagnostics.CodeUnexpectedType, diagnostics.LevelError, 1, "Expect to be an array or object, but got %s", typeName(v))
			return nil
		}
		items = tocItems(fc, list, "items")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if items == nil {
		items = []*TocNode{}
	}
	data, err := json.MarshalIndent(TocModel{
		Docset:   d.deps.Docset.Name,
		File:     fc.doc.Path,
		Monikers: fc.monikers,
		Items:    items,
	}, "", "  ")
	if err != nil {
		return err
	}
	fc.artifact = &Artifact{Path: outputPath(fc.doc.Path, ".json"), MediaType: "application/json", Data: data}
	return nil
}

// tocItems converts decoded items. Entries without a name are reported and
// dropped together with their children.
func tocItems(fc *fileContext, list []any, at string) []*TocNode {
	nodes := make([]*TocNode, 0, len(list))
	for i, raw := range list {
		where := fmt.Sprintf("%s[%d]", at, i)
		m, ok := raw.(map[string]any)
		if !ok {
			fc.report(diagnostics.CodeUnexpectedType, diagnostics.LevelWarning, 0,
				"Expect %s to be an object, but got %s", where, typeName(raw))
			continue
		}
		name, ok := frontmatter.String(m, "name")
		if !ok {
			fc.report(diagnostics.CodeMissingAttribute, diagnostics.LevelWarning, 0, "Missing attribute: name at %s", where)
			continue
		}
		node := &TocNode{Name: name}
		node.Href, _ = frontmatter.String(m, "href")
		node.UID, _ = frontmatter.String(m, "uid")
		if children, ok := m["items"].([]any); ok {
			node.Items = tocItems(fc, children, where+".items")
		}
		nodes = append(nodes, node)
	}
	return nodes
}

var (
	tocHeading = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)
	tocLink    = regexp.MustCompile(`^\[([^\]]*)\]\(\s*([^)\s]*)\s*\)$`)
)

// parseMarkdownTOC reads headings as entries; heading depth gives nesting.
// A heading is either plain text or a single link.
func parseMarkdownTOC(fc *fileContext) []*TocNode {
	type frame struct {
		level int
		node  *TocNode
	}
	var roots []*TocNode
	var stack []frame

	scanner := bufio.NewScanner(bytes.NewReader(fc.content))
	line := 0
	for scanner.Scan() {
		line++
		m := tocHeading.FindStringSubmatch(strings.TrimRight(scanner.Text(), "\r"))
		if m == nil {
			continue
		}
		level := len(m[1])
		node := &TocNode{Name: m[2]}
		if link := tocLink.FindStringSubmatch(m[2]); link != nil {
			node.Name, node.Href = strings.TrimSpace(link[1]), link[2]
		}
		if node.Name == "" {
			fc.report(diagnostics.CodeMissingAttribute, diagnostics.LevelWarning, line, "Missing attribute: name")
			continue
		}

		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1].node
			parent.Items = append(parent.Items, node)
		}
		stack = append(stack, frame{level: level, node: node})
	}
	return roots
}
