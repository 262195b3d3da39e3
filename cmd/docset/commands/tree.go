package commands

import (
	"fmt"
	"path"
	"strings"

	"github.com/disiqueira/gotree/v3"

	"git.home.luguber.info/inful/docsetbuild/internal/build"
)

// fileTree renders docset paths as a directory tree.
type fileTree struct {
	tree gotree.Tree
	dirs map[string]gotree.Tree
}

func newFileTree(rootLabel string) fileTree {
	return fileTree{tree: gotree.New(rootLabel), dirs: make(map[string]gotree.Tree)}
}

func (t fileTree) dir(p string) gotree.Tree {
	if p == "." || p == "" {
		return t.tree
	}
	if d, ok := t.dirs[p]; ok {
		return d
	}
	d := t.dir(path.Dir(p)).Add(path.Base(p) + "/")
	t.dirs[p] = d
	return d
}

func (t fileTree) insert(p, label string) gotree.Tree {
	return t.dir(path.Dir(p)).Add(label)
}

func (t fileTree) render() string { return t.tree.Print() }

// reportTree lists every built file with its state and diagnostics.
func reportTree(r *build.Report) string {
	t := newFileTree(r.Docset)
	for _, f := range r.Files {
		label := fmt.Sprintf("%s [%s]", path.Base(f.Path), f.State)
		if f.Skipped {
			label += " (unchanged)"
		}
		node := t.insert(f.Path, label)
		for _, d := range f.Diagnostics {
			where := ""
			if d.Source.Line > 0 {
				where = fmt.Sprintf(" line %d", d.Source.Line)
			}
			node.Add(fmt.Sprintf("%s %s%s: %s", d.Level, d.Code, where, d.Message))
		}
	}
	return t.render()
}

// tocTree renders the entries of a built table of contents.
func tocTree(m build.TocModel) string {
	root := gotree.New(m.File)
	addTocNodes(root, m.Items)
	return root.Print()
}

func addTocNodes(parent gotree.Tree, nodes []*build.TocNode) {
	for _, n := range nodes {
		label := n.Name
		var refs []string
		if n.Href != "" {
			refs = append(refs, n.Href)
		}
		if n.UID != "" {
			refs = append(refs, "uid:"+n.UID)
		}
		if len(refs) > 0 {
			label += " -> " + strings.Join(refs, " ")
		}
		addTocNodes(parent.Add(label), n.Items)
	}
}
