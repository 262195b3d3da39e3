package markdown

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// inspect walks rendered HTML to fill title, word count and bookmarks.
func inspect(fragment string, res *Result) error {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, n := range nodes {
		walk(n, res, seen)
	}
	return nil
}

func walk(n *html.Node, res *Result, seen map[string]bool) {
	switch n.Type {
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
		if n.DataAtom == atom.H1 && res.Title == "" {
			res.Title = strings.TrimSpace(textOf(n))
		}
		for _, a := range n.Attr {
			if a.Key == "id" || (a.Key == "name" && n.DataAtom == atom.A) {
				if a.Val != "" && !seen[a.Val] {
					seen[a.Val] = true
					res.Bookmarks = append(res.Bookmarks, a.Val)
				}
			}
		}
	case html.TextNode:
		res.WordCount += countWords(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, res, seen)
	}
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return b.String()
}

func countWords(s string) int {
	return len(strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	}))
}
