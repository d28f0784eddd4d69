// Package htmlengine builds render trees from HTML documents using the
// golang.org/x/net/html parser.
//
// The document element becomes the root node. Every h1..h6 and p element
// becomes one text run, in document order, carrying the element's collapsed
// text content and the font metadata computed by package style.
package htmlengine

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gogpu/rendertree"
	"github.com/gogpu/rendertree/style"
)

// Engine renders HTML sources. The zero value is ready to use.
type Engine struct {
	// Base is the style of the document element. A zero Base means
	// style.Default().
	Base style.Style
}

// New returns an Engine with the default base style.
func New() *Engine {
	return &Engine{Base: style.Default()}
}

// Build parses src as HTML and returns the render tree.
func Build(src io.Reader, opts ...rendertree.Option) (*rendertree.RenderTree, error) {
	return rendertree.Build(New(), src, opts...)
}

// Render implements rendertree.Engine.
func (e *Engine) Render(src io.Reader) ([]rendertree.Node, error) {
	if src == nil {
		return nil, fmt.Errorf("htmlengine: nil source")
	}
	doc, err := html.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("htmlengine: parse: %w", err)
	}
	root := documentElement(doc)
	if root == nil {
		return nil, fmt.Errorf("htmlengine: document has no root element")
	}

	base := e.Base
	if base == (style.Style{}) {
		base = style.Default()
	}
	rootStyle, err := style.Resolve(base, root.Data, attr(root, "style"))
	if err != nil {
		return nil, fmt.Errorf("htmlengine: <%s>: %w", root.Data, err)
	}

	w := walker{nodes: []rendertree.Node{rendertree.Root()}}
	if err := w.children(root, rootStyle); err != nil {
		return nil, err
	}
	rendertree.Logger().Debug("htmlengine: rendered", "nodes", len(w.nodes))
	return w.nodes, nil
}

type walker struct {
	nodes []rendertree.Node
}

func (w *walker) children(n *html.Node, parent style.Style) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || skipped(c) {
			continue
		}
		if err := w.element(c, parent); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) element(n *html.Node, parent style.Style) error {
	s, err := style.Resolve(parent, n.Data, attr(n, "style"))
	if err != nil {
		return fmt.Errorf("htmlengine: <%s>: %w", n.Data, err)
	}
	if !style.IsTextTag(n.Data) {
		return w.children(n, s)
	}

	value := style.CollapseText(textContent(n))
	if value == "" {
		return nil
	}
	node, err := rendertree.NewText(s.Text(value))
	if err != nil {
		return fmt.Errorf("htmlengine: <%s>: %w", n.Data, err)
	}
	w.nodes = append(w.nodes, node)
	return nil
}

// documentElement returns the <html> element of a parsed document.
func documentElement(doc *html.Node) *html.Node {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// skipped reports elements whose content is never rendered as text.
func skipped(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Head, atom.Script, atom.Style, atom.Template, atom.Noscript:
		return true
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipped(n) {
				return
			}
			if n.DataAtom == atom.Br {
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}
