// Package xhtmlengine builds render trees from well-formed XHTML documents
// using github.com/antchfx/xmlquery.
//
// Unlike htmlengine it does not repair markup: any XML syntax error fails the
// build. Text-bearing elements are selected with a compiled XPath expression,
// which yields them in document order.
package xhtmlengine

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/gogpu/rendertree"
	"github.com/gogpu/rendertree/style"
)

// ErrNotXHTML is returned when the document element is not <html>.
var ErrNotXHTML = errors.New("xhtmlengine: document element is not html")

// textElements selects h1..h6 and p in any namespace. Elements nested in
// another selected element, or inside non-rendered content, are excluded.
var textElements = xpath.MustCompile(
	`//*[` + nameTest(textTags) + ` and not(ancestor::*[` + nameTest(textTags) + `])` +
		` and not(ancestor::*[` + nameTest(skippedTags) + `])]`,
)

var (
	textTags    = []string{"h1", "h2", "h3", "h4", "h5", "h6", "p"}
	skippedTags = []string{"head", "script", "style", "template", "noscript"}
)

// documentElement selects the single top-level element.
var documentElement = xpath.MustCompile(`/*`)

// nameTest returns an XPath predicate matching any of tags as the local name
// of the context node.
func nameTest(tags []string) string {
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = fmt.Sprintf("local-name()='%s'", tag)
	}
	return "(" + strings.Join(parts, " or ") + ")"
}

// Engine renders XHTML sources. The zero value is ready to use.
type Engine struct {
	// Base is the style of the document element. A zero Base means
	// style.Default().
	Base style.Style
}

// New returns an Engine with the default base style.
func New() *Engine {
	return &Engine{Base: style.Default()}
}

// Build parses src as XHTML and returns the render tree.
func Build(src io.Reader, opts ...rendertree.Option) (*rendertree.RenderTree, error) {
	return rendertree.Build(New(), src, opts...)
}

// Render implements rendertree.Engine.
func (e *Engine) Render(src io.Reader) ([]rendertree.Node, error) {
	if src == nil {
		return nil, fmt.Errorf("xhtmlengine: nil source")
	}
	doc, err := xmlquery.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("xhtmlengine: parse: %w", err)
	}
	root := xmlquery.QuerySelector(doc, documentElement)
	if root == nil || !strings.EqualFold(root.Data, "html") {
		return nil, ErrNotXHTML
	}

	base := e.Base
	if base == (style.Style{}) {
		base = style.Default()
	}

	nodes := []rendertree.Node{rendertree.Root()}
	for _, el := range xmlquery.QuerySelectorAll(doc, textElements) {
		s, err := computedStyle(base, el)
		if err != nil {
			return nil, err
		}
		value := style.CollapseText(textContent(el))
		if value == "" {
			continue
		}
		n, err := rendertree.NewText(s.Text(value))
		if err != nil {
			return nil, fmt.Errorf("xhtmlengine: <%s>: %w", el.Data, err)
		}
		nodes = append(nodes, n)
	}
	rendertree.Logger().Debug("xhtmlengine: rendered", "nodes", len(nodes))
	return nodes, nil
}

// computedStyle cascades style attributes from the document element down to
// el.
func computedStyle(base style.Style, el *xmlquery.Node) (style.Style, error) {
	var chain []*xmlquery.Node
	for n := el; n != nil && n.Type == xmlquery.ElementNode; n = n.Parent {
		chain = append(chain, n)
	}

	s := base
	for i := len(chain) - 1; i >= 0; i-- {
		n := chain[i]
		var err error
		s, err = style.Resolve(s, n.Data, n.SelectAttr("style"))
		if err != nil {
			return s, fmt.Errorf("xhtmlengine: <%s>: %w", n.Data, err)
		}
	}
	return s, nil
}

func skipped(n *xmlquery.Node) bool {
	return slices.Contains(skippedTags, strings.ToLower(n.Data))
}

// textContent concatenates the character data under n, leaving out
// non-rendered elements. A <br/> contributes a space.
func textContent(n *xmlquery.Node) string {
	var b strings.Builder
	var walk func(*xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		switch n.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			b.WriteString(n.Data)
			return
		case xmlquery.ElementNode:
			if skipped(n) {
				return
			}
			if strings.EqualFold(n.Data, "br") {
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
