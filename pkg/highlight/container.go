// Package highlight paints glossary matches over a document without touching
// its structure.
//
// A Container wraps a parsed HTML document (or a plain text fragment) and
// exposes its text-bearing leaves in document order, each carrying the
// absolute offset of its start in the concatenated text. Highlights live in
// named span layers stored beside the tree, never as wrapper elements, so the
// host page can re-render the document at any time without losing state.
package highlight

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// skippedElements never contribute text leaves.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"iframe":   true,
}

// Leaf is one text node of the container in document order.
type Leaf struct {
	Node *html.Node // nil for plain text containers
	Text string
	Pos  int // byte offset of the leaf start in the container text
}

// Span marks a highlighted sub-range of one leaf.
type Span struct {
	Leaf  *Leaf
	Start int // byte offset within the leaf
	End   int
}

// Pos returns the span's absolute start offset in the container text.
func (s Span) Pos() int {
	return s.Leaf.Pos + s.Start
}

// Text returns the highlighted surface text.
func (s Span) Text() string {
	return s.Leaf.Text[s.Start:s.End]
}

// Len returns the length of the highlighted text in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Container holds the parsed document, its text leaves and the named
// highlight layers.
type Container struct {
	root   *html.Node
	leaves []*Leaf
	text   string
	layers map[string][]Span
}

// FromHTML parses an HTML document into a container.
func FromHTML(r io.Reader) (*Container, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return FromNode(doc), nil
}

// FromNode builds a container over an already parsed node tree.
func FromNode(root *html.Node) *Container {
	c := &Container{root: root, layers: make(map[string][]Span)}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			c.leaves = append(c.leaves, &Leaf{Node: n, Text: n.Data, Pos: b.Len()})
			b.WriteString(n.Data)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	c.text = b.String()
	return c
}

// FromText wraps a plain text fragment in a single-leaf container.
func FromText(text string) *Container {
	return &Container{
		leaves: []*Leaf{{Text: text}},
		text:   text,
		layers: make(map[string][]Span),
	}
}

// Leaves returns the text leaves in document order.
func (c *Container) Leaves() []*Leaf {
	return c.leaves
}

// Text returns the concatenated text of all leaves.
func (c *Container) Text() string {
	return c.text
}

// SetLayer replaces the spans registered under a layer name.
func (c *Container) SetLayer(name string, spans []Span) {
	c.layers[name] = spans
}

// Layer returns the spans registered under a layer name, nil when unset.
func (c *Container) Layer(name string) []Span {
	return c.layers[name]
}

// ClearLayer removes a layer. Safe for a layer that was never set.
func (c *Container) ClearLayer(name string) {
	delete(c.layers, name)
}
