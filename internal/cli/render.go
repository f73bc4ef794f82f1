package cli

import (
	"fmt"
	"strings"

	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/highlight"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/overlay"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Renderer paints highlighted documents for the terminal. Span styling
// is purely presentational; the container's text and layers are never
// modified.
type Renderer struct {
	colors bool
	layer  string
	sign   lipgloss.Style
	title  lipgloss.Style
}

// NewRenderer creates a renderer over one highlight layer.
// Colors off degrades every style to plain text.
func NewRenderer(colors bool, layer string) *Renderer {
	if layer == "" {
		layer = highlight.DefaultLayer
	}
	return &Renderer{
		colors: colors,
		layer:  layer,
		sign: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"}),
		title: lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}),
	}
}

// Word paints one highlightable word.
func (r *Renderer) Word(word string) string {
	if !r.colors {
		return word
	}
	return r.sign.Render(word)
}

// Title paints a document title.
func (r *Renderer) Title(text string) string {
	if !r.colors || text == "" {
		return text
	}
	return r.title.Render(text)
}

// Document writes the session's current document to stdout with its
// painted spans.
func (r *Renderer) Document(s *overlay.Session) {
	container := s.Container()
	if container == nil {
		log.Warn("No document loaded")
		return
	}
	fmt.Println(r.Render(container))
}

// Render produces the terminal form of a highlighted container. Leaves
// are emitted in document order; whitespace-only leaves collapse to a
// newline or space so HTML indentation does not litter the output.
func (r *Renderer) Render(c *highlight.Container) string {
	byLeaf := make(map[*highlight.Leaf][]highlight.Span)
	for _, span := range c.Layer(r.layer) {
		byLeaf[span.Leaf] = append(byLeaf[span.Leaf], span)
	}

	var b strings.Builder
	for _, leaf := range c.Leaves() {
		r.renderLeaf(&b, leaf, byLeaf[leaf])
	}
	return strings.TrimSpace(b.String())
}

func (r *Renderer) renderLeaf(b *strings.Builder, leaf *highlight.Leaf, spans []highlight.Span) {
	if strings.TrimSpace(leaf.Text) == "" {
		if strings.ContainsRune(leaf.Text, '\n') {
			b.WriteString("\n")
		} else if leaf.Text != "" {
			b.WriteString(" ")
		}
		return
	}

	last := 0
	for _, span := range spans {
		b.WriteString(leaf.Text[last:span.Start])
		b.WriteString(r.Word(span.Text()))
		last = span.End
	}
	b.WriteString(leaf.Text[last:])
}
