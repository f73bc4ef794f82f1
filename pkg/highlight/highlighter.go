package highlight

import (
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultLayer is the layer name used when none is configured.
const DefaultLayer = "asl-signs"

// MatchFunc observes each match as it is found, in document order.
type MatchFunc func(text string, leaf *Leaf, start int)

// Highlighter compiles surface-form word lists into a single pattern and
// records match spans under one named container layer.
type Highlighter struct {
	layer string
}

// New creates a highlighter writing to the given layer name.
// An empty name selects DefaultLayer.
func New(layer string) *Highlighter {
	if layer == "" {
		layer = DefaultLayer
	}
	return &Highlighter{layer: layer}
}

// Layer returns the layer name this highlighter writes to.
func (h *Highlighter) Layer() string {
	return h.layer
}

// HighlightAll scans every leaf of the container for the given surface forms
// and registers one span per match under the highlighter's layer, invoking
// onMatch for each. Previous highlight state is cleared first, so repeated
// invocations are idempotent. An empty word list clears and returns nil: an
// unguarded empty alternation would match the empty string at every position.
func (h *Highlighter) HighlightAll(c *Container, words []string, onMatch MatchFunc) []Span {
	h.Clear(c)
	if len(words) == 0 {
		log.Debug("HighlightAll called with no words, nothing to scan")
		return nil
	}

	pattern, err := compilePattern(words)
	if err != nil {
		log.Errorf("Failed to compile highlight pattern: %v", err)
		return nil
	}

	var spans []Span
	for _, leaf := range c.Leaves() {
		for _, loc := range pattern.FindAllStringIndex(leaf.Text, -1) {
			span := Span{Leaf: leaf, Start: loc[0], End: loc[1]}
			spans = append(spans, span)
			if onMatch != nil {
				onMatch(span.Text(), leaf, loc[0])
			}
		}
	}
	c.SetLayer(h.layer, spans)
	return spans
}

// Clear removes the highlighter's layer and its spans. Safe to call when
// nothing has been highlighted.
func (h *Highlighter) Clear(c *Container) {
	c.ClearLayer(h.layer)
}

// compilePattern builds one case-insensitive, word-boundary-anchored
// alternation from the word list. Each word is escaped for literal matching.
// Longer words sort first: Go regexp alternation is leftmost-first, so
// "running" must precede "run" to win when both are present.
func compilePattern(words []string) (*regexp.Regexp, error) {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	escaped := make([]string, len(sorted))
	for i, w := range sorted {
		escaped[i] = regexp.QuoteMeta(w)
	}
	return regexp.Compile(`(?i)\b(?:` + strings.Join(escaped, "|") + `)\b`)
}
