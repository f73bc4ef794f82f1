// Package overlay drives the hover pipeline end to end: scan a
// document for glossary words, paint them on a highlight layer, and
// resolve hover positions to sign-language clips through the
// disambiguator and the media cache.
package overlay

import (
	"context"
	"strings"

	"github.com/WeyehnR/ASL-DEMO-sub000/internal/utils"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/glossary"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/highlight"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/media"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/resolve"
	"github.com/charmbracelet/log"
)

const (
	// DefaultContextWindow is the byte radius mined for meaning-overlap
	// context around a hover.
	DefaultContextWindow = 160
	// DefaultNearbyWindow is the byte radius mined for neighboring
	// words that carry category signals.
	DefaultNearbyWindow = 80
)

// Options tunes a session. Zero values select the defaults.
type Options struct {
	Layer         string
	ContextWindow int
	NearbyWindow  int
}

// Match is one painted occurrence of a glossary word in the document.
type Match struct {
	Surface   string // text exactly as it appears
	Canonical string // glossary key it resolves to
	Pos       int    // byte offset in the container text
	Length    int
}

// Session owns the painted state of one document. It is not safe for
// concurrent use; callers serialize access the way the stdio server's
// request loop does.
type Session struct {
	resolver      *resolve.Resolver
	glossary      glossary.Glossary
	highlighter   *highlight.Highlighter
	media         *media.Service
	contextWindow int
	nearbyWindow  int

	container *highlight.Container
	matches   []Match
}

// NewSession wires a resolver and highlighter over tables and serves
// hover media through svc.
func NewSession(tables *resolve.Tables, svc *media.Service, opts Options) *Session {
	if opts.ContextWindow < 1 {
		opts.ContextWindow = DefaultContextWindow
	}
	if opts.NearbyWindow < 1 {
		opts.NearbyWindow = DefaultNearbyWindow
	}
	return &Session{
		resolver:      resolve.New(tables),
		glossary:      tables.Glossary(),
		highlighter:   highlight.New(opts.Layer),
		media:         svc,
		contextWindow: opts.ContextWindow,
		nearbyWindow:  opts.NearbyWindow,
	}
}

// Load installs a document container and paints its sign layer,
// replacing any previous document.
func (s *Session) Load(c *highlight.Container) []Match {
	s.container = c
	return s.Refresh()
}

// Refresh rescans the current container and repaints the layer.
// Occurrences whose surrounding text fires a suppression pattern are
// dropped from both the layer and the match list.
func (s *Session) Refresh() []Match {
	s.matches = nil
	if s.container == nil {
		return nil
	}

	text := s.container.Text()
	words := s.resolver.MatchingForms(text)
	spans := s.highlighter.HighlightAll(s.container, words, nil)
	if len(spans) == 0 {
		return nil
	}

	kept := make([]highlight.Span, 0, len(spans))
	for _, span := range spans {
		surface := span.Text()
		canonical, ok := s.resolver.BaseWord(surface)
		if !ok {
			// Forms come from the resolver, so every span should
			// resolve; a miss here means the tables changed underneath
			// the session.
			log.Warnf("Painted surface %q resolves to no glossary key", surface)
			continue
		}
		if s.resolver.Suppressed(canonical, text, span.Pos(), span.Len()) {
			continue
		}
		kept = append(kept, span)
		s.matches = append(s.matches, Match{
			Surface:   surface,
			Canonical: canonical,
			Pos:       span.Pos(),
			Length:    span.Len(),
		})
	}
	s.container.SetLayer(s.highlighter.Layer(), kept)
	return s.matches
}

// Matches returns the match list from the last scan, in document
// order.
func (s *Session) Matches() []Match {
	return s.matches
}

// Chips returns each matched canonical word once, ordered by first
// appearance.
func (s *Session) Chips() []string {
	var chips []string
	seen := make(map[string]bool)
	for _, m := range s.matches {
		if seen[m.Canonical] {
			continue
		}
		seen[m.Canonical] = true
		chips = append(chips, m.Canonical)
	}
	return chips
}

// Container returns the document currently loaded, nil before Load.
func (s *Session) Container() *highlight.Container {
	return s.container
}

// Clear unpaints the layer and drops the match list. The container
// stays loaded.
func (s *Session) Clear() {
	s.matches = nil
	if s.container != nil {
		s.highlighter.Clear(s.container)
	}
}

// Hover resolves the hovered surface text to a glossary word, picks
// its best sense from the text around pos, and requests the clip.
// Exactly one result arrives on the returned channel; an unresolvable
// surface yields a no-media result.
func (s *Session) Hover(ctx context.Context, surface string, pos int) <-chan media.Result {
	canonical, ok := s.resolver.BaseWord(surface)
	if !ok {
		return s.media.Hover(ctx, strings.ToLower(strings.TrimSpace(surface)), -1, nil)
	}
	entries := s.glossary.Entries(canonical)
	best := s.bestVariant(canonical, entries, pos)
	return s.media.Hover(ctx, canonical, best, entries)
}

// Next cycles an already-hovered word to its next fetched variant.
func (s *Session) Next(word string) (media.Result, bool) {
	canonical, ok := s.resolver.BaseWord(word)
	if !ok {
		return media.Result{}, false
	}
	return s.media.NextVariant(canonical)
}

// Forms returns every surface form of a word, canonical key first.
// Unknown words return nil.
func (s *Session) Forms(word string) []string {
	return s.resolver.AllForms(word)
}

// Stats merges media service occupancy with the painted match counts.
func (s *Session) Stats() map[string]int {
	stats := s.media.Stats()
	stats["matches"] = len(s.matches)
	stats["words"] = len(s.Chips())
	return stats
}

// bestVariant scores the word's senses against the document text
// around pos. It returns -1 when neither layer produces a signal, so
// the caller can fall back to cycling.
func (s *Session) bestVariant(canonical string, entries []glossary.Entry, pos int) int {
	if s.container == nil {
		if len(entries) == 0 {
			return -1
		}
		return 0
	}
	text := s.container.Text()
	nearby := s.nearbyWords(canonical, text, pos)
	contextWords := utils.TokenizeAround(text, pos, s.contextWindow)
	return s.glossary.Disambiguate(entries, nearby, contextWords, canonical)
}

// nearbyWords collects the distinct words around pos, canonicalized
// where they resolve, excluding the hovered word itself.
func (s *Session) nearbyWords(canonical, text string, pos int) []string {
	var words []string
	seen := make(map[string]bool)
	for _, tok := range utils.TokenizeAround(text, pos, s.nearbyWindow) {
		word := tok
		if base, ok := s.resolver.BaseWord(tok); ok {
			word = base
		}
		if word == canonical || seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
	}
	return words
}
