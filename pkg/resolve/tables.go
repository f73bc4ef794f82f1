// Package resolve canonicalizes surface words and phrases to glossary keys.
//
// All lookups run against Tables, an immutable context object built once per
// document session from a parsed glossary and its inflection map. Nothing in
// this package holds global state: independent sessions build independent
// tables and never interfere. Every lookup is a total function; input that
// cannot be resolved yields zero values, never an error.
package resolve

import (
	"regexp"
	"sort"
	"strings"

	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/glossary"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Tables carries the lookup tables derived from one glossary load: the
// inflection map, its inverse, the phrase index and the compiled suppression
// patterns. Built once, then read-only and safe for concurrent readers.
type Tables struct {
	glossary     glossary.Glossary
	inflections  map[string]string           // surface form -> base key
	reverse      map[string][]string         // base key -> sorted surface forms
	phrases      map[string]string           // display phrase -> canonical key
	phraseTrie   *patricia.Trie              // display phrase index for text scans
	suppress     map[string][]*regexp.Regexp // canonical key -> context patterns
	maxPhraseLen int
}

type options struct {
	suppressions map[string][]string
}

// Option adjusts table construction.
type Option func(*options)

// WithSuppressions replaces the default suppression-pattern data.
func WithSuppressions(patterns map[string][]string) Option {
	return func(o *options) {
		o.suppressions = patterns
	}
}

// NewTables builds the lookup tables for a glossary. Inflected forms that
// collide with an existing glossary key are dropped; the glossary key wins.
// Phrase keys (containing the separator) are indexed twice: by their display
// form for direct lookup and in a patricia trie for text scanning.
func NewTables(g glossary.Glossary, inflections map[string]string, opts ...Option) *Tables {
	o := &options{suppressions: DefaultSuppressions}
	for _, opt := range opts {
		opt(o)
	}

	t := &Tables{
		glossary:    g,
		inflections: make(map[string]string, len(inflections)),
		reverse:     make(map[string][]string),
		phrases:     make(map[string]string),
		phraseTrie:  patricia.NewTrie(),
		suppress:    make(map[string][]*regexp.Regexp, len(o.suppressions)),
	}

	for surface, base := range inflections {
		surface = strings.ToLower(surface)
		base = strings.ToLower(base)
		if g.Has(surface) {
			// Glossary keys win over inflected forms.
			log.Debugf("Inflected form %q collides with a glossary key, dropped", surface)
			continue
		}
		t.inflections[surface] = base
		t.reverse[base] = append(t.reverse[base], surface)
	}
	for base := range t.reverse {
		sort.Strings(t.reverse[base])
	}

	for key := range g {
		if !strings.Contains(key, glossary.Separator) {
			continue
		}
		display := glossary.DisplayForm(key)
		t.phrases[display] = key
		t.phraseTrie.Insert(patricia.Prefix(display), key)
		if len(display) > t.maxPhraseLen {
			t.maxPhraseLen = len(display)
		}
	}

	for word, patterns := range o.suppressions {
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				log.Warnf("Invalid suppression pattern %q for word %q: %v", p, word, err)
				continue
			}
			t.suppress[word] = append(t.suppress[word], re)
		}
	}

	log.Debugf("Tables built: %d keys, %d inflections, %d phrases",
		len(g), len(t.inflections), len(t.phrases))
	return t
}

// Glossary returns the glossary the tables were built from.
func (t *Tables) Glossary() glossary.Glossary {
	return t.glossary
}

// Forms returns the inflected surface forms recorded for a base key.
func (t *Tables) Forms(base string) []string {
	return t.reverse[base]
}

// PhraseCount returns the number of indexed phrases.
func (t *Tables) PhraseCount() int {
	return len(t.phrases)
}
