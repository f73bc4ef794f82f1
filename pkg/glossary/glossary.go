// Package glossary defines the sign glossary data model and its JSON interchange format.
//
// A glossary maps canonical keys to ordered entry lists. A canonical key is a
// lowercase word, or words joined by '_' for multi-word phrases ("thank_you").
// Entry order matters: index 0 is the default, most common sense of the word.
// The on-disk format is a single JSON object whose reserved "__inflectionMap"
// key carries the precomputed surface-form table; it is stripped during parsing
// and the remainder is treated as the glossary proper.
package glossary

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Separator joins the words of a phrase inside a canonical key.
const Separator = "_"

// inflectionMapKey is the reserved top-level key in the glossary JSON.
const inflectionMapKey = "__inflectionMap"

// Entry is one sense of a canonical word: its meanings, category tags and the
// media file carrying the sign clip. Category tags may be absent; "" / "None"
// and "-" all mean "no signal".
type Entry struct {
	ID            string `json:"id"`
	Meanings      string `json:"meanings"`
	LexicalClass  string `json:"lexicalClass"`
	SemanticField string `json:"semanticField"`
	MediaFile     string `json:"mediaFile"`
}

// Glossary maps canonical keys to their non-empty entry lists.
type Glossary map[string][]Entry

// Entries returns the entry list for a canonical key, nil when absent.
func (g Glossary) Entries(key string) []Entry {
	return g[key]
}

// Has reports whether a canonical key exists in the glossary.
func (g Glossary) Has(key string) bool {
	_, ok := g[key]
	return ok
}

// Default returns the default (first) sense for a canonical key.
func (g Glossary) Default(key string) (Entry, bool) {
	entries, ok := g[key]
	if !ok || len(entries) == 0 {
		return Entry{}, false
	}
	return entries[0], true
}

// DisplayForm converts a canonical key to its space-joined surface form.
func DisplayForm(key string) string {
	return strings.ReplaceAll(key, Separator, " ")
}

// KeyForm converts a space-joined phrase to its canonical key form.
func KeyForm(phrase string) string {
	return strings.ReplaceAll(phrase, " ", Separator)
}

// Parse decodes a glossary JSON document. The reserved __inflectionMap key is
// extracted into the returned surface->base map and removed before the rest is
// read as the glossary. Keys with empty entry lists are dropped with a warning.
func Parse(r io.Reader) (Glossary, map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("failed to decode glossary JSON: %w", err)
	}

	inflections := make(map[string]string)
	if enc, ok := raw[inflectionMapKey]; ok {
		if err := json.Unmarshal(enc, &inflections); err != nil {
			return nil, nil, fmt.Errorf("failed to decode %s: %w", inflectionMapKey, err)
		}
		delete(raw, inflectionMapKey)
	}

	g := make(Glossary, len(raw))
	for key, enc := range raw {
		var entries []Entry
		if err := json.Unmarshal(enc, &entries); err != nil {
			return nil, nil, fmt.Errorf("failed to decode entries for %q: %w", key, err)
		}
		if len(entries) == 0 {
			log.Warnf("Glossary key %q has no entries, skipping", key)
			continue
		}
		g[strings.ToLower(key)] = entries
	}
	return g, inflections, nil
}

// LoadFile reads and parses a glossary JSON file.
func LoadFile(path string) (Glossary, map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open glossary file: %w", err)
	}
	defer f.Close()

	g, inflections, err := Parse(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	log.Debugf("Loaded glossary: %d keys, %d inflections", len(g), len(inflections))
	return g, inflections, nil
}
