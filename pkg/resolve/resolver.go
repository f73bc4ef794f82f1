package resolve

import (
	"strings"

	"github.com/WeyehnR/ASL-DEMO-sub000/internal/utils"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/glossary"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// windowRadius is the number of bytes inspected on each side of a match when
// testing suppression patterns.
const windowRadius = 30

// Resolver answers word and phrase lookups against one set of Tables.
type Resolver struct {
	tables *Tables
}

// New creates a resolver over prebuilt tables.
func New(tables *Tables) *Resolver {
	return &Resolver{tables: tables}
}

// BaseWord canonicalizes a surface word or phrase to its glossary key.
// Lookup order: exact glossary key, inflection map hit validated against the
// glossary, then the phrase key form for space-joined input.
func (r *Resolver) BaseWord(word string) (string, bool) {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return "", false
	}
	if r.tables.glossary.Has(w) {
		return w, true
	}
	if base, ok := r.tables.inflections[w]; ok && r.tables.glossary.Has(base) {
		return base, true
	}
	if strings.Contains(w, " ") {
		if key := glossary.KeyForm(w); r.tables.glossary.Has(key) {
			return key, true
		}
	}
	return "", false
}

// Has reports whether a surface word or phrase resolves to a glossary key.
func (r *Resolver) Has(word string) bool {
	_, ok := r.BaseWord(word)
	return ok
}

// AllForms returns every surface form of a word: the canonical key followed by
// its recorded inflections. Phrase keys return the single space-joined display
// form, since phrases are never inflected. Unresolved input returns nil.
func (r *Resolver) AllForms(word string) []string {
	base, ok := r.BaseWord(word)
	if !ok {
		return nil
	}
	if strings.Contains(base, glossary.Separator) {
		return []string{glossary.DisplayForm(base)}
	}
	forms := make([]string, 0, 1+len(r.tables.reverse[base]))
	forms = append(forms, base)
	forms = append(forms, r.tables.reverse[base]...)
	return forms
}

// WordsInText returns the deduplicated canonical keys occurring in text, in
// first-seen order. Single words are matched token by token on word
// boundaries; phrases are found by scanning the lowercase text with the phrase
// index at every word start.
func (r *Resolver) WordsInText(text string) []string {
	var words []string
	seen := make(map[string]bool)
	for _, tok := range utils.UniqueTokens(text) {
		base := ""
		if r.tables.glossary.Has(tok) {
			base = tok
		} else if b, ok := r.tables.inflections[tok]; ok && r.tables.glossary.Has(b) {
			base = b
		}
		if base == "" || seen[base] {
			continue
		}
		seen[base] = true
		words = append(words, base)
	}
	for _, key := range r.phrasesInText(strings.ToLower(text)) {
		if seen[key] {
			continue
		}
		seen[key] = true
		words = append(words, key)
	}
	return words
}

// phrasesInText finds every indexed phrase occurring in the lowercase text.
// The trie is consulted at each word start; a hit counts only when the phrase
// also ends on a word boundary, so "thank you" never fires inside
// "thank youth".
func (r *Resolver) phrasesInText(lower string) []string {
	if r.tables.maxPhraseLen == 0 {
		return nil
	}
	data := []byte(lower)
	seen := make(map[string]bool)
	var keys []string
	for i := 0; i < len(data); i++ {
		if !utils.IsWordByte(data[i]) || (i > 0 && utils.IsWordByte(data[i-1])) {
			continue
		}
		err := r.tables.phraseTrie.VisitPrefixes(patricia.Prefix(data[i:]), func(prefix patricia.Prefix, item patricia.Item) error {
			end := i + len(prefix)
			if end < len(data) && utils.IsWordByte(data[end]) {
				return nil
			}
			key := item.(string)
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
			return nil
		})
		if err != nil {
			log.Errorf("Error visiting phrase trie: %v", err)
		}
	}
	return keys
}

// MatchingForms composes WordsInText with AllForms, producing the minimal
// display-form word list a highlighter needs. The result is bounded by
// glossary size, not document length, because it is driven by unique matches.
func (r *Resolver) MatchingForms(text string) []string {
	filter := utils.NewWordFilter()
	var forms []string
	for _, key := range r.WordsInText(text) {
		for _, form := range r.AllForms(key) {
			if filter.ShouldInclude(form) {
				forms = append(forms, form)
			}
		}
	}
	return forms
}

// Suppressed reports whether a match for a canonical word should be voided
// because a suppression pattern fires in the window around it. The window is
// [matchIndex-30, matchIndex+matchLength+30], clamped to the text bounds.
// Words without patterns are never suppressed.
func (r *Resolver) Suppressed(word, text string, matchIndex, matchLength int) bool {
	patterns := r.tables.suppress[word]
	if len(patterns) == 0 {
		return false
	}
	start, end := utils.ClampWindow(matchIndex-windowRadius, matchIndex+matchLength+windowRadius, len(text))
	window := text[start:end]
	for _, re := range patterns {
		if re.MatchString(window) {
			return true
		}
	}
	return false
}
