package glossary

import "strings"

// Scoring weights for the two evidence layers. Meaning-token overlap is the
// most specific evidence available, so it outweighs the category signals;
// semantic fields are rarer than lexical classes and score higher per hit.
const (
	classWeight   = 1
	fieldWeight   = 2
	meaningWeight = 3
)

// minTokenLen filters stopword-like noise from meaning and context tokens.
const minTokenLen = 3

// Disambiguate picks the best candidate sense for a hovered word.
//
// Layer 1 collects the lexical class and semantic field of every nearby word
// that itself has a glossary entry (its default sense) and rewards candidates
// sharing them. Layer 2 rewards overlap between a candidate's meaning tokens
// and the surrounding context words. The strictly highest total wins; ties keep
// the earliest candidate. When no layer produced a positive score the result is
// -1 and the caller decides the fallback policy, typically cycling all
// variants rather than guessing.
func (g Glossary) Disambiguate(entries []Entry, nearbyWords, contextWords []string, targetWord string) int {
	if len(entries) == 0 {
		return -1
	}
	if len(entries) == 1 {
		return 0
	}

	var classes, fields []string
	for _, w := range nearbyWords {
		entry, ok := g.Default(strings.ToLower(w))
		if !ok {
			continue
		}
		if hasSignal(entry.LexicalClass) {
			classes = append(classes, entry.LexicalClass)
		}
		if hasSignal(entry.SemanticField) {
			fields = append(fields, entry.SemanticField)
		}
	}

	scores := make([]int, len(entries))
	for i, cand := range entries {
		if hasSignal(cand.LexicalClass) {
			for _, c := range classes {
				if c == cand.LexicalClass {
					scores[i] += classWeight
				}
			}
		}
		if hasSignal(cand.SemanticField) {
			for _, f := range fields {
				if f == cand.SemanticField {
					scores[i] += fieldWeight
				}
			}
		}
	}

	target := strings.ToLower(targetWord)
	if len(contextWords) > 0 {
		ctxTokens := make(map[string]bool, len(contextWords))
		for _, w := range contextWords {
			w = strings.ToLower(w)
			if len(w) < minTokenLen || w == target {
				continue
			}
			ctxTokens[w] = true
		}
		for i, cand := range entries {
			for _, tok := range meaningTokens(cand.Meanings, target) {
				if ctxTokens[tok] {
					scores[i] += meaningWeight
				}
			}
		}
	}

	best, bestScore := -1, 0
	for i, s := range scores {
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

// hasSignal reports whether a category tag carries usable information.
func hasSignal(tag string) bool {
	return tag != "" && tag != "None" && tag != "-"
}

// meaningTokens splits a comma-separated meanings field into deduplicated
// lowercase tokens, dropping the target word and stopword-length noise.
func meaningTokens(meanings, target string) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, part := range strings.Split(meanings, ",") {
		for _, tok := range strings.Fields(part) {
			tok = strings.ToLower(tok)
			if len(tok) < minTokenLen || tok == target || seen[tok] {
				continue
			}
			seen[tok] = true
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
