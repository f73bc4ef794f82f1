package utils

import (
	"strings"
)

// WordFilter deduplicates surface forms case-insensitively while building
// highlight word lists and chip rows.
type WordFilter struct {
	seenWords map[string]bool
}

// NewWordFilter creates an empty filter. Seed words are marked as already seen
// so they never appear in the output.
func NewWordFilter(seed ...string) *WordFilter {
	seenWords := make(map[string]bool, len(seed))
	for _, w := range seed {
		seenWords[strings.ToLower(w)] = true
	}
	return &WordFilter{seenWords: seenWords}
}

// ShouldInclude checks if a word should be included in results (not a duplicate).
// The word is recorded as seen either way.
func (f *WordFilter) ShouldInclude(word string) bool {
	lowerWord := strings.ToLower(word)
	if f.seenWords[lowerWord] {
		return false
	}
	f.seenWords[lowerWord] = true
	return true
}
