package glossary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisambiguate(t *testing.T) {
	g := Glossary{
		"school": {{ID: "school", Meanings: "school, class", LexicalClass: "Noun", SemanticField: "Education"}},
		"teach":  {{ID: "teach", Meanings: "teach, instruct", LexicalClass: "Verb", SemanticField: "Education"}},
		"fast":   {{ID: "fast", Meanings: "fast, quick", LexicalClass: "Adverb", SemanticField: ""}},
		"chair":  {{ID: "chair", Meanings: "chair, seat", LexicalClass: "Noun", SemanticField: "Furniture"}},
	}

	bookEntries := []Entry{
		{ID: "book", Meanings: "book, novel, read", LexicalClass: "Noun", SemanticField: "Education"},
		{ID: "book_2", Meanings: "book, reserve", LexicalClass: "Verb", SemanticField: ""},
	}

	testCases := []struct {
		name    string
		entries []Entry
		nearby  []string
		context []string
		target  string
		want    int
	}{
		{
			name:    "single entry needs no disambiguation",
			entries: bookEntries[:1],
			target:  "book",
			want:    0,
		},
		{
			name:    "empty entry list",
			entries: nil,
			target:  "book",
			want:    -1,
		},
		{
			name:    "no signal falls back to -1",
			entries: bookEntries,
			nearby:  []string{},
			context: []string{},
			target:  "book",
			want:    -1,
		},
		{
			name:    "nearby word without glossary entry gives no signal",
			entries: bookEntries,
			nearby:  []string{"flight"},
			target:  "book",
			want:    -1,
		},
		{
			name:    "shared lexical class picks the noun sense",
			entries: bookEntries,
			nearby:  []string{"school"},
			target:  "book",
			want:    0,
		},
		{
			name:    "shared semantic field outweighs a shared class",
			entries: []Entry{{ID: "a", LexicalClass: "Verb", SemanticField: ""}, {ID: "b", LexicalClass: "Noun", SemanticField: "Education"}},
			nearby:  []string{"teach", "fast"},
			target:  "sign",
			want:    1,
		},
		{
			name:    "meaning overlap outweighs a class match",
			entries: bookEntries,
			nearby:  []string{"chair"},
			context: []string{"she", "wants", "to", "reserve", "a", "table"},
			target:  "book",
			want:    1,
		},
		{
			name:    "context excludes the target word itself",
			entries: bookEntries,
			context: []string{"book", "book", "book"},
			target:  "book",
			want:    -1,
		},
		{
			name:    "short context tokens are noise",
			entries: bookEntries,
			context: []string{"to", "a", "of"},
			target:  "book",
			want:    -1,
		},
		{
			name: "tie keeps the earliest candidate",
			entries: []Entry{
				{ID: "x", LexicalClass: "Noun", SemanticField: ""},
				{ID: "y", LexicalClass: "Noun", SemanticField: ""},
			},
			nearby: []string{"school"},
			target: "sign",
			want:   0,
		},
		{
			name:    "nearby words are lowercased before lookup",
			entries: bookEntries,
			nearby:  []string{"School"},
			target:  "book",
			want:    0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := g.Disambiguate(tc.entries, tc.nearby, tc.context, tc.target)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDisambiguateIsDeterministic(t *testing.T) {
	g := Glossary{"school": {{ID: "school", LexicalClass: "Noun", SemanticField: "Education"}}}
	entries := []Entry{
		{ID: "a", Meanings: "book, read", LexicalClass: "Noun", SemanticField: "Education"},
		{ID: "b", Meanings: "book, reserve", LexicalClass: "Verb", SemanticField: ""},
	}
	nearby := []string{"school"}
	context := []string{"read", "read", "novel"}

	first := g.Disambiguate(entries, nearby, context, "book")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, g.Disambiguate(entries, nearby, context, "book"))
	}
}

func TestMeaningTokens(t *testing.T) {
	tokens := meaningTokens("book, novel, read a lot", "book")
	assert.Equal(t, []string{"novel", "read", "lot"}, tokens)

	tokens = meaningTokens("Book, BOOK, book", "book")
	assert.Empty(t, tokens, "target word is excluded in any casing")
}
