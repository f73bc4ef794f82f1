package glossary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name            string
		input           string
		wantKeys        []string
		wantInflections map[string]string
		wantErr         bool
	}{
		{
			name: "glossary with inflection map",
			input: `{
				"book": [
					{"id": "book", "meanings": "book, novel, read", "lexicalClass": "Noun", "semanticField": "Education", "mediaFile": "book.mp4"},
					{"id": "book_2", "meanings": "book, reserve", "lexicalClass": "Verb", "semanticField": "", "mediaFile": "book_2.mp4"}
				],
				"thank_you": [
					{"id": "thank_you", "meanings": "thank you, thanks", "lexicalClass": "Phrase", "semanticField": "Social", "mediaFile": "thank_you.mp4"}
				],
				"__inflectionMap": {"books": "book", "booked": "book", "booking": "book"}
			}`,
			wantKeys:        []string{"book", "thank_you"},
			wantInflections: map[string]string{"books": "book", "booked": "book", "booking": "book"},
		},
		{
			name:            "no inflection map",
			input:           `{"run": [{"id": "run", "meanings": "run, jog", "lexicalClass": "Verb", "semanticField": "Motion", "mediaFile": "run.mp4"}]}`,
			wantKeys:        []string{"run"},
			wantInflections: map[string]string{},
		},
		{
			name:            "uppercase keys are normalized",
			input:           `{"Book": [{"id": "book", "meanings": "book", "lexicalClass": "Noun", "semanticField": "", "mediaFile": "book.mp4"}]}`,
			wantKeys:        []string{"book"},
			wantInflections: map[string]string{},
		},
		{
			name:            "empty entry list is dropped",
			input:           `{"ghost": [], "run": [{"id": "run", "meanings": "run", "lexicalClass": "Verb", "semanticField": "", "mediaFile": "run.mp4"}]}`,
			wantKeys:        []string{"run"},
			wantInflections: map[string]string{},
		},
		{
			name:    "malformed JSON",
			input:   `{"book": [`,
			wantErr: true,
		},
		{
			name:    "entry list is not an array",
			input:   `{"book": {"id": "book"}}`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, inflections, err := Parse(strings.NewReader(tc.input))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, g, len(tc.wantKeys))
			for _, key := range tc.wantKeys {
				assert.True(t, g.Has(key), "missing key %q", key)
			}
			assert.Equal(t, tc.wantInflections, inflections)
		})
	}
}

func TestParseExtractsInflectionMapFromGlossary(t *testing.T) {
	input := `{"book": [{"id": "book", "meanings": "book", "lexicalClass": "Noun", "semanticField": "", "mediaFile": "b.mp4"}], "__inflectionMap": {"books": "book"}}`
	g, _, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.False(t, g.Has("__inflectionMap"), "reserved key must not leak into the glossary")
}

func TestGlossaryDefault(t *testing.T) {
	g := Glossary{
		"book": {
			{ID: "book", Meanings: "book, novel", LexicalClass: "Noun"},
			{ID: "book_2", Meanings: "book, reserve", LexicalClass: "Verb"},
		},
	}

	entry, ok := g.Default("book")
	require.True(t, ok)
	assert.Equal(t, "book", entry.ID, "default sense is the first entry")

	_, ok = g.Default("missing")
	assert.False(t, ok)
}

func TestDisplayAndKeyForm(t *testing.T) {
	assert.Equal(t, "thank you", DisplayForm("thank_you"))
	assert.Equal(t, "thank_you", KeyForm("thank you"))
	assert.Equal(t, "book", DisplayForm("book"))
}
