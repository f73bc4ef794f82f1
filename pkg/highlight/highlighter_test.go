package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightAllLongestMatchWins(t *testing.T) {
	c := FromText("she was running fast")
	h := New("")

	spans := h.HighlightAll(c, []string{"run", "running"}, nil)

	require.Len(t, spans, 1)
	assert.Equal(t, "running", spans[0].Text())
}

func TestHighlightAllEmptyWordList(t *testing.T) {
	c := FromText("any text at all")
	h := New("")

	spans := h.HighlightAll(c, nil, nil)

	assert.Nil(t, spans)
	assert.Empty(t, c.Layer(h.Layer()))
}

func TestHighlightAllWordBoundaries(t *testing.T) {
	testCases := []struct {
		name  string
		text  string
		words []string
		want  []string
	}{
		{
			name:  "bra never matches inside Brazil",
			text:  "Brazil is beautiful",
			words: []string{"bra"},
			want:  nil,
		},
		{
			name:  "on never matches inside only",
			text:  "She only went home",
			words: []string{"on"},
			want:  nil,
		},
		{
			name:  "case-insensitive whole word",
			text:  "Book a flight, then book a room",
			words: []string{"book"},
			want:  []string{"Book", "book"},
		},
		{
			name:  "phrase with space",
			text:  "I said thank you twice",
			words: []string{"thank you"},
			want:  []string{"thank you"},
		},
		{
			name:  "regex metacharacters are literal",
			text:  "a plain (word) here",
			words: []string{"(word)"},
			want:  nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := FromText(tc.text)
			spans := New("").HighlightAll(c, tc.words, nil)
			var got []string
			for _, s := range spans {
				got = append(got, s.Text())
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHighlightAllIsIdempotent(t *testing.T) {
	c := FromText("book book book")
	h := New("")

	first := h.HighlightAll(c, []string{"book"}, nil)
	second := h.HighlightAll(c, []string{"book"}, nil)

	assert.Len(t, first, 3)
	assert.Len(t, second, 3)
	assert.Len(t, c.Layer(h.Layer()), 3, "re-highlighting must not accumulate spans")
}

func TestHighlightAllCallbackOrder(t *testing.T) {
	doc := `<html><body><p>I want to <b>book</b> a flight.</p><p>Thank you!</p></body></html>`
	c, err := FromHTML(strings.NewReader(doc))
	require.NoError(t, err)

	var seen []string
	spans := New("").HighlightAll(c, []string{"book", "flight", "thank you"}, func(text string, leaf *Leaf, start int) {
		seen = append(seen, text)
	})

	assert.Equal(t, []string{"book", "flight", "Thank you"}, seen, "matches arrive in document order")
	assert.Len(t, spans, 3)
}

func TestSpanOffsetsAgreeWithContainerText(t *testing.T) {
	doc := `<html><body><h1>Running</h1><p>She was <i>running</i> to book a flight.</p></body></html>`
	c, err := FromHTML(strings.NewReader(doc))
	require.NoError(t, err)

	spans := New("").HighlightAll(c, []string{"running", "book"}, nil)
	require.NotEmpty(t, spans)

	text := c.Text()
	for _, s := range spans {
		assert.Equal(t, s.Text(), text[s.Pos():s.Pos()+s.Len()])
	}
}

func TestContainerSkipsScriptAndStyle(t *testing.T) {
	doc := `<html><head><style>p { color: book; }</style></head><body><script>var book = 1;</script><p>a real book</p></body></html>`
	c, err := FromHTML(strings.NewReader(doc))
	require.NoError(t, err)

	spans := New("").HighlightAll(c, []string{"book"}, nil)

	require.Len(t, spans, 1)
	assert.Equal(t, "book", spans[0].Text())
	assert.NotContains(t, c.Text(), "var book")
}

func TestClearIsSafeWithoutHighlights(t *testing.T) {
	c := FromText("nothing here")
	h := New("")

	h.Clear(c)
	assert.Empty(t, c.Layer(h.Layer()))

	h.HighlightAll(c, []string{"nothing"}, nil)
	h.Clear(c)
	assert.Empty(t, c.Layer(h.Layer()))
}

func TestNamedLayersAreIndependent(t *testing.T) {
	c := FromText("book a flight")

	signs := New("signs")
	notes := New("notes")
	signs.HighlightAll(c, []string{"book"}, nil)
	notes.HighlightAll(c, []string{"flight"}, nil)

	assert.Len(t, c.Layer("signs"), 1)
	assert.Len(t, c.Layer("notes"), 1)

	signs.Clear(c)
	assert.Empty(t, c.Layer("signs"))
	assert.Len(t, c.Layer("notes"), 1, "clearing one layer leaves others intact")
}
