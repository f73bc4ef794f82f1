package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/highlight"
)

func TestRenderPaintsSpans(t *testing.T) {
	c := highlight.FromText("Please book a flight.")
	h := highlight.New(highlight.DefaultLayer)
	require.Len(t, h.HighlightAll(c, []string{"book"}, nil), 1)

	plain := NewRenderer(false, "")
	assert.Equal(t, "Please book a flight.", plain.Render(c), "colors off renders the text untouched")

	colored := NewRenderer(true, "")
	out := colored.Render(c)
	assert.Contains(t, out, "Please ")
	assert.Contains(t, out, " a flight.")
	assert.NotEqual(t, "Please book a flight.", out, "the matched word carries styling")
}

func TestRenderCollapsesMarkupWhitespace(t *testing.T) {
	doc := "<html><body>\n  <p>One book.</p>\n  <p>Two books.</p>\n</body></html>"
	c, err := highlight.FromHTML(strings.NewReader(doc))
	require.NoError(t, err)

	out := NewRenderer(false, "").Render(c)
	assert.Equal(t, "One book.\nTwo books.", out)
}

func TestRenderUnsetLayer(t *testing.T) {
	c := highlight.FromText("nothing painted here")
	assert.Equal(t, "nothing painted here", NewRenderer(true, "other").Render(c))
}
