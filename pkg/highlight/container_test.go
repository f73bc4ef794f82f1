package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHTMLCollectsTextLeaves(t *testing.T) {
	doc := `<html><body><p>first</p><p>second <b>bold</b> tail</p></body></html>`
	c, err := FromHTML(strings.NewReader(doc))
	require.NoError(t, err)

	leaves := c.Leaves()
	require.Len(t, leaves, 4)
	assert.Equal(t, "first", leaves[0].Text)
	assert.Equal(t, "second ", leaves[1].Text)
	assert.Equal(t, "bold", leaves[2].Text)
	assert.Equal(t, " tail", leaves[3].Text)
}

func TestContainerTextMatchesLeafOffsets(t *testing.T) {
	doc := `<html><body><h1>Title</h1><p>body text</p></body></html>`
	c, err := FromHTML(strings.NewReader(doc))
	require.NoError(t, err)

	text := c.Text()
	for _, leaf := range c.Leaves() {
		assert.Equal(t, leaf.Text, text[leaf.Pos:leaf.Pos+len(leaf.Text)])
	}
}

func TestFromHTMLMalformedInput(t *testing.T) {
	// html.Parse repairs rather than rejects, so truncated markup still
	// yields a usable container.
	c, err := FromHTML(strings.NewReader(`<p>unclosed <b>tag`))
	require.NoError(t, err)
	assert.Contains(t, c.Text(), "unclosed")
	assert.Contains(t, c.Text(), "tag")
}

func TestFromText(t *testing.T) {
	c := FromText("plain text input")

	require.Len(t, c.Leaves(), 1)
	assert.Equal(t, "plain text input", c.Text())
	assert.Equal(t, 0, c.Leaves()[0].Pos)
}

func TestLayerStorage(t *testing.T) {
	c := FromText("hello world")
	leaf := c.Leaves()[0]

	c.SetLayer("a", []Span{{Leaf: leaf, Start: 0, End: 5}})
	require.Len(t, c.Layer("a"), 1)
	assert.Equal(t, "hello", c.Layer("a")[0].Text())

	c.ClearLayer("a")
	assert.Empty(t, c.Layer("a"))
	assert.Empty(t, c.Layer("never-set"))
}
