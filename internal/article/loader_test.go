package article

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Long enough paragraphs that readability accepts the page as an article.
const samplePage = `<!DOCTYPE html>
<html>
<head><title>Booking a Flight</title></head>
<body>
<article>
<h1>Booking a Flight</h1>
<p>She wants to book a flight to Boston next month, and the travel site
keeps recommending connections through airports she has never heard of
before this week started.</p>
<p>Every guide she reads says the same thing about booking early, yet the
prices refuse to settle down long enough for anyone to commit to a seat
with any confidence at all.</p>
<p>In the end she decided to read a book about the city instead and let
the fares sort themselves out while she planned the rest of the trip at
her own pace.</p>
</article>
</body>
</html>`

func TestLoaderFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	l := NewLoader(0)
	defer l.Close()

	art, err := l.FromURL(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Booking a Flight", art.Title)
	require.NotNil(t, art.Container)
	assert.Contains(t, art.Container.Text(), "book a flight")
	assert.NotEmpty(t, art.Container.Leaves())
}

func TestLoaderFromURLServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	l := NewLoader(0)
	defer l.Close()

	_, err := l.FromURL(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "response error 500")
}

func TestLoaderFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.html")
	require.NoError(t, os.WriteFile(path, []byte(samplePage), 0644))

	l := NewLoader(0)
	defer l.Close()

	art, err := l.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Booking a Flight", art.Title)
	assert.Contains(t, art.Container.Text(), "read a book")
}

func TestLoaderFromFileMissing(t *testing.T) {
	l := NewLoader(0)
	defer l.Close()

	_, err := l.FromFile(filepath.Join(t.TempDir(), "absent.html"))
	require.Error(t, err)
}
