package server

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/glossary"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/media"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/overlay"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/resolve"
)

// stubFetcher returns an in-memory clip named after the media file.
type stubFetcher struct{}

func (stubFetcher) Fetch(ctx context.Context, mediaFile string) (*media.Clip, error) {
	return media.NewClip([]byte(mediaFile), "video/mp4", nil), nil
}

func testSession(t *testing.T) *overlay.Session {
	t.Helper()
	g := glossary.Glossary{
		"book": {
			{ID: "book", Meanings: "book, novel, read", LexicalClass: "Noun", SemanticField: "Education", MediaFile: "book.mp4"},
			{ID: "book_2", Meanings: "book, reserve", LexicalClass: "Verb", MediaFile: "book2.mp4"},
		},
	}
	tables := resolve.NewTables(g, map[string]string{"books": "book"})
	svc := media.NewService(stubFetcher{}, media.Options{})
	t.Cleanup(svc.Close)
	return overlay.NewSession(tables, svc, overlay.Options{})
}

// testClient drives a Server over in-process pipes, one request and
// one decoded response at a time.
type testClient struct {
	enc  *msgpack.Encoder
	dec  *msgpack.Decoder
	in   *io.PipeWriter
	done chan error
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	inReader, inWriter := io.Pipe()
	outReader, outWriter := io.Pipe()
	srv := &Server{
		session: testSession(t),
		decoder: msgpack.NewDecoder(inReader),
		encoder: msgpack.NewEncoder(outWriter),
	}
	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	c := &testClient{
		enc:  msgpack.NewEncoder(inWriter),
		dec:  msgpack.NewDecoder(outReader),
		in:   inWriter,
		done: done,
	}
	t.Cleanup(func() { inWriter.Close() })

	var hello StatusResponse
	require.NoError(t, c.dec.Decode(&hello))
	require.Equal(t, "ready", hello.Status)
	return c
}

func (c *testClient) send(t *testing.T, request Request) {
	t.Helper()
	require.NoError(t, c.enc.Encode(request))
}

// decode reads the next response into out, failing the test on a stall.
func (c *testClient) decode(t *testing.T, out interface{}) {
	t.Helper()
	decoded := make(chan error, 1)
	go func() { decoded <- c.dec.Decode(out) }()
	select {
	case err := <-decoded:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for response")
	}
}

func (c *testClient) load(t *testing.T, id, text string) ScanResponse {
	t.Helper()
	c.send(t, Request{ID: id, Cmd: "load", Text: text})
	var response ScanResponse
	c.decode(t, &response)
	return response
}

func (c *testClient) health(t *testing.T) map[string]int {
	t.Helper()
	c.send(t, Request{ID: "health", Cmd: "health"})
	var response StatusResponse
	c.decode(t, &response)
	return response.Stats
}

func TestServerLoadReturnsMatches(t *testing.T) {
	c := newTestClient(t)

	response := c.load(t, "1", "She wants to book a flight and read a book.")

	assert.Equal(t, "1", response.ID)
	require.Equal(t, 2, response.Count)
	assert.Equal(t, ScanMatch{Surface: "book", Canonical: "book", Pos: 13, Length: 4}, response.Matches[0])
	assert.Equal(t, ScanMatch{Surface: "book", Canonical: "book", Pos: 38, Length: 4}, response.Matches[1])
	assert.Equal(t, []string{"book"}, response.Words)
}

func TestServerLoadParsesHTML(t *testing.T) {
	c := newTestClient(t)

	c.send(t, Request{ID: "1", Cmd: "load", Text: "<p>Two <b>books</b> and a pen.</p>", HTML: true})
	var response ScanResponse
	c.decode(t, &response)

	require.Equal(t, 1, response.Count)
	assert.Equal(t, "books", response.Matches[0].Surface)
	assert.Equal(t, "book", response.Matches[0].Canonical)
}

func TestServerLoadRequiresText(t *testing.T) {
	c := newTestClient(t)

	c.send(t, Request{ID: "1", Cmd: "load"})
	var response RequestError
	c.decode(t, &response)

	assert.Equal(t, "1", response.ID)
	assert.Equal(t, 400, response.Code)
	assert.Contains(t, response.Error, "'x'")
}

func TestServerScanBeforeLoad(t *testing.T) {
	c := newTestClient(t)

	c.send(t, Request{ID: "1", Cmd: "scan"})
	var response RequestError
	c.decode(t, &response)

	assert.Equal(t, 400, response.Code)
	assert.Equal(t, "No document loaded", response.Error)
}

func TestServerHoverDeliversClip(t *testing.T) {
	c := newTestClient(t)
	c.load(t, "1", "She wants to book a flight and read a book.")

	// "read" sits inside the context window and overlaps the noun
	// sense's meanings, so the first variant wins.
	c.send(t, Request{ID: "2", Cmd: "hover", Word: "book", Pos: 13})
	var response HoverResponse
	c.decode(t, &response)

	assert.Equal(t, "2", response.ID)
	assert.Equal(t, "ready", response.Status)
	assert.Equal(t, 0, response.Variant)
	assert.Equal(t, 2, response.Total)
	assert.Equal(t, "book", response.EntryID)
	assert.Equal(t, []byte("book.mp4"), response.Media)
	assert.Equal(t, "video/mp4", response.MediaType)
}

func TestServerNextCyclesVariants(t *testing.T) {
	c := newTestClient(t)
	c.load(t, "1", "She wants to book a flight and read a book.")

	c.send(t, Request{ID: "2", Cmd: "hover", Word: "book", Pos: 13})
	var hover HoverResponse
	c.decode(t, &hover)
	require.Equal(t, "ready", hover.Status)

	require.Eventually(t, func() bool {
		stats := c.health(t)
		return stats["queuedFetches"] == 0 && stats["activeFetches"] == 0
	}, 2*time.Second, 10*time.Millisecond, "second variant should prefetch")

	c.send(t, Request{ID: "3", Cmd: "next", Word: "book"})
	var next HoverResponse
	c.decode(t, &next)
	assert.Equal(t, 1, next.Variant)
	assert.Equal(t, "book_2", next.EntryID)
	assert.Equal(t, []byte("book2.mp4"), next.Media)
}

func TestServerNextWithoutHover(t *testing.T) {
	c := newTestClient(t)
	c.load(t, "1", "Nothing matches here.")

	c.send(t, Request{ID: "2", Cmd: "next", Word: "zebra"})
	var response HoverResponse
	c.decode(t, &response)

	assert.Equal(t, -1, response.Variant)
	assert.Equal(t, "unavailable", response.Status)
}

func TestServerHoverValidation(t *testing.T) {
	c := newTestClient(t)

	c.send(t, Request{ID: "1", Cmd: "hover"})
	var response RequestError
	c.decode(t, &response)
	assert.Equal(t, 400, response.Code)

	long := make([]byte, maxWordLen+1)
	for i := range long {
		long[i] = 'a'
	}
	c.send(t, Request{ID: "2", Cmd: "hover", Word: string(long)})
	c.decode(t, &response)
	assert.Equal(t, 400, response.Code)
	assert.Contains(t, response.Error, "maximum length")
}

func TestServerForms(t *testing.T) {
	c := newTestClient(t)

	c.send(t, Request{ID: "1", Cmd: "forms", Word: "book"})
	var response FormsResponse
	c.decode(t, &response)

	assert.Equal(t, "book", response.Word)
	assert.Equal(t, []string{"book", "books"}, response.Forms)
	assert.Equal(t, 2, response.Count)
}

func TestServerClear(t *testing.T) {
	c := newTestClient(t)
	c.load(t, "1", "A book on a shelf.")

	c.send(t, Request{ID: "2", Cmd: "clear"})
	var response StatusResponse
	c.decode(t, &response)
	assert.Equal(t, "ok", response.Status)

	c.send(t, Request{ID: "3", Cmd: "scan"})
	var scan ScanResponse
	c.decode(t, &scan)
	assert.Equal(t, 1, scan.Count, "clear keeps the document for rescans")
}

func TestServerHealthReportsStats(t *testing.T) {
	c := newTestClient(t)
	c.load(t, "1", "book book")

	stats := c.health(t)
	assert.Equal(t, 2, stats["matches"])
	assert.Equal(t, 1, stats["words"])
}

func TestServerUnknownCommand(t *testing.T) {
	c := newTestClient(t)

	c.send(t, Request{ID: "1", Cmd: "destroy"})
	var response RequestError
	c.decode(t, &response)

	assert.Equal(t, 400, response.Code)
	assert.Contains(t, response.Error, "destroy")
}

func TestServerStopsOnEOF(t *testing.T) {
	c := newTestClient(t)

	require.NoError(t, c.in.Close())
	select {
	case err := <-c.done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop on closed input")
	}
}
