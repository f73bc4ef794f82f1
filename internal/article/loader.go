// Package article turns web pages into highlightable documents for the
// interactive CLI. A page is fetched, reduced to its readable core, and
// parsed into a container ready for painting.
package article

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"resty.dev/v3"

	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/highlight"
)

const (
	// DefaultTimeout bounds a whole page fetch.
	DefaultTimeout = 30 * time.Second

	// maxBodySize caps how much of an untrusted page is read.
	maxBodySize = 10 * 1024 * 1024

	// Some sites refuse requests without a browser User-Agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Article is a fetched page reduced to its readable content.
type Article struct {
	Title     string
	SiteName  string
	Container *highlight.Container
}

// Loader fetches pages and extracts the article portion.
type Loader struct {
	httpClient *resty.Client
}

func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New()
	client.SetTimeout(timeout)

	return &Loader{httpClient: client}
}

func (l *Loader) Close() error {
	return l.httpClient.Close()
}

// FromURL downloads a page and reduces it to a highlightable article.
func (l *Loader) FromURL(ctx context.Context, rawURL string) (*Article, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing article url > %w", err)
	}

	response, err := l.httpClient.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgent).
		Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("response error %d fetching %s", response.StatusCode(), rawURL)
	}
	body := response.Bytes()
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("page body exceeds %d bytes", maxBodySize)
	}

	return extract(bytes.NewReader(body), pageURL)
}

// FromFile loads a saved HTML page from disk.
func (l *Loader) FromFile(path string) (*Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading article file > %w", err)
	}
	return extract(bytes.NewReader(data), &url.URL{Scheme: "file", Path: path})
}

// extract runs readability over raw HTML and parses what remains.
// Pages readability cannot reduce still fail here rather than
// producing an empty document.
func extract(r io.Reader, pageURL *url.URL) (*Article, error) {
	art, err := readability.FromReader(r, pageURL)
	if err != nil {
		return nil, fmt.Errorf("extracting readable content > %w", err)
	}

	container, err := highlight.FromHTML(strings.NewReader(art.Content))
	if err != nil {
		return nil, fmt.Errorf("parsing article content > %w", err)
	}

	return &Article{
		Title:     art.Title,
		SiteName:  art.SiteName,
		Container: container,
	}, nil
}
