package media

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

// Clip is one fetched media object. The bytes stay resident until the
// owning cache entry is evicted and Release runs.
type Clip struct {
	Data        []byte
	ContentType string

	releaseOnce sync.Once
	release     func()
}

// NewClip wraps fetched media bytes. The optional release hook runs
// exactly once, when the clip is dropped.
func NewClip(data []byte, contentType string, release func()) *Clip {
	return &Clip{Data: data, ContentType: contentType, release: release}
}

// Release frees the clip. Safe to call more than once.
func (c *Clip) Release() {
	c.releaseOnce.Do(func() {
		if c.release != nil {
			c.release()
		}
		c.Data = nil
	})
}

// Fetcher retrieves the clip behind a glossary media file name.
type Fetcher interface {
	Fetch(ctx context.Context, mediaFile string) (*Clip, error)
}

// HTTPFetcher downloads clips from a media server.
type HTTPFetcher struct {
	httpClient       *resty.Client
	maxRetryAttempts uint
}

func NewHTTPFetcher(baseURL string, timeout time.Duration, retryAttempts uint) *HTTPFetcher {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)

	return &HTTPFetcher{
		httpClient:       client,
		maxRetryAttempts: retryAttempts,
	}
}

func (f *HTTPFetcher) Close() error {
	return f.httpClient.Close()
}

// Fetch downloads a single media file, retrying transient failures
// with backoff. A missing file is reported immediately without retry.
func (f *HTTPFetcher) Fetch(ctx context.Context, mediaFile string) (*Clip, error) {
	var clip *Clip
	if err := retry.Do(
		func() error {
			response, err := f.httpClient.R().
				SetContext(ctx).
				Get("/" + url.PathEscape(mediaFile))
			if err != nil {
				return fmt.Errorf("httpClient.Get > %w", err)
			}
			if response.StatusCode() == http.StatusNotFound {
				return retry.Unrecoverable(fmt.Errorf("media file %q not found", mediaFile))
			}
			if response.IsError() {
				return fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
			}
			clip = NewClip(response.Bytes(), response.Header().Get("Content-Type"), nil)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(f.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return nil, err
	}
	return clip, nil
}
