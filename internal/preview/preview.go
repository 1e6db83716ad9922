// Package preview fetches linked resources for the link preview overlay.
package preview

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

const (
	DefaultMaxBodyBytes = 1 << 20
	DefaultUserAgent    = "lazyjson-preview/1.0"
)

// Response is a fetched link
type Response struct {
	ContentType string
	Body        []byte
	URL         string // final URL after redirects
	Truncated   bool
}

// MediaType returns the content type without parameters
func (r Response) MediaType() string {
	mt, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return strings.TrimSpace(strings.ToLower(r.ContentType))
	}
	return mt
}

// IsImage reports whether the response is an image
func (r Response) IsImage() bool {
	return strings.HasPrefix(r.MediaType(), "image/")
}

// Text returns the body as a string
func (r Response) Text() string {
	return string(r.Body)
}

// Fetcher downloads link targets
type Fetcher struct {
	client    *http.Client
	maxBody   int64
	userAgent string
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithClient sets the HTTP client
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithMaxBody caps how many body bytes are kept
func WithMaxBody(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBody = n
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// NewFetcher creates a fetcher with the given options
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    http.DefaultClient,
		maxBody:   DefaultMaxBodyBytes,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url. Non-2xx responses are errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, fmt.Errorf("failed to fetch %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return Response{}, fmt.Errorf("failed to read %s: %w", url, err)
	}
	truncated := int64(len(body)) > f.maxBody
	if truncated {
		body = body[:f.maxBody]
	}

	return Response{
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		URL:         resp.Request.URL.String(),
		Truncated:   truncated,
	}, nil
}

// FetchLinkType fetches url in the background and calls resolve exactly once
func (f *Fetcher) FetchLinkType(url string, resolve func(Response, error)) {
	go func() {
		resolve(f.Fetch(context.Background(), url))
	}()
}
