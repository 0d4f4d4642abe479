package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultUserAgent is sent when no other User-Agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Client wraps HTTP operations with a fixed User-Agent and timeout.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the overall per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header. Empty values are ignored.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a Client with a 60 second timeout and DefaultUserAgent.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient.Transport = &userAgentTransport{
		base:      http.DefaultTransport,
		userAgent: c.userAgent,
	}
	return c
}

// HTTP returns the underlying *http.Client. Requests made through it
// carry the configured User-Agent unless they set their own.
func (c *Client) HTTP() *http.Client {
	return c.httpClient
}

// UserAgent returns the configured User-Agent.
func (c *Client) UserAgent() string {
	return c.userAgent
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(clone)
}

// ProgressWriter wraps a writer to track download progress.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes. Zero or negative when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body.
//
// Returns an error if the request fails, the status is not 200 OK, or
// reading the body fails.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// DownloadBytes downloads a small resource such as cover art into memory.
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url)
}

// StreamToFile copies r into a newly created file at destPath.
//
// onProgress may be nil. On failure the partial file is removed.
func StreamToFile(ctx context.Context, r io.Reader, size int64, destPath string, onProgress func(written, total int64)) error {
	file, err := os.Create(destPath)
	if err != nil {
		return err
	}

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    size,
			OnUpdate: onProgress,
		}
	}

	_, err = io.Copy(writer, &contextReader{ctx: ctx, r: r})
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		return err
	}
	return nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
