// Package fetch downloads problem pages. Pages are cached on disk,
// zstd-compressed and keyed by the URL's SHA-256, so repeated runs against
// the same problem don't hammer the judge. Concurrent requests for the same
// URL are collapsed into one.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/puzpuzpuz/xsync/v3"
)

const (
	// DefaultUserAgent identifies the tool to the judges.
	DefaultUserAgent = "templategen (+https://github.com/programme-lv/templategen)"
	// DefaultTTL is how long a cached page stays fresh.
	DefaultTTL = time.Hour

	maxBodyBytes = 10 << 20
)

// StatusError is a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.StatusCode, e.URL)
}

// Client fetches pages through the on-disk cache.
type Client struct {
	http      *http.Client
	cacheDir  string
	ttl       time.Duration
	userAgent string
	cookie    string
	inflight  *xsync.MapOf[string, *call]
}

type call struct {
	done chan struct{}
	body []byte
	err  error
}

// Option configures a Client.
type Option func(*Client)

// WithTTL sets the cache freshness window. Zero or negative disables cache
// reads.
func WithTTL(d time.Duration) Option { return func(c *Client) { c.ttl = d } }

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

// WithCookie sets a session cookie sent with every request.
func WithCookie(cookie string) Option { return func(c *Client) { c.cookie = cookie } }

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// New creates a client caching under cacheDir.
func New(cacheDir string, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: 30 * time.Second},
		cacheDir:  cacheDir,
		ttl:       DefaultTTL,
		userAgent: DefaultUserAgent,
		inflight:  xsync.NewMapOf[string, *call](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the page body, from cache when it is still fresh.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	return c.get(ctx, rawURL, false)
}

// GetFresh bypasses the cache read. The response still refreshes the cache.
func (c *Client) GetFresh(ctx context.Context, rawURL string) ([]byte, error) {
	return c.get(ctx, rawURL, true)
}

func (c *Client) get(ctx context.Context, rawURL string, fresh bool) ([]byte, error) {
	if !fresh {
		if body, ok := c.readCache(rawURL); ok {
			slog.Debug("page cache hit", "url", rawURL)
			return body, nil
		}
	}

	cl, loaded := c.inflight.LoadOrCompute(rawURL, func() *call {
		return &call{done: make(chan struct{})}
	})
	if loaded {
		select {
		case <-cl.done:
			return cl.body, cl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	cl.body, cl.err = c.download(ctx, rawURL)
	if cl.err == nil {
		c.writeCache(rawURL, cl.body)
	}
	c.inflight.Delete(rawURL)
	close(cl.done)
	return cl.body, cl.err
}

func (c *Client) download(ctx context.Context, rawURL string) ([]byte, error) {
	slog.Debug("fetching page", "url", rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s: %w", rawURL, err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("response of %s exceeds %d bytes", rawURL, maxBodyBytes)
	}
	return body, nil
}

func (c *Client) cachePath(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(c.cacheDir, hex.EncodeToString(sum[:])+".zst")
}

func (c *Client) readCache(rawURL string) ([]byte, bool) {
	if c.cacheDir == "" || c.ttl <= 0 {
		return nil, false
	}
	path := c.cachePath(rawURL)
	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()
	d, err := zstd.NewReader(f)
	if err != nil {
		return nil, false
	}
	defer d.Close()
	body, err := io.ReadAll(d)
	if err != nil {
		slog.Warn("failed to read page cache entry", "path", path, "error", err)
		return nil, false
	}
	return body, true
}

// writeCache is best effort: a failure only costs a re-download later.
func (c *Client) writeCache(rawURL string, body []byte) {
	if c.cacheDir == "" {
		return
	}
	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		slog.Warn("failed to create page cache dir", "dir", c.cacheDir, "error", err)
		return
	}
	path := c.cachePath(rawURL)
	tmp, err := os.CreateTemp(c.cacheDir, "page-*.tmp")
	if err != nil {
		slog.Warn("failed to create page cache entry", "path", path, "error", err)
		return
	}
	defer os.Remove(tmp.Name())

	enc, err := zstd.NewWriter(tmp)
	if err != nil {
		tmp.Close()
		slog.Warn("failed to create zstd writer", "path", path, "error", err)
		return
	}
	if _, err := enc.Write(body); err == nil {
		err = enc.Close()
	} else {
		enc.Close()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		slog.Warn("failed to write page cache entry", "path", path, "error", err)
	}
}
