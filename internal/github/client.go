// Package github reads writeup listings and raw markdown from a public
// GitHub repository.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/taigrr/ctf-writeups/internal/config"
	"github.com/taigrr/ctf-writeups/internal/logging"
	"github.com/taigrr/ctf-writeups/internal/pathfilter"
	"github.com/taigrr/ctf-writeups/internal/types"
	"github.com/taigrr/ctf-writeups/internal/uri"
)

// DefaultUserAgent is sent with every request; GitHub rejects requests
// without one.
const DefaultUserAgent = "ctf-writeups/1.0"

const acceptContents = "application/vnd.github+json"

// Client fetches directory listings and file contents. It holds no
// credentials and does not retry.
type Client struct {
	repo       config.Repository
	httpClient *http.Client
	pathFilter *pathfilter.PathFilter
	cache      *cache
	logger     glog.Logger
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every remote call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithCacheTTL sets how long successful responses are reused. Zero disables
// caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = newCache(ttl)
	}
}

// WithPathFilter sets the filter that classifies listing entries.
func WithPathFilter(pf *pathfilter.PathFilter) Option {
	return func(c *Client) {
		if pf != nil {
			c.pathFilter = pf
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l glog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrNop(l)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a Client for the given repository.
func New(repo config.Repository, opts ...Option) *Client {
	c := &Client{
		repo:       repo,
		httpClient: &http.Client{Timeout: config.DefaultTimeout},
		pathFilter: pathfilter.New(nil),
		cache:      newCache(config.DefaultCacheTTL),
		logger:     logging.Nop(),
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListDirectory returns the entries under path; an empty path lists the
// repository root. A path GitHub reports as missing yields an empty slice.
// A path naming a file yields a one-element slice.
func (c *Client) ListDirectory(ctx context.Context, path string) ([]types.RepositoryEntry, error) {
	reqURL := uri.ContentsURL(c.repo.APIBaseURL, c.repo.Owner, c.repo.Repo, path)

	body, err := c.get(ctx, OpList, reqURL, acceptContents)
	if err != nil {
		if IsNotFound(err) {
			c.logger.Debug("listing not found", "path", path)
			return []types.RepositoryEntry{}, nil
		}
		c.logger.Error("error fetching directory", "path", path, "error", err)
		return nil, err
	}

	entries, err := decodeListing(body)
	if err != nil {
		c.logger.Error("error decoding directory", "path", path, "error", err)
		return nil, fmt.Errorf("failed to decode listing for %q: %w", path, err)
	}
	return entries, nil
}

// FetchFileBytes returns the raw text of the file at path on the configured
// branch. Every non-success status, including 404, is an error.
func (c *Client) FetchFileBytes(ctx context.Context, path string) (string, error) {
	reqURL := uri.RawURL(c.repo.RawBaseURL, c.repo.Owner, c.repo.Repo, c.repo.Branch, path)

	body, err := c.get(ctx, OpFetch, reqURL, "")
	if err != nil {
		c.logger.Error("error fetching file content", "path", path, "error", err)
		return "", err
	}
	return string(body), nil
}

// ListPlatforms returns the top-level directories of the repository.
func (c *Client) ListPlatforms(ctx context.Context) ([]types.RepositoryEntry, error) {
	entries, err := c.ListDirectory(ctx, "")
	if err != nil {
		return nil, err
	}
	return c.pathFilter.Platforms(entries), nil
}

// ListWriteups returns the markdown files directly inside platform.
func (c *Client) ListWriteups(ctx context.Context, platform string) ([]types.RepositoryEntry, error) {
	entries, err := c.ListDirectory(ctx, platform)
	if err != nil {
		return nil, err
	}
	return c.pathFilter.Writeups(entries), nil
}

// FetchWriteup returns the raw markdown of a writeup named without its
// extension. Allowed extensions are tried in order; only a 404 moves on to
// the next one.
func (c *Client) FetchWriteup(ctx context.Context, platform, name string) (string, error) {
	var lastErr error
	for _, ext := range c.pathFilter.Extensions() {
		content, err := c.FetchFileBytes(ctx, uri.WriteupPath(platform, name, ext))
		if err == nil {
			return content, nil
		}
		if !IsNotFound(err) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

// PathFilter returns the filter used to classify entries.
func (c *Client) PathFilter() *pathfilter.PathFilter {
	return c.pathFilter
}

func (c *Client) get(ctx context.Context, op, reqURL, accept string) ([]byte, error) {
	if body, ok := c.cache.get(reqURL); ok {
		c.logger.Debug("cache hit", "url", reqURL)
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", reqURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", reqURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("github request", "url", reqURL, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &RemoteError{
			Op:         op,
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", reqURL, err)
	}

	c.cache.set(reqURL, body)
	return body, nil
}

// statusText returns the reason phrase of the response, falling back to the
// standard text for its code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// decodeListing accepts both the array GitHub returns for a directory and the
// single object it returns for a file.
func decodeListing(body []byte) ([]types.RepositoryEntry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	var entries []types.RepositoryEntry
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
	} else {
		var entry types.RepositoryEntry
		if err := json.Unmarshal(trimmed, &entry); err != nil {
			return nil, err
		}
		entries = []types.RepositoryEntry{entry}
	}

	for i := range entries {
		entries[i] = entries[i].Normalize()
	}
	return entries, nil
}
