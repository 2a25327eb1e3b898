package footballapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Vodeneev/footballhub/internal/pkg/metrics"
)

const (
	defaultBaseURL   = "http://localhost:8000"
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "FootballHub/1.0"
	maxErrorBody     = 512
)

// ResponseCache stores raw backend bodies keyed by request path.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte) error
}

// APIError is returned for any non-2xx backend response.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: status %d: %s", e.Path, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Option func(*Client)

// WithCache puts a read-through response cache in front of the backend.
func WithCache(cache ResponseCache) Option {
	return func(c *Client) { c.cache = cache }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// Client talks to the football reference REST backend.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	cache     ResponseCache
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL:   baseURL,
		userAgent: defaultUserAgent,
		client:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// CloseIdleConnections releases keep-alive connections held by the client.
func (c *Client) CloseIdleConnections() {
	c.client.CloseIdleConnections()
}

// getJSON fetches path and decodes the body into out. endpoint is the
// low-cardinality label used for metrics. Only a 200 body that decoded is
// written to the response cache.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, out any) error {
	body, cached := c.cached(ctx, path)
	if cached && json.Valid(body) {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode cached %s: %w", path, err)
		}
		return nil
	}
	if cached {
		slog.Warn("Cached response is not valid JSON, refetching", "path", path)
	}

	body, status, err := c.get(ctx, endpoint, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	if c.cache != nil && status == http.StatusOK {
		if err := c.cache.Set(ctx, path, body); err != nil {
			slog.Warn("Response cache write failed", "path", path, "error", err)
		}
	}
	return nil
}

func (c *Client) cached(ctx context.Context, path string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.Get(ctx, path)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		slog.Warn("Response cache read failed", "path", path, "error", err)
		return nil, false
	case ok:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return body, true
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()
	return nil, false
}

func (c *Client) get(ctx context.Context, endpoint, path string) ([]byte, int, error) {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.BackendRequests.WithLabelValues(endpoint, status).Inc()
		metrics.BackendDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, resp.StatusCode, &APIError{
			StatusCode: resp.StatusCode,
			Path:       path,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s: %w", path, err)
	}
	slog.Debug("Backend request", "path", path, "status", resp.StatusCode, "bytes", len(body), "duration", time.Since(start))
	return body, resp.StatusCode, nil
}
