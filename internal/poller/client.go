package poller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// specification documents are far larger than health payloads
const maxResponseBodySize = 8 << 20 // 8MB

// connection pooling limits; sources are fetched one at a time so these stay small
const (
	defaultMaxIdleConns        = 20
	defaultMaxIdleConnsPerHost = 2
	defaultMaxConnsPerHost     = 4
	defaultIdleConnTimeout     = 60 * time.Second
)

// DefaultTimeout is the per-request timeout used when the caller passes zero.
const DefaultTimeout = 30 * time.Second

// DefaultHeaders are sent with every request so that spec pages behind
// simple bot filters respond as they would to a browser. Per-request
// headers override them.
var DefaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "*/*",
	"Accept-Language": "en-US,en;q=0.9",
}

// Response holds the result of an HTTP request made by [Client].
//
// Response captures all relevant information from an HTTP request including
// the body (limited to 8MB), status code, latency, and any error that occurred.
type Response struct {
	// Body contains the HTTP response body, limited to 8MB.
	Body []byte

	// StatusCode is the HTTP status code (e.g., 200, 404, 500).
	// Zero if the request failed before receiving a response.
	StatusCode int

	// Latency is the total time taken for the request.
	Latency time.Duration

	// Error contains any error that occurred during the request.
	// nil indicates the request completed (though status may indicate an error).
	Error error
}

// OK reports whether the request completed with 200 OK. Other 2xx codes
// do not carry a page body to inspect.
func (r Response) OK() bool {
	return r.Error == nil && r.StatusCode == http.StatusOK
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithRateLimit limits requests to each host to rps requests per second
// with the given burst. Without it requests are not limited.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limit = rate.Limit(rps)
		c.burst = burst
	}
}

// Client is an HTTP client wrapper for fetching specification pages.
//
// Client uses per-request timeouts via context rather than a global timeout,
// allowing different sources to have different timeout configurations.
// Response bodies are limited to 8MB to prevent memory issues.
type Client struct {
	httpClient *http.Client

	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewClient creates a new fetch [Client].
//
// Timeouts are applied per-request via the timeout parameter in
// [Client.Fetch], not as a global client timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			// no default timeout - we use per-request timeouts via context
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
		limit:    rate.Inf,
		limiters: make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs an HTTP request and returns a structured [Response].
//
// The request is made with the provided context, method, URL, headers, and timeout.
// If method is empty, GET is used; if timeout is zero, [DefaultTimeout] is used.
// [DefaultHeaders] are sent unless overridden by headers.
//
// Fetch always returns a Response; errors are captured in the Error field
// rather than returned separately. A non-200 status is not an error here;
// use [Response.OK].
func (c *Client) Fetch(ctx context.Context, method, rawURL string, headers map[string]string, timeout time.Duration) Response {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	// default to GET if method is empty
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("failed to create request: %w", err),
		}
	}

	for key, value := range DefaultHeaders {
		req.Header.Set(key, value)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if err := c.hostLimiter(req.URL).Wait(ctx); err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("rate limit wait: %w", err),
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("request failed: %w", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	// read body with size limit
	limitedReader := io.LimitReader(resp.Body, maxResponseBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return Response{
			StatusCode: resp.StatusCode,
			Latency:    time.Since(start),
			Error:      fmt.Errorf("failed to read response body: %w", err),
		}
	}

	return Response{
		Body:       body,
		StatusCode: resp.StatusCode,
		Latency:    time.Since(start),
	}
}

// hostLimiter returns the limiter shared by all requests to u's host.
func (c *Client) hostLimiter(u *url.URL) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.limiters[u.Host]
	if !ok {
		l = rate.NewLimiter(c.limit, c.burst)
		c.limiters[u.Host] = l
	}
	return l
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times. After Close, the client remains usable but
// new connections will be established as needed.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
