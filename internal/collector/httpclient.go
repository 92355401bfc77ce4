package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"WalletScore/internal/observability"

	"golang.org/x/time/rate"
)

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Source string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d, body: %s", e.Source, e.Code, e.Body)
}

// HTTPOptions configures an HTTPClient.
type HTTPOptions struct {
	Source     string
	ProxyURL   string
	Timeout    time.Duration
	RPS        float64
	Burst      int
	MaxRetries int
	BaseDelay  time.Duration
	Metrics    *observability.Metrics
}

// HTTPClient is a rate-limited, retrying JSON client for one upstream.
type HTTPClient struct {
	source     string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	baseDelay  time.Duration
	metrics    *observability.Metrics
}

// NewHTTPClient creates a client. Zero options fall back to 30s timeout,
// unlimited rate, no retries and a one second base delay.
func NewHTTPClient(opts HTTPOptions) *HTTPClient {
	transport := &http.Transport{}
	if opts.ProxyURL != "" {
		if u, err := url.Parse(opts.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.BaseDelay == 0 {
		opts.BaseDelay = time.Second
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	return &HTTPClient{
		source:     opts.Source,
		client:     &http.Client{Timeout: opts.Timeout, Transport: transport},
		limiter:    rate.NewLimiter(limit, max(opts.Burst, 1)),
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
		metrics:    opts.Metrics,
	}
}

// wait blocks until the limiter allows one request or ctx is done.
func (c *HTTPClient) wait(ctx context.Context) error {
	r := c.limiter.Reserve()
	if !r.OK() {
		return fmt.Errorf("%s: cannot reserve rate token", c.source)
	}
	if delay := r.Delay(); delay > 0 {
		c.metrics.RecordRateLimitWait(c.source)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			r.Cancel()
			return ctx.Err()
		}
	}
	return nil
}

// GetJSON issues a GET and decodes the JSON response into out.
func (c *HTTPClient) GetJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

// PostJSON marshals payload, POSTs it and decodes the JSON response into out.
func (c *HTTPClient) PostJSON(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s encode: %w", c.source, err)
	}
	return c.do(ctx, http.MethodPost, endpoint, body, out)
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.metrics.RecordRetry(c.source)
			delay := c.baseDelay * time.Duration(1<<(attempt-1))
			log.Printf("[WARN] %s attempt %d failed: %v, retrying in %s", c.source, attempt, lastErr, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = c.once(ctx, method, endpoint, body, out)
		if lastErr == nil || !IsTransient(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("%s: giving up after %d attempts: %w", c.source, c.maxRetries+1, lastErr)
}

func (c *HTTPClient) once(ctx context.Context, method, endpoint string, body []byte, out any) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordUpstreamCall(c.source, "error")
		return fmt.Errorf("%s fetch: %w", c.source, err)
	}
	defer resp.Body.Close()
	c.metrics.RecordUpstreamCall(c.source, strconv.Itoa(resp.StatusCode))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s read body: %w", c.source, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Source: c.source, Code: resp.StatusCode, Body: truncate(string(data), 200)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s decode: %w", c.source, err)
	}
	return nil
}

// IsTransient reports whether err is worth retrying: 429, 5xx, timeouts and
// connection failures. Cancellation is never retried.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
