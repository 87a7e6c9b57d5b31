// internal/scraper/client.go
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxBodySize caps how much of a response is read into memory.
const maxBodySize = 20 << 20

// ClientConfig defines configuration options for the HTTP client.
type ClientConfig struct {
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	UserAgents    []string
	Headers       map[string]string
	RateLimit     float64 // requests per second
	RateBurst     int
}

// Client is the HTTP fetcher shared by all workers. It rotates user agents,
// rate-limits globally and retries transient failures with exponential
// backoff.
type Client struct {
	httpClient    *http.Client
	userAgents    []string
	currentUA     int
	uaMutex       sync.Mutex
	rateLimiter   *rate.Limiter
	retryAttempts int
	retryDelay    time.Duration
	headers       map[string]string
}

// NewClient creates an HTTP client with the specified configuration.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 2.0
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = 5
	}
	if len(cfg.UserAgents) == 0 {
		cfg.UserAgents = defaultUserAgents()
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Client{
		httpClient:    httpClient,
		userAgents:    cfg.UserAgents,
		rateLimiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
		headers:       cfg.Headers,
	}
}

// Fetch performs a GET request with retry logic and returns a classified
// result. Transport errors and retryable status codes are retried up to the
// configured attempt count; the returned error describes the last failure.
func (c *Client) Fetch(ctx context.Context, targetURL string) (*FetchResult, error) {
	if _, err := url.ParseRequestURI(targetURL); err != nil {
		return &FetchResult{URL: targetURL, Status: FetchUnreachable},
			fmt.Errorf("invalid URL %q: %w", targetURL, err)
	}

	start := time.Now()
	var lastErr error
	var lastStatus int

	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return &FetchResult{URL: targetURL, Status: FetchTimeout, Duration: time.Since(start)},
				fmt.Errorf("rate limiter wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
		if err != nil {
			return &FetchResult{URL: targetURL, Status: FetchUnreachable}, fmt.Errorf("failed to create request: %w", err)
		}
		c.setRequestHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt+1, c.retryAttempts+1, err)
			if ctx.Err() != nil {
				break
			}
			if attempt < c.retryAttempts {
				c.waitForRetry(ctx, attempt)
				continue
			}
			break
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
			resp.Body.Close()
			if err != nil {
				// a truncated body is a transport failure, not an HTTP
				// status failure, so lastStatus stays unset
				lastErr = fmt.Errorf("failed to read response body: %w", err)
				if attempt < c.retryAttempts {
					c.waitForRetry(ctx, attempt)
					continue
				}
				break
			}
			return &FetchResult{
				URL:         targetURL,
				Status:      FetchOK,
				StatusCode:  resp.StatusCode,
				ContentType: resp.Header.Get("Content-Type"),
				Body:        body,
				Duration:    time.Since(start),
			}, nil
		}

		resp.Body.Close()
		lastStatus = resp.StatusCode
		lastErr = fmt.Errorf("HTTP %d: %s (attempt %d/%d)", resp.StatusCode, resp.Status, attempt+1, c.retryAttempts+1)

		if !shouldRetryStatusCode(resp.StatusCode) {
			break
		}
		if attempt < c.retryAttempts {
			c.waitForRetry(ctx, attempt)
		}
	}

	res := &FetchResult{
		URL:        targetURL,
		StatusCode: lastStatus,
		Duration:   time.Since(start),
	}
	res.Status = classifyFailure(ctx, lastErr, lastStatus)
	return res, lastErr
}

func classifyFailure(ctx context.Context, err error, statusCode int) FetchStatus {
	switch {
	case statusCode > 0:
		return FetchHTTPError
	case ctx.Err() != nil, errors.Is(err, context.DeadlineExceeded):
		return FetchTimeout
	default:
		return FetchUnreachable
	}
}

// setRequestHeaders configures request headers including user agent rotation.
func (c *Client) setRequestHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.nextUserAgent())

	// browser-like defaults; several catalog sources reject bare clients
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
}

// nextUserAgent returns the next user agent in rotation.
func (c *Client) nextUserAgent() string {
	c.uaMutex.Lock()
	defer c.uaMutex.Unlock()

	if len(c.userAgents) == 0 {
		return "StatHarvester/1.0"
	}
	ua := c.userAgents[c.currentUA]
	c.currentUA = (c.currentUA + 1) % len(c.userAgents)
	return ua
}

// waitForRetry sleeps with exponential backoff and jitter, returning early if
// the context is cancelled.
func (c *Client) waitForRetry(ctx context.Context, attempt int) {
	delay := c.retryDelay * time.Duration(1<<uint(attempt))
	delay += time.Duration(rand.Int63n(int64(delay/2) + 1))
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// shouldRetryStatusCode reports whether a status code warrants a retry.
func shouldRetryStatusCode(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// defaultUserAgents returns a set of realistic user agent strings.
func defaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	}
}
