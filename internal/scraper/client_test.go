// internal/scraper/client_test.go
package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(attempts int) *Client {
	return NewClient(ClientConfig{
		Timeout:       5 * time.Second,
		RetryAttempts: attempts,
		RetryDelay:    time.Millisecond,
		RateLimit:     1000,
		RateBurst:     100,
	})
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>inflation 28.9%</body></html>"))
	}))
	defer server.Close()

	res, err := testClient(0).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if res.Status != FetchOK {
		t.Errorf("status = %s, want %s", res.Status, FetchOK)
	}
	if res.ContentType != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", res.ContentType)
	}
	if len(res.Body) == 0 {
		t.Error("empty body")
	}
}

func TestFetchRetriesOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	res, err := testClient(2).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed after retries: %v", err)
	}
	if res.Status != FetchOK {
		t.Errorf("status = %s, want %s", res.Status, FetchOK)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
}

func TestFetchDoesNotRetryClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	res, err := testClient(3).Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if res.Status != FetchHTTPError {
		t.Errorf("status = %s, want %s", res.Status, FetchHTTPError)
	}
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("status code = %d, want 404", res.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("404 was retried: %d requests", got)
	}
}

func TestFetchExhaustsRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	res, err := testClient(2).Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if res.Status != FetchHTTPError {
		t.Errorf("status = %s, want %s", res.Status, FetchHTTPError)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
}

func TestFetchCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := testClient(0).Fetch(ctx, server.URL)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if res.Status != FetchTimeout {
		t.Errorf("status = %s, want %s", res.Status, FetchTimeout)
	}
}

func TestFetchUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	res, err := testClient(0).Fetch(context.Background(), url)
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if res.Status != FetchUnreachable {
		t.Errorf("status = %s, want %s", res.Status, FetchUnreachable)
	}
}

func TestFetchTruncatedBodyIsNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.Write([]byte("partial"))
	}))
	defer server.Close()

	res, err := testClient(0).Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for truncated body")
	}
	if res.Status != FetchUnreachable {
		t.Errorf("status = %s, want %s", res.Status, FetchUnreachable)
	}
	if res.StatusCode != 0 {
		t.Errorf("status code = %d, want 0 for a transport failure", res.StatusCode)
	}
}

func TestUserAgentRotation(t *testing.T) {
	var agents []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.UserAgent())
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := NewClient(ClientConfig{
		UserAgents: []string{"agent-a", "agent-b"},
		RateLimit:  1000,
		RateBurst:  100,
	})
	for i := 0; i < 3; i++ {
		if _, err := c.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
	}

	if len(agents) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(agents))
	}
	if agents[0] != "agent-a" || agents[1] != "agent-b" || agents[2] != "agent-a" {
		t.Errorf("user agents not rotated: %v", agents)
	}
}

func TestFetchInvalidURL(t *testing.T) {
	if _, err := testClient(0).Fetch(context.Background(), "not a url"); err == nil {
		t.Error("expected error for invalid URL")
	}
}
