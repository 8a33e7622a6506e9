package poller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/http/httptrace"
	"strings"
	"testing"
	"time"
)

// TestClient_ConnectionReuse verifies that the HTTP client reuses connections
// when making sequential requests to the same host.
func TestClient_ConnectionReuse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient()

	var reusedCount int
	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			if info.Reused {
				reusedCount++
			}
		},
	}

	const numRequests = 5

	for i := 0; i < numRequests; i++ {
		ctx := httptrace.WithClientTrace(context.Background(), trace)
		resp := client.Fetch(ctx, "", server.URL, nil, 5*time.Second)
		if resp.Error != nil {
			t.Fatalf("request %d failed: %v", i, resp.Error)
		}
	}

	// all requests after the first should reuse the connection
	expectedMinReuse := numRequests - 2 // allow some tolerance
	if reusedCount < expectedMinReuse {
		t.Errorf("expected at least %d reused connections, got %d out of %d requests",
			expectedMinReuse, reusedCount, numRequests)
	}
}

// TestClient_DefaultHeaders verifies that browser-like headers are sent and
// that per-request headers override them.
func TestClient_DefaultHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	resp := client.Fetch(context.Background(), "", server.URL, map[string]string{
		"Accept":    "application/javascript",
		"X-Api-Key": "secret",
	}, time.Second)
	if resp.Error != nil {
		t.Fatalf("Fetch() error = %v", resp.Error)
	}

	if ua := got.Get("User-Agent"); !strings.HasPrefix(ua, "Mozilla/5.0") {
		t.Errorf("User-Agent = %q, want browser user agent", ua)
	}
	if lang := got.Get("Accept-Language"); lang != "en-US,en;q=0.9" {
		t.Errorf("Accept-Language = %q, want %q", lang, "en-US,en;q=0.9")
	}
	if accept := got.Get("Accept"); accept != "application/javascript" {
		t.Errorf("Accept = %q, want override %q", accept, "application/javascript")
	}
	if key := got.Get("X-Api-Key"); key != "secret" {
		t.Errorf("X-Api-Key = %q, want %q", key, "secret")
	}
}

// TestClient_StatusAndBody verifies that the body and status are returned and
// that non-200 responses are not transport errors.
func TestClient_StatusAndBody(t *testing.T) {
	tests := []struct {
		name   string
		status int
		wantOK bool
	}{
		{name: "ok", status: http.StatusOK, wantOK: true},
		{name: "no content", status: http.StatusNoContent, wantOK: false},
		{name: "accepted", status: http.StatusAccepted, wantOK: false},
		{name: "not found", status: http.StatusNotFound, wantOK: false},
		{name: "server error", status: http.StatusBadGateway, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("let options = {};"))
			}))
			defer server.Close()

			resp := NewClient().Fetch(context.Background(), "", server.URL, nil, time.Second)
			if resp.Error != nil {
				t.Fatalf("Fetch() error = %v", resp.Error)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, tt.status)
			}
			if resp.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v", resp.OK(), tt.wantOK)
			}
		})
	}
}

// TestClient_Timeout verifies that a slow server produces an error rather
// than blocking past the timeout.
func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	start := time.Now()
	resp := NewClient().Fetch(context.Background(), "", server.URL, nil, 50*time.Millisecond)
	if resp.Error == nil {
		t.Fatal("Fetch() error = nil, want timeout error")
	}
	if resp.OK() {
		t.Error("OK() = true for a timed out request")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Fetch() took %v, want it bounded by the timeout", elapsed)
	}
}

// TestClient_InvalidURL verifies that request construction errors are captured.
func TestClient_InvalidURL(t *testing.T) {
	resp := NewClient().Fetch(context.Background(), "", "://bad", nil, time.Second)
	if resp.Error == nil {
		t.Fatal("Fetch() error = nil, want error for invalid URL")
	}
}

// TestClient_RateLimit verifies that requests to one host are spaced out
// and that a cancelled context aborts the wait.
func TestClient_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithRateLimit(20, 1)) // one request every 50ms

	start := time.Now()
	for i := 0; i < 3; i++ {
		if resp := client.Fetch(context.Background(), "", server.URL, nil, time.Second); resp.Error != nil {
			t.Fatalf("request %d failed: %v", i, resp.Error)
		}
	}
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("3 requests took %v, want at least ~100ms with rate limiting", elapsed)
	}

	slow := NewClient(WithRateLimit(0.01, 1))
	_ = slow.Fetch(context.Background(), "", server.URL, nil, time.Second) // consumes the burst

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if resp := slow.Fetch(ctx, "", server.URL, nil, time.Second); resp.Error == nil {
		t.Error("Fetch() error = nil, want rate limit wait error")
	}
}

// TestClient_Close verifies that Close() is safe to call and idempotent.
func TestClient_Close(t *testing.T) {
	client := NewClient()

	client.Close()
	client.Close()
}

// TestClient_Close_NilClient verifies that Close() handles nil receiver safely.
func TestClient_Close_NilClient(t *testing.T) {
	var client *Client

	client.Close()
}
