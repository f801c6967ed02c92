package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FarmaSync/edups/metrics"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGetTokenCost(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		query        string
		expectedCost int64
	}{
		{"Root path", "/", "", 0},
		{"Favicon", "/favicon.ico", "", 0},
		{"Metrics", "/metrics", "", 0},
		{"Health endpoint", "/health", "", 5},
		{"Search page", "/pages/search", "q=amox", 20},
		{"Search API", "/api/pages/search", "q=amox&product=Amoxil", 20},
		{"Brands page", "/pages/brands", "", 10},
		{"Dosage forms API", "/api/pages/dosage-forms", "", 10},
		{"Unknown page", "/pages/whatever", "", 10},
		{"Default endpoint", "/unknown", "", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path+"?"+tt.query, nil)
			cost := getTokenCost(req)

			if cost != tt.expectedCost {
				t.Errorf("Expected cost %d for path %s with query %s, got %d",
					tt.expectedCost, tt.path, tt.query, cost)
			}
		})
	}
}

func TestRateLimiterRejectsWhenExhausted(t *testing.T) {
	rl := NewRateLimiter(0.001, 25)
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		req.RemoteAddr = "192.0.2.10"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	// 25 tokens: one search (20) leaves 5, a page view (10) is refused, health (5) still fits.
	if rr := serve("/pages/search"); rr.Code != http.StatusOK {
		t.Fatalf("expected first search to pass, got %d", rr.Code)
	}
	if rr := serve("/pages/brands"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	} else if rr.Header().Get("Retry-After") != "60" {
		t.Error("expected Retry-After header")
	}
	if rr := serve("/health"); rr.Code != http.StatusOK {
		t.Errorf("expected health to pass, got %d", rr.Code)
	} else if rr.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("expected 0 remaining, got %q", rr.Header().Get("X-RateLimit-Remaining"))
	}
	// Free paths never run out.
	if rr := serve("/"); rr.Code != http.StatusOK {
		t.Errorf("expected free path to pass, got %d", rr.Code)
	}
}

func TestRateLimiterKeysClientsByHost(t *testing.T) {
	rl := NewRateLimiter(0.001, 25)
	defer rl.Stop()

	handler := middleware.RealIP(rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	var codes []int
	for _, addr := range []string{"192.0.2.10:40001", "192.0.2.10:40002", "192.0.2.10:40003"} {
		req := httptest.NewRequest("GET", "/pages/search", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	want := []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d: expected %d, got %d", i, want[i], codes[i])
		}
	}
	if n := len(rl.clients); n != 1 {
		t.Errorf("expected one bucket for one host, got %d", n)
	}
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"192.0.2.10:40001", "192.0.2.10"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"203.0.113.7", "203.0.113.7"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = tt.remoteAddr
		if got := clientKey(req); got != tt.want {
			t.Errorf("clientKey(%q) = %q, want %q", tt.remoteAddr, got, tt.want)
		}
	}
}

func TestRateLimiterBucketsArePerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 10)
	defer rl.Stop()

	a := rl.getBucket("198.51.100.1")
	b := rl.getBucket("198.51.100.2")
	if a == b {
		t.Fatal("expected separate buckets per client")
	}
	if rl.getBucket("198.51.100.1") != a {
		t.Error("expected bucket reuse for the same client")
	}
	if got := testutil.ToFloat64(metrics.RateLimiterBucketsTotal); got != 2 {
		t.Errorf("expected bucket gauge 2, got %v", got)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(0.001, 10)
	defer rl.Stop()

	rl.getBucket("203.0.113.1")
	busy := rl.getBucket("203.0.113.2")
	busy.TakeAvailable(5)

	if removed := rl.cleanup(); removed != 1 {
		t.Errorf("expected one idle bucket removed, got %d", removed)
	}
	if _, ok := rl.clients["203.0.113.2"]; !ok {
		t.Error("expected busy bucket to be kept")
	}
	if got := testutil.ToFloat64(metrics.RateLimiterBucketsTotal); got != 1 {
		t.Errorf("expected bucket gauge 1, got %v", got)
	}

	// Stop is idempotent.
	rl.Stop()
}
