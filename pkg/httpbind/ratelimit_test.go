package httpbind

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	limiter := NewTokenBucketLimiter(1, 3)
	handler := Chain(okHandler(), RateLimit(limiter))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/users/export?format=csv", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/users/export?format=csv", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
}

func TestRateLimit_IsolatesClients(t *testing.T) {
	limiter := NewTokenBucketLimiter(1, 1)
	handler := Chain(okHandler(), RateLimit(limiter))

	first := httptest.NewRequest(http.MethodGet, "/users/export", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, first)
	if w.Code != http.StatusOK {
		t.Fatalf("first client status = %d, want 200", w.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/users/export", nil)
	second.RemoteAddr = "10.0.0.2:9999"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, second)
	if w.Code != http.StatusOK {
		t.Fatalf("second client status = %d, want 200", w.Code)
	}
}

func TestTokenBucketLimiter_SweepsIdleClients(t *testing.T) {
	limiter := NewTokenBucketLimiter(1, 1)

	for i := 0; i < 100; i++ {
		limiter.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	limiter.Allow("10.1.0.1")

	limiter.mu.Lock()
	if got := len(limiter.clients); got != 101 {
		limiter.mu.Unlock()
		t.Fatalf("got %d clients before sweep, want 101", got)
	}
	// Age every entry but the last one past the TTL.
	stale := time.Now().Add(-limiter.ttl)
	for key, client := range limiter.clients {
		if key != "10.1.0.1" {
			client.lastSeen = stale
		}
	}
	limiter.sweep(time.Now())
	got := len(limiter.clients)
	_, kept := limiter.clients["10.1.0.1"]
	limiter.mu.Unlock()

	if got != 1 {
		t.Fatalf("got %d clients after sweep, want 1", got)
	}
	if !kept {
		t.Error("active client was swept")
	}
}

func TestTokenBucketLimiter_SweptClientStartsFresh(t *testing.T) {
	limiter := NewTokenBucketLimiter(1, 1)

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("first request should pass")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("second request should exceed the burst")
	}

	limiter.mu.Lock()
	limiter.clients["10.0.0.1"].lastSeen = time.Now().Add(-limiter.ttl)
	limiter.sweep(time.Now())
	limiter.mu.Unlock()

	if !limiter.Allow("10.0.0.1") {
		t.Error("swept client should start with a full bucket")
	}
}
