package httpbind

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client entry may sit unused before the
// sweep drops it. A dropped client simply starts over with a full
// bucket on its next request.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBucketLimiter provides per-client token bucket rate limiting.
// Exports walk the full result set, so the export endpoint is the
// intended consumer. Idle clients are swept so a scan across many
// source addresses cannot grow the table without bound. Safe for
// concurrent use.
type TokenBucketLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	rate      rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
}

// NewTokenBucketLimiter creates a limiter allowing requestsPerSecond
// sustained requests per key with the given burst capacity.
func NewTokenBucketLimiter(requestsPerSecond, burst int) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		clients:   make(map[string]*clientLimiter),
		rate:      rate.Limit(requestsPerSecond),
		burst:     burst,
		ttl:       limiterIdleTTL,
		lastSweep: time.Now(),
	}
}

// Allow reports whether a request for key is within the rate limit.
func (l *TokenBucketLimiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.ttl {
		l.sweep(now)
	}

	client, ok := l.clients[key]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[key] = client
	}
	client.lastSeen = now
	limiter := client.limiter
	l.mu.Unlock()

	return limiter.Allow()
}

// sweep drops entries idle for longer than the TTL. Caller holds mu.
func (l *TokenBucketLimiter) sweep(now time.Time) {
	for key, client := range l.clients {
		if now.Sub(client.lastSeen) >= l.ttl {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// RateLimit rejects requests over the per-client limit with 429. The
// client key is the remote IP.
func RateLimit(limiter *TokenBucketLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientKey(r)) {
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
