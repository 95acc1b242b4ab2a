package httpx

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LimitProfile describes a per-client rate limit for a route group.
type LimitProfile struct {
	Rate  rate.Limit
	Burst int
}

// Credential endpoints get a tight budget; record and stats traffic gets a
// generous one.
var (
	StrictLimit  = LimitProfile{Rate: rate.Every(12 * time.Second), Burst: 5}
	DefaultLimit = LimitProfile{Rate: rate.Every(time.Second), Burst: 30}
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter tracks per-client token buckets keyed by remote IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
}

// NewRateLimiter builds a RateLimiter and starts its idle-entry sweeper,
// which runs until the stop channel closes.
func NewRateLimiter(stop <-chan struct{}) *RateLimiter {
	rl := &RateLimiter{clients: make(map[string]*clientLimiter)}
	go rl.sweep(stop)
	return rl
}

// Limit enforces the given profile per client IP, answering 429 with a
// Retry-After hint when the bucket is empty.
func (rl *RateLimiter) Limit(profile LimitProfile) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(clientIP(r), profile) {
				w.Header().Set("Retry-After", "1")
				WriteJSON(w, r, http.StatusTooManyRequests, map[string]any{
					"error":   true,
					"message": "Too many requests, slow down",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) allow(key string, profile LimitProfile) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(profile.Rate, profile.Burst)}
		rl.clients[key] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

func (rl *RateLimiter) sweep(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-10 * time.Minute)
			rl.mu.Lock()
			for key, c := range rl.clients {
				if c.lastSeen.Before(cutoff) {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
