package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// SlidingWindowLimiter is a per-caller sliding-window request counter.
// Each caller key maps to the ordered timestamps of its requests within the
// trailing window; entries older than the window are pruned lazily on each
// check and idle keys are swept in the background.
type SlidingWindowLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	max    int
	window time.Duration
	now    func() time.Time
}

// NewSlidingWindowLimiter creates a limiter allowing max requests per caller
// within the trailing window. The request being checked counts toward its own
// limit, so with max=10 the 11th in-window request is the first rejected one.
func NewSlidingWindowLimiter(max int, window time.Duration) *SlidingWindowLimiter {
	l := &SlidingWindowLimiter{
		hits:   make(map[string][]time.Time),
		max:    max,
		window: window,
		now:    time.Now,
	}
	go l.sweep()
	return l
}

// Allow records a request for key and reports whether it is within the limit.
// Rejected requests still count toward the window.
func (l *SlidingWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	cutoff := now.Add(-l.window)
	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)
	l.hits[key] = kept
	return len(kept) <= l.max
}

// sweep removes callers with no in-window timestamps every 5 minutes so the
// map does not grow with every address ever seen.
func (l *SlidingWindowLimiter) sweep() {
	for {
		time.Sleep(5 * time.Minute)
		l.mu.Lock()
		cutoff := l.now().Add(-l.window)
		for key, ts := range l.hits {
			if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
				delete(l.hits, key)
			}
		}
		l.mu.Unlock()
	}
}

// Limit is the middleware handler that enforces the limit per caller IP.
func (l *SlidingWindowLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(realIP(r)) {
			writeJSONError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// realIP resolves the caller address, preferring proxy headers over the raw
// socket address.
func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if rip := r.Header.Get("X-Real-Ip"); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
