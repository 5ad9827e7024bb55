package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// newTestLimiter returns a limiter with a controllable clock. The background
// sweep is irrelevant at test timescales.
func newTestLimiter(max int, window time.Duration, start time.Time) (*SlidingWindowLimiter, *time.Time) {
	now := start
	l := &SlidingWindowLimiter{
		hits:   make(map[string][]time.Time),
		max:    max,
		window: window,
		now:    func() time.Time { return now },
	}
	return l, &now
}

func TestAllow_UpToLimit(t *testing.T) {
	l, _ := newTestLimiter(10, time.Minute, time.Now())
	for i := 1; i <= 10; i++ {
		assert.True(t, l.Allow("1.2.3.4"), "request %d should be allowed", i)
	}
	assert.False(t, l.Allow("1.2.3.4"), "11th request in window should be rejected")
}

func TestAllow_WindowSlides(t *testing.T) {
	start := time.Now()
	l, now := newTestLimiter(10, time.Minute, start)
	for i := 0; i < 11; i++ {
		l.Allow("1.2.3.4")
	}
	assert.False(t, l.Allow("1.2.3.4"))

	// Once the early requests age out, the caller gets budget back.
	*now = start.Add(61 * time.Second)
	assert.True(t, l.Allow("1.2.3.4"))
}

func TestAllow_RejectedRequestsStillCount(t *testing.T) {
	start := time.Now()
	l, now := newTestLimiter(2, time.Minute, start)
	assert.True(t, l.Allow("k"))
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))

	// The rejected attempt occupies window budget too: 30s later the first
	// two have not expired, so the caller is still over.
	*now = start.Add(30 * time.Second)
	assert.False(t, l.Allow("k"))
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute, time.Now())
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
}

func TestLimit_Responds429(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute, time.Now())
	h := l.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:54321"

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, rr.Body.String())
}

func TestRealIP_XForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	assert.Equal(t, "1.2.3.4", realIP(req))
}

func TestRealIP_XRealIP_Fallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-Ip", "9.10.11.12")
	assert.Equal(t, "9.10.11.12", realIP(req))
}

func TestRealIP_RemoteAddr_Fallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:54321"
	assert.Equal(t, "192.168.1.1", realIP(req))
}

func TestRealIP_XForwardedFor_TakesPrecedenceOverXRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.1.1.1")
	req.Header.Set("X-Real-Ip", "2.2.2.2")
	assert.Equal(t, "1.1.1.1", realIP(req))
}
