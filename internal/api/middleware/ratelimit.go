package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/phrazzld/taskapi/internal/api/shared"
)

// RateLimitMessage is returned with 429 responses.
const RateLimitMessage = "Too many requests, please try again later."

// RateLimiter counts requests per client IP in fixed windows.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	counters *cache.Cache
}

type windowCounter struct {
	start time.Time
	count int
}

// NewRateLimiter allows limit requests per window for each client IP.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limit:    limit,
		window:   window,
		now:      time.Now,
		counters: cache.New(window, 2*window),
	}
}

// Allow records a request from key and reports whether it is within the limit,
// together with the remaining allowance and the time the window resets.
func (l *RateLimiter) Allow(key string) (bool, int, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.counters.Get(key)
	wc, _ := c.(*windowCounter)
	if !ok || wc == nil || now.Sub(wc.start) >= l.window {
		wc = &windowCounter{start: now}
		l.counters.Set(key, wc, l.window)
	}

	reset := wc.start.Add(l.window)
	if wc.count >= l.limit {
		return false, 0, reset
	}
	wc.count++
	return true, l.limit - wc.count, reset
}

// Middleware rejects requests over the limit with 429.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, remaining, reset := l.Allow(clientIP(r))

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			retryAfter := int(reset.Sub(l.now()).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
			shared.RespondWithError(w, r, http.StatusTooManyRequests, RateLimitMessage)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP uses RemoteAddr, which chi's RealIP middleware has already
// rewritten from X-Forwarded-For / X-Real-IP when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
