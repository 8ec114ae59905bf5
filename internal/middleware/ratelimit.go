package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultMaxKeys    = 10000
	defaultSweepEvery = time.Minute
)

// RateLimiter manages per-key token buckets. A key whose bucket has refilled
// is indistinguishable from a new one, so it is dropped on the next sweep.
type RateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*keyLimiter
	maxKeys    int
	sweepEvery time.Duration
	lastSweep  time.Time
	now        func() time.Time
}

// keyLimiter handles rate limiting for a specific key
type keyLimiter struct {
	limiter  *rate.Limiter
	limit    int
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiters:   make(map[string]*keyLimiter),
		maxKeys:    defaultMaxKeys,
		sweepEvery: defaultSweepEvery,
		now:        time.Now,
	}
}

// Allow reports whether key may make another request now, consuming a token if so
func (rl *RateLimiter) Allow(key string, requestsPerMinute int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.sweepEvery || len(rl.limiters) >= rl.maxKeys {
		rl.sweep(now)
	}

	kl, ok := rl.limiters[key]
	if !ok || kl.limit != requestsPerMinute {
		if !ok && len(rl.limiters) >= rl.maxKeys {
			rl.evictOldest()
		}
		kl = &keyLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute),
			limit:   requestsPerMinute,
		}
		rl.limiters[key] = kl
	}
	kl.lastSeen = now

	return kl.limiter.AllowN(now, 1)
}

// Len returns the number of keys currently tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// sweep drops keys whose buckets are full again. Callers hold rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, kl := range rl.limiters {
		if kl.limiter.TokensAt(now) >= float64(kl.limiter.Burst()) {
			delete(rl.limiters, key)
		}
	}
	rl.lastSweep = now
}

// evictOldest drops the least recently seen key. Callers hold rl.mu.
func (rl *RateLimiter) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, kl := range rl.limiters {
		if oldestKey == "" || kl.lastSeen.Before(oldest) {
			oldestKey, oldest = key, kl.lastSeen
		}
	}
	delete(rl.limiters, oldestKey)
}

// RateLimit limits requests per key. A zero limit disables limiting.
// onLimited writes the rejection; nil means a plain 429.
func RateLimit(rl *RateLimiter, requestsPerMinute int, key func(*http.Request) string, onLimited http.HandlerFunc) Middleware {
	return func(next http.Handler) http.Handler {
		if requestsPerMinute <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(key(r), requestsPerMinute) {
				w.Header().Set("Retry-After", strconv.Itoa(int((time.Minute/time.Duration(requestsPerMinute)).Seconds())+1))
				if onLimited != nil {
					onLimited(w, r)
					return
				}
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
