package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// CleanupInterval is how often idle buckets are swept
	CleanupInterval = 5 * time.Minute
	// LimiterTTL is how long a bucket survives without traffic
	LimiterTTL = 10 * time.Minute
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps a token bucket per client key. Buckets refill at
// perMinute/60 tokens per second and hold at most burst tokens.
type RateLimiter struct {
	perMinute int
	burst     int
	now       func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(perMinute, burst int) *RateLimiter {
	rl := &RateLimiter{
		perMinute: perMinute,
		burst:     burst,
		now:       time.Now,
		buckets:   make(map[string]*bucket),
		stop:      make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// decision is the outcome of one request against a bucket
type decision struct {
	allowed    bool
	remaining  int
	retryAfter time.Duration
	resetAt    time.Time
}

func (r *RateLimiter) take(key string) decision {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	b, ok := r.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(float64(r.perMinute)/60), r.burst)}
		r.buckets[key] = b
	}
	b.lastSeen = now

	d := decision{allowed: b.limiter.AllowN(now, 1)}
	tokens := b.limiter.TokensAt(now)
	d.remaining = int(math.Max(0, math.Floor(tokens)))

	perToken := time.Duration(float64(time.Minute) / float64(r.perMinute))
	d.resetAt = now.Add(time.Duration((float64(r.burst) - tokens) * float64(perToken)))
	if !d.allowed {
		d.retryAfter = time.Duration((1 - tokens) * float64(perToken))
	}
	return d
}

// Allow consumes a token for key and reports whether the request may proceed
func (r *RateLimiter) Allow(key string) bool {
	return r.take(key).allowed
}

func (r *RateLimiter) sweep() {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.removeStale(r.now())
		case <-r.stop:
			return
		}
	}
}

func (r *RateLimiter) removeStale(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, b := range r.buckets {
		if now.Sub(b.lastSeen) > LimiterTTL {
			delete(r.buckets, key)
		}
	}
}

// Stop ends the sweeper. It is safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// RateLimitMiddleware limits requests per client IP and reports the bucket
// state in X-RateLimit-* headers on every response. X-RateLimit-Limit is the
// bucket capacity, the number of requests a fresh client may send back to back.
func RateLimitMiddleware(rl *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			d := rl.take(key)

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(d.resetAt.Unix(), 10))

			if d.allowed {
				return next(c)
			}

			seconds := int(math.Ceil(d.retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			h.Set("Retry-After", strconv.Itoa(seconds))

			log.Warn().Str("client", key).Str("path", c.Request().URL.Path).Int("retry_after", seconds).Msg("Rate limit exceeded")
			return writeProblem(c, http.StatusTooManyRequests, errorTypeRateLimit,
				fmt.Sprintf("Too many requests, retry in %d seconds", seconds))
		}
	}
}
