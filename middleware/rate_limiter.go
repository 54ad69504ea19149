// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

// RateLimiter throttles per IP with tighter budgets on the auth endpoints
// and a wider one on the public catalog. Limiters are keyed by "ip|class"
// so each endpoint class gets its own budget per IP. An IP that exhausts a
// budget is blocked outright for blockDuration.
type RateLimiter struct {
	mu            sync.RWMutex
	ips           map[string]*rate.Limiter
	blockedIPs    map[string]time.Time
	defaultLimit  rate.Limit
	defaultBurst  int
	blockDuration time.Duration
	endpoints     map[string]endpointLimit
}

func NewRateLimiter() *RateLimiter {
	r := &RateLimiter{
		ips:           make(map[string]*rate.Limiter),
		blockedIPs:    make(map[string]time.Time),
		defaultLimit:  rate.Every(100 * time.Millisecond),
		defaultBurst:  20,
		blockDuration: 5 * time.Minute,
		endpoints: map[string]endpointLimit{
			// Credential endpoints get brute-force budgets
			"/api/auth/login":  {limit: rate.Every(2 * time.Second), burst: 5},
			"/api/auth/signup": {limit: rate.Every(500 * time.Millisecond), burst: 5},
			// Package browsing is the hot read path
			"/api/packages": {limit: rate.Every(50 * time.Millisecond), burst: 50},
		},
	}

	go r.sweepBlocked()
	return r
}

func (r *RateLimiter) sweepBlocked() {
	for {
		time.Sleep(1 * time.Hour)
		now := time.Now()
		r.mu.Lock()
		for ip, until := range r.blockedIPs {
			if now.After(until) {
				delete(r.blockedIPs, ip)
				r.dropLimitersLocked(ip)
			}
		}
		r.mu.Unlock()
	}
}

// RateLimit is the echo middleware entry point
func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Static uploads are not throttled
			if strings.HasPrefix(c.Request().URL.Path, "/uploads/") {
				return next(c)
			}

			ip := c.RealIP()

			r.mu.Lock()
			if until, blocked := r.blockedIPs[ip]; blocked {
				if time.Now().Before(until) {
					r.mu.Unlock()
					return c.JSON(http.StatusTooManyRequests, map[string]string{
						"message":    "IP address blocked due to too many requests",
						"retryAfter": until.Format(time.RFC3339),
					})
				}
				delete(r.blockedIPs, ip)
				r.dropLimitersLocked(ip)
			}
			r.mu.Unlock()

			// Key the limiter by endpoint class as well as IP, so warming
			// up a generous budget on one endpoint cannot stand in for a
			// tighter one elsewhere
			class := "default"
			lim := endpointLimit{limit: r.defaultLimit, burst: r.defaultBurst}
			if el, ok := r.endpoints[c.Path()]; ok {
				class = c.Path()
				lim = el
			}

			if !r.limiterFor(ip, class, lim).Allow() {
				until := time.Now().Add(r.blockDuration)
				r.mu.Lock()
				r.blockedIPs[ip] = until
				r.mu.Unlock()

				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"message":    "Too many requests",
					"retryAfter": until.Format(time.RFC3339),
				})
			}

			return next(c)
		}
	}
}

// dropLimitersLocked removes every endpoint-class limiter for an IP.
// Caller holds r.mu.
func (r *RateLimiter) dropLimitersLocked(ip string) {
	for key := range r.ips {
		if strings.HasPrefix(key, ip+"|") {
			delete(r.ips, key)
		}
	}
}

func (r *RateLimiter) limiterFor(ip, class string, lim endpointLimit) *rate.Limiter {
	key := ip + "|" + class

	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.ips[key]; ok {
		return l
	}
	l := rate.NewLimiter(lim.limit, lim.burst)
	r.ips[key] = l
	return l
}
