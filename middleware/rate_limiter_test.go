package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func echoWithLimiter(rl *RateLimiter) *echo.Echo {
	e := echo.New()
	e.Use(rl.RateLimit())
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/api/packages", ok)
	e.POST("/api/auth/login", ok)
	return e
}

// Warming up the generous catalog budget must not substitute for the
// tighter login budget: each endpoint class keeps its own limiter per IP.
func TestLimiterPerEndpointClass(t *testing.T) {
	rl := NewRateLimiter()

	pkgLim := rl.endpoints["/api/packages"]
	loginLim := rl.endpoints["/api/auth/login"]

	catalog := rl.limiterFor("203.0.113.7", "/api/packages", pkgLim)
	login := rl.limiterFor("203.0.113.7", "/api/auth/login", loginLim)

	if catalog == login {
		t.Fatal("catalog and login must not share a limiter")
	}
	if got := login.Burst(); got != loginLim.burst {
		t.Errorf("login burst = %d, want %d", got, loginLim.burst)
	}
	if got := catalog.Burst(); got != pkgLim.burst {
		t.Errorf("catalog burst = %d, want %d", got, pkgLim.burst)
	}

	// Same class on the same IP reuses the existing limiter
	if again := rl.limiterFor("203.0.113.7", "/api/auth/login", loginLim); again != login {
		t.Error("repeat lookup should return the same limiter")
	}

	// A different IP gets its own
	if other := rl.limiterFor("203.0.113.8", "/api/auth/login", loginLim); other == login {
		t.Error("distinct IPs must not share a limiter")
	}
}

func TestLoginBudgetUnaffectedByCatalogTraffic(t *testing.T) {
	rl := NewRateLimiter()

	e := echoWithLimiter(rl)

	// Drain most of the catalog burst first
	for i := 0; i < 40; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/packages", nil)
		req.Header.Set("X-Real-Ip", "198.51.100.9")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("catalog request %d: status %d", i, rec.Code)
		}
	}

	// The login burst of 5 must still hold exactly
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("X-Real-Ip", "198.51.100.9")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("login request %d: status %d", i, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("X-Real-Ip", "198.51.100.9")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("sixth login: status %d, want 429", rec.Code)
	}
}
