package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, refreshToken, err := GenerateJWT("64f0c2a1b2c3d4e5f6a7b8c9", "pilgrim@example.com", "pilgrim", true)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if token == "" || refreshToken == "" {
		t.Fatal("expected non-empty token pair")
	}

	claims := ParseToken(token)
	if claims == nil {
		t.Fatal("ParseToken returned nil for a fresh token")
	}
	if claims.UserID != "64f0c2a1b2c3d4e5f6a7b8c9" {
		t.Errorf("userId = %q", claims.UserID)
	}
	if claims.Role != "pilgrim" {
		t.Errorf("role = %q", claims.Role)
	}
	if !claims.OnboardingCompleted {
		t.Error("onboardingCompleted should be true")
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, _, err := GenerateJWT("id", "a@b.c", "agency", false)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	t.Setenv("JWT_SECRET", "secret-b")
	if claims := ParseToken(token); claims != nil {
		t.Error("token signed with a different secret should not parse")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	if claims := ParseToken("not.a.token"); claims != nil {
		t.Error("garbage should not parse")
	}
	if claims := ParseToken(""); claims != nil {
		t.Error("empty string should not parse")
	}
}

func TestSessionCookieRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENV", "development")

	e := echo.New()

	// Set the cookie on one response
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := SetSessionCookie(c, "user-1", "agency@example.com", "agency", false); err != nil {
		t.Fatalf("SetSessionCookie: %v", err)
	}

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookieName {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil {
		t.Fatal("session cookie not set")
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	// Read it back on a subsequent request
	req2 := httptest.NewRequest(http.MethodGet, "/dashboard/agency", nil)
	req2.AddCookie(sessionCookie)
	c2 := e.NewContext(req2, httptest.NewRecorder())

	claims := ParseSessionCookie(c2)
	if claims == nil {
		t.Fatal("ParseSessionCookie returned nil")
	}
	if claims.Role != "agency" {
		t.Errorf("role = %q", claims.Role)
	}
	if claims.OnboardingCompleted {
		t.Error("onboardingCompleted should be false")
	}
}

func TestTokenBlacklist(t *testing.T) {
	token := "some-token-value"
	if IsTokenBlacklisted(token) {
		t.Fatal("token should not start blacklisted")
	}

	BlacklistToken(token, time.Now().Add(time.Hour))
	if !IsTokenBlacklisted(token) {
		t.Error("token should be blacklisted after BlacklistToken")
	}
}

// Logout handlers write the blacklist while every authenticated request
// reads it and the cleanup goroutine sweeps it; run all three at once so
// the race detector can catch unsynchronized map access.
func TestTokenBlacklistConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	expiry := time.Now().Add(time.Hour)

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				BlacklistToken(fmt.Sprintf("token-%d-%d", n, j), expiry)
			}
		}(i)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				IsTokenBlacklisted(fmt.Sprintf("token-%d-%d", n, j))
			}
		}(i)
	}

	wg.Wait()

	if !IsTokenBlacklisted("token-0-0") {
		t.Error("token-0-0 should be blacklisted")
	}
}

func TestRouteGuardRedirects(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	e.Use(RouteGuard())
	e.GET("/*", func(c echo.Context) error { return c.String(http.StatusOK, "page") })

	// Unauthenticated dashboard navigation bounces to /login
	req := httptest.NewRequest(http.MethodGet, "/dashboard/pilgrim", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}

	// API paths are never guarded
	req = httptest.NewRequest(http.MethodGet, "/api/packages", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("API path status = %d, want 200", rec.Code)
	}

	// A signed session cookie steers navigation by role
	token, _, err := GenerateJWT("user-1", "p@example.com", "pilgrim", true)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/dashboard/agency", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard/pilgrim" {
		t.Errorf("Location = %q, want /dashboard/pilgrim", loc)
	}
}
