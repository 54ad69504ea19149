// middleware/route_guard.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/alhijra-ng/alhijra_backend/models"
)

// The route guard intercepts navigable requests and redirects based on a
// fixed policy table over (path category, role, onboarding completion).
// Conditions are evaluated in order and the first match wins:
//
//  1. unauthenticated on a private path        -> /login
//  2. authenticated on a public-only path      -> own dashboard root
//  3. onboarding incomplete on a dashboard path -> own onboarding root
//  4. role/path mismatch on a dashboard path    -> own dashboard root
//     (unrecognized role -> /login)
//  5. otherwise pass through
//
// Exception: a session that verifies but carries no role yet (sign-in has
// happened, onboarding has not persisted a role) is passed through rather
// than bounced to /login. The client-side session check settles it once the
// role lands; redirecting here would loop users out of onboarding.

const (
	pathLogin    = "/login"
	pathRegister = "/register"
)

// GuardSession is the guard's view of the caller, derived from the signed
// session cookie
type GuardSession struct {
	Authenticated       bool
	Role                string
	OnboardingCompleted bool
}

// Decide returns the redirect target for a navigation, or "" to pass
// through. It is a pure function of the path and session state.
func Decide(path string, session GuardSession) string {
	publicOnly := path == pathLogin || path == pathRegister ||
		strings.HasPrefix(path, pathLogin+"/") || strings.HasPrefix(path, pathRegister+"/")
	dashboard := strings.HasPrefix(path, "/dashboard")
	onboarding := strings.HasPrefix(path, "/onboarding")
	private := dashboard || onboarding

	// 1. Unauthenticated callers may only see public pages
	if !session.Authenticated {
		if private {
			return pathLogin
		}
		return ""
	}

	// Roleless-but-authenticated sessions pass through everywhere (see the
	// exception above)
	if session.Role == "" {
		return ""
	}

	ownDashboard := models.DashboardRoot(session.Role)
	ownOnboarding := models.OnboardingRoot(session.Role)

	// 2. Signed-in users have no business on login/register
	if publicOnly {
		if ownDashboard == "" {
			return pathLogin
		}
		return ownDashboard
	}

	// 3. Dashboard access requires completed onboarding
	if dashboard && !session.OnboardingCompleted {
		if ownOnboarding == "" {
			return pathLogin
		}
		return ownOnboarding
	}

	// 4. Role must match the dashboard or onboarding section being visited
	if dashboard && !pathMatchesRole(path, "/dashboard/", session.Role) {
		if ownDashboard == "" {
			return pathLogin
		}
		return ownDashboard
	}
	if onboarding && !pathMatchesRole(path, "/onboarding/", session.Role) {
		if ownOnboarding == "" {
			return pathLogin
		}
		return ownOnboarding
	}

	// 5. Pass through
	return ""
}

// pathMatchesRole reports whether a sectioned path belongs to the role.
// The bare section root ("/dashboard") matches any role; the role-specific
// subtree must match exactly.
func pathMatchesRole(path, prefix, role string) bool {
	rest := strings.TrimPrefix(path, strings.TrimSuffix(prefix, "/"))
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		return true
	}
	section := rest
	if idx := strings.Index(rest, "/"); idx >= 0 {
		section = rest[:idx]
	}
	return section == role
}

// RouteGuard applies the policy table to navigable GET requests. API,
// upload and websocket paths are never redirected.
func RouteGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			if req.Method != http.MethodGet ||
				strings.HasPrefix(path, "/api") ||
				strings.HasPrefix(path, "/uploads") ||
				strings.HasPrefix(path, "/ws") {
				return next(c)
			}

			session := GuardSession{}
			if claims := ParseSessionCookie(c); claims != nil {
				session.Authenticated = true
				session.Role = claims.Role
				session.OnboardingCompleted = claims.OnboardingCompleted
			}

			if target := Decide(path, session); target != "" && target != path {
				return c.Redirect(http.StatusFound, target)
			}

			return next(c)
		}
	}
}
