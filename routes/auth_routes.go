package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/alhijra-ng/alhijra_backend/controllers"
)

// RegisterAuthRoutes sets up all authentication routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController) {
	// Public authentication routes
	e.POST("/api/auth/signup", authController.Signup)
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/logout", authController.Logout)
	e.POST("/api/auth/refresh-token", authController.RefreshToken)
	e.POST("/api/auth/verify-otp", authController.VerifyOTP)
	e.POST("/api/auth/resend-otp", authController.ResendOTP)
	e.POST("/api/auth/google", authController.GoogleAuth)
	e.POST("/api/auth/forgot-password", authController.ForgotPassword)
	e.POST("/api/auth/reset-password", authController.ResetPassword)
	e.POST("/api/auth/remember-me/get", authController.GetRememberedCredentials)
	e.POST("/api/auth/remember-me/remove", authController.RemoveRememberedCredentials)
	e.GET("/api/auth/validate-token", authController.ValidateToken)

	// Session resolution for client-side guards. Public on purpose: an
	// unauthenticated caller gets {authenticated:false}, not a 401.
	e.GET("/api/auth/session", authController.GetSession)
}
