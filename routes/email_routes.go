package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/alhijra-ng/alhijra_backend/controllers"
	"github.com/alhijra-ng/alhijra_backend/middleware"
)

// RegisterEmailRoutes sets up the transactional email routes
func RegisterEmailRoutes(e *echo.Echo, emailController *controllers.EmailController) {
	emailGroup := e.Group("/api")
	emailGroup.Use(middleware.JWTMiddleware())

	emailGroup.POST("/send-confirmation", emailController.SendConfirmation)
	emailGroup.POST("/confirm-booking", emailController.SendConfirmation)
	emailGroup.POST("/send-payment-success", emailController.SendPaymentSuccess)
}
