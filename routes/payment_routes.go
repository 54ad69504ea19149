package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/alhijra-ng/alhijra_backend/controllers"
	"github.com/alhijra-ng/alhijra_backend/middleware"
	"github.com/alhijra-ng/alhijra_backend/models"
)

// RegisterPaymentRoutes sets up the Paystack payment routes
func RegisterPaymentRoutes(e *echo.Echo, paymentController *controllers.PaymentController) {
	paymentGroup := e.Group("/api/payments")
	paymentGroup.Use(middleware.JWTMiddleware())

	paymentGroup.POST("/initialize", paymentController.InitializePayment, middleware.RequireRole(models.RolePilgrim))
	paymentGroup.GET("/verify/:reference", paymentController.VerifyPayment)
	paymentGroup.GET("/status/:id", paymentController.GetPaymentStatus)

	// Webhook is authenticated by signature, not by session
	e.POST("/api/payments/webhook", paymentController.HandleWebhook)
}
