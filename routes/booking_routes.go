package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/alhijra-ng/alhijra_backend/controllers"
	"github.com/alhijra-ng/alhijra_backend/middleware"
	"github.com/alhijra-ng/alhijra_backend/models"
)

// RegisterBookingRoutes sets up the booking lifecycle routes
func RegisterBookingRoutes(e *echo.Echo, bookingController *controllers.BookingController) {
	bookingGroup := e.Group("/api/bookings")
	bookingGroup.Use(middleware.JWTMiddleware())

	// Pilgrim actions
	pilgrimGroup := bookingGroup.Group("")
	pilgrimGroup.Use(middleware.RequireRole(models.RolePilgrim))
	pilgrimGroup.Use(middleware.RequireOnboarding())
	pilgrimGroup.POST("", bookingController.CreateBooking)
	pilgrimGroup.GET("", bookingController.GetMyBookings)
	pilgrimGroup.GET("/draft", bookingController.GetRequestDraft)
	pilgrimGroup.PUT("/draft", bookingController.SaveRequestDraft)

	// Shared by pilgrim, agency and admin; the handler checks access
	bookingGroup.GET("/:id", bookingController.GetBooking)
	bookingGroup.POST("/:id/cancel", bookingController.CancelBooking)
	bookingGroup.GET("/:id/confirmation", bookingController.GetConfirmationQR)

	// Agency actions
	agencyGroup := e.Group("/api/agency/bookings")
	agencyGroup.Use(middleware.JWTMiddleware())
	agencyGroup.Use(middleware.RequireRole(models.RoleAgency))
	agencyGroup.GET("", bookingController.GetAgencyBookings)
	agencyGroup.POST("/:id/confirm", bookingController.ConfirmBooking)
}
