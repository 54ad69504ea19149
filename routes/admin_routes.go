package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/alhijra-ng/alhijra_backend/controllers"
	"github.com/alhijra-ng/alhijra_backend/middleware"
	"github.com/alhijra-ng/alhijra_backend/models"
)

// RegisterAdminRoutes sets up the admin dashboard routes
func RegisterAdminRoutes(e *echo.Echo, adminController *controllers.AdminController) {
	adminGroup := e.Group("/api/admin")
	adminGroup.Use(middleware.JWTMiddleware())
	adminGroup.Use(middleware.RequireRole(models.RoleAdmin))

	adminGroup.GET("/stats", adminController.GetStats)
	adminGroup.GET("/users", adminController.ListUsers)
	adminGroup.GET("/bookings", adminController.ListBookings)
	adminGroup.PUT("/users/:id/role", adminController.UpdateUserRole)
	adminGroup.PUT("/users/:id/active", adminController.SetUserActive)
}
