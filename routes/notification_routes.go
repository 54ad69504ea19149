package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/alhijra-ng/alhijra_backend/controllers"
	"github.com/alhijra-ng/alhijra_backend/middleware"
)

// RegisterNotificationRoutes registers all notification-related routes
func RegisterNotificationRoutes(e *echo.Echo, notificationController *controllers.NotificationController) {
	notificationGroup := e.Group("/api/notifications")
	notificationGroup.Use(middleware.JWTMiddleware())

	notificationGroup.GET("", notificationController.GetNotifications)
	notificationGroup.GET("/unread-count", notificationController.GetUnreadCount)
	notificationGroup.PUT("/:id/read", notificationController.MarkAsRead)
	notificationGroup.PUT("/read-all", notificationController.MarkAllAsRead)
}
