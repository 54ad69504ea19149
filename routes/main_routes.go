package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alhijra-ng/alhijra_backend/controllers"
	"github.com/alhijra-ng/alhijra_backend/services"
	"github.com/alhijra-ng/alhijra_backend/websocket"
)

// SetupRoutes configures all API routes by calling individual route
// registration functions
func SetupRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub, drafts *services.DraftService) {
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db, drafts, hub)
	packageController := controllers.NewPackageController(db, drafts)
	bookingController := controllers.NewBookingController(db, drafts, hub)
	paymentController := controllers.NewPaymentController(db, services.NewPaystackService(), hub)
	notificationController := controllers.NewNotificationController(db)
	adminController := controllers.NewAdminController(db, hub)
	emailController := controllers.NewEmailController()

	RegisterAuthRoutes(e, authController)
	RegisterUserRoutes(e, db, userController, hub)
	RegisterPackageRoutes(e, packageController)
	RegisterBookingRoutes(e, bookingController)
	RegisterPaymentRoutes(e, paymentController)
	RegisterNotificationRoutes(e, notificationController)
	RegisterAdminRoutes(e, adminController)
	RegisterEmailRoutes(e, emailController)
}
