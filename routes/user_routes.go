package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alhijra-ng/alhijra_backend/controllers"
	"github.com/alhijra-ng/alhijra_backend/middleware"
	"github.com/alhijra-ng/alhijra_backend/models"
	"github.com/alhijra-ng/alhijra_backend/utils"
	ws "github.com/alhijra-ng/alhijra_backend/websocket"
)

// RegisterUserRoutes sets up profile, onboarding and websocket routes
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client, userController *controllers.UserController, hub *ws.Hub) {
	userGroup := e.Group("/api/users")
	userGroup.Use(middleware.JWTMiddleware())

	userGroup.GET("/profile", userController.GetProfile)
	userGroup.PUT("/profile", userController.UpdateProfile)
	userGroup.POST("/profile/picture", userController.UploadProfilePicture)
	userGroup.POST("/fcm-token", userController.UpdateFCMToken)

	// Onboarding drafts. Any authenticated user may run onboarding; the
	// submit handler enforces that a role can't be switched after the fact.
	onboardingGroup := e.Group("/api/onboarding")
	onboardingGroup.Use(middleware.JWTMiddleware())

	onboardingGroup.GET("/:role/draft", userController.GetOnboardingDraft)
	onboardingGroup.PUT("/:role/draft", userController.SaveOnboardingDraft)
	onboardingGroup.POST("/:role/step/:direction", userController.AdvanceOnboardingStep)
	onboardingGroup.POST("/:role/submit", userController.SubmitOnboarding)

	// WebSocket endpoint for live notifications
	e.GET("/ws", func(c echo.Context) error {
		userID, err := utils.GetUserIDFromToken(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Unauthorized",
			})
		}
		return ws.HandleWebSocket(c, hub, userID)
	}, middleware.JWTMiddleware())
}
