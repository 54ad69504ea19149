package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/alhijra-ng/alhijra_backend/controllers"
	"github.com/alhijra-ng/alhijra_backend/middleware"
	"github.com/alhijra-ng/alhijra_backend/models"
)

// RegisterPackageRoutes sets up the package catalog routes
func RegisterPackageRoutes(e *echo.Echo, packageController *controllers.PackageController) {
	// Public catalog
	e.GET("/api/packages", packageController.ListPackages)
	e.GET("/api/packages/:id", packageController.GetPackage)

	// Agency-only management
	agencyGroup := e.Group("/api/agency/packages")
	agencyGroup.Use(middleware.JWTMiddleware())
	agencyGroup.Use(middleware.RequireRole(models.RoleAgency))
	agencyGroup.Use(middleware.RequireOnboarding())

	agencyGroup.GET("", packageController.GetMyPackages)
	agencyGroup.POST("", packageController.CreatePackage)
	agencyGroup.PUT("/:id", packageController.UpdatePackage)
	agencyGroup.DELETE("/:id", packageController.DeletePackage)
	agencyGroup.GET("/draft", packageController.GetCreationDraft)
	agencyGroup.PUT("/draft", packageController.SaveCreationDraft)
}
