// controllers/user_controller.go
package controllers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alhijra-ng/alhijra_backend/config"
	"github.com/alhijra-ng/alhijra_backend/middleware"
	"github.com/alhijra-ng/alhijra_backend/models"
	"github.com/alhijra-ng/alhijra_backend/repositories"
	"github.com/alhijra-ng/alhijra_backend/services"
	"github.com/alhijra-ng/alhijra_backend/utils"
	ws "github.com/alhijra-ng/alhijra_backend/websocket"
)

// UserController handles profile and onboarding endpoints
type UserController struct {
	db       *mongo.Client
	userRepo *repositories.UserRepository
	drafts   *services.DraftService
	hub      *ws.Hub
}

// NewUserController creates a new user controller
func NewUserController(db *mongo.Client, drafts *services.DraftService, hub *ws.Hub) *UserController {
	return &UserController{
		db:       db,
		userRepo: repositories.NewUserRepository(db),
		drafts:   drafts,
		hub:      hub,
	}
}

// GetProfile returns the authenticated user's profile
func (uc *UserController) GetProfile(c echo.Context) error {
	user, err := utils.GetUserFromToken(c, uc.db)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved",
		Data:    user,
	})
}

// UpdateProfile updates the mutable profile fields. Role is deliberately
// absent here; only the admin endpoint may change it.
func (uc *UserController) UpdateProfile(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.FullName != "" {
		set["fullName"] = req.FullName
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if req.PilgrimInfo != nil {
		set["pilgrimInfo"] = req.PilgrimInfo
	}
	if req.AgencyInfo != nil {
		set["agencyInfo"] = req.AgencyInfo
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(uc.db, "users")
	_, err = collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update profile",
		})
	}

	var user models.User
	if err := collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err == nil {
		user.Password = ""
		user.OTPInfo = nil
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Profile updated",
			Data:    user,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile updated",
	})
}

// UploadProfilePicture stores the uploaded image and generates a thumbnail
func (uc *UserController) UploadProfilePicture(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "No image file provided",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read image",
		})
	}
	defer src.Close()

	fileData, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read image",
		})
	}

	filename := fmt.Sprintf("profiles/%s_%s", userID.Hex(), file.Filename)
	path, err := utils.UploadFile(fileData, filename, "image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if _, err := utils.GenerateImageThumbnail(fileData, filename); err != nil {
		log.Printf("Failed to generate profile thumbnail: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := uc.userRepo.UpdateProfilePicture(ctx, userID, path); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save profile picture",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile picture updated",
		Data:    map[string]string{"profilePic": path},
	})
}

// UpdateFCMToken stores the device token for push notifications
func (uc *UserController) UpdateFCMToken(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var req struct {
		FCMToken string `json:"fcmToken" validate:"required"`
	}
	if err := c.Bind(&req); err != nil || req.FCMToken == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "fcmToken is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := uc.userRepo.UpdateFCMToken(ctx, userID, req.FCMToken); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update FCM token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "FCM token updated",
	})
}

// onboardingFlow maps the :role path param to a draft flow name
func onboardingFlow(role string) string {
	switch role {
	case models.RolePilgrim:
		return models.FlowPilgrimOnboarding
	case models.RoleAgency:
		return models.FlowAgencyOnboarding
	}
	return ""
}

// GetOnboardingDraft returns the caller's saved draft for the role's
// onboarding flow, creating a fresh step-1 draft if none exists
func (uc *UserController) GetOnboardingDraft(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	flow := onboardingFlow(c.Param("role"))
	if flow == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown onboarding role",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	draft, err := uc.drafts.GetOrCreate(ctx, userID.Hex(), flow)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load draft",
		})
	}

	return c.JSON(http.StatusOK, models.DraftResponse{
		Status:  http.StatusOK,
		Message: "Draft retrieved",
		Data:    draft,
	})
}

// SaveOnboardingDraft merges per-step fields into the draft
func (uc *UserController) SaveOnboardingDraft(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	flow := onboardingFlow(c.Param("role"))
	if flow == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown onboarding role",
		})
	}

	var req models.DraftUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	draft, err := uc.drafts.GetOrCreate(ctx, userID.Hex(), flow)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load draft",
		})
	}

	services.MergeFields(draft, req.Fields)

	if err := uc.drafts.Save(ctx, userID.Hex(), draft); err != nil {
		log.Printf("Failed to save draft for user %s: %v", userID.Hex(), err)
	}

	return c.JSON(http.StatusOK, models.DraftResponse{
		Status:  http.StatusOK,
		Message: "Draft saved",
		Data:    draft,
	})
}

// AdvanceOnboardingStep moves the draft forward or back one step. The
// direction comes from the :direction param ("next" or "prev") and the
// step is clamped, so repeated calls at either end are harmless.
func (uc *UserController) AdvanceOnboardingStep(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	flow := onboardingFlow(c.Param("role"))
	if flow == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown onboarding role",
		})
	}

	direction := c.Param("direction")
	if direction != "next" && direction != "prev" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Direction must be 'next' or 'prev'",
		})
	}

	// Step changes may carry the current step's fields
	var req models.DraftUpdateRequest
	if err := c.Bind(&req); err != nil {
		req.Fields = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	draft, err := uc.drafts.GetOrCreate(ctx, userID.Hex(), flow)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load draft",
		})
	}

	if len(req.Fields) > 0 {
		services.MergeFields(draft, req.Fields)
	}

	if direction == "next" {
		services.NextStep(draft)
	} else {
		services.PrevStep(draft)
	}

	if err := uc.drafts.Save(ctx, userID.Hex(), draft); err != nil {
		log.Printf("Failed to save draft for user %s: %v", userID.Hex(), err)
	}

	return c.JSON(http.StatusOK, models.DraftResponse{
		Status:  http.StatusOK,
		Message: "Draft updated",
		Data:    draft,
	})
}

// SubmitOnboarding validates the completed draft, persists the role
// profile, flips the onboarding flag and reissues the session so the
// route guard stops redirecting to onboarding.
func (uc *UserController) SubmitOnboarding(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	role := c.Param("role")
	flow := onboardingFlow(role)
	if flow == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown onboarding role",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	// A user who already onboarded as one role cannot re-onboard as another
	if user.Role != "" && user.Role != role {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is already registered as " + user.Role,
		})
	}

	var req models.DraftUpdateRequest
	if err := c.Bind(&req); err != nil {
		req.Fields = nil
	}

	draft, err := uc.drafts.GetOrCreate(ctx, userID.Hex(), flow)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load draft",
		})
	}
	if req.Fields != nil {
		services.MergeFields(draft, req.Fields)
	}

	if missing := services.ValidateSubmit(draft); len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing required fields",
			Data:    map[string]interface{}{"missingFields": missing},
		})
	}

	set := bson.M{"role": role}
	switch role {
	case models.RolePilgrim:
		set["pilgrimInfo"] = models.PilgrimInfo{
			PassportNumber:   draft.Fields["passportNumber"],
			Nationality:      draft.Fields["nationality"],
			DateOfBirth:      draft.Fields["dateOfBirth"],
			Gender:           draft.Fields["gender"],
			EmergencyContact: draft.Fields["emergencyContact"],
			EmergencyPhone:   draft.Fields["emergencyPhone"],
		}
	case models.RoleAgency:
		set["agencyInfo"] = models.AgencyInfo{
			AgencyName:    draft.Fields["agencyName"],
			LicenseNumber: draft.Fields["licenseNumber"],
			Address:       draft.Fields["address"],
			City:          draft.Fields["city"],
			Description:   draft.Fields["description"],
		}
	}

	if err := uc.userRepo.CompleteOnboarding(ctx, userID, set); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to complete onboarding",
		})
	}

	if err := uc.drafts.Delete(ctx, userID.Hex(), flow); err != nil {
		log.Printf("Failed to delete draft for user %s: %v", userID.Hex(), err)
	}

	// New tokens carry the role and completed flag so guards settle
	// without another round trip
	token, refreshToken, err := middleware.GenerateJWT(userID.Hex(), user.Email, role, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}
	if err := middleware.SetSessionCookie(c, userID.Hex(), user.Email, role, true); err != nil {
		log.Printf("Failed to set session cookie: %v", err)
	}

	utils.DispatchNotification(uc.db, uc.hub, userID, "Welcome to Al-Hijra",
		"Your "+role+" profile is ready.", models.NotificationTypeSystem, "")

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Onboarding completed",
		Data: map[string]interface{}{
			"token":         token,
			"refreshToken":  refreshToken,
			"role":          role,
			"dashboardRoot": models.DashboardRoot(role),
		},
	})
}
