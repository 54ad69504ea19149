// controllers/auth_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/alhijra-ng/alhijra_backend/config"
	"github.com/alhijra-ng/alhijra_backend/middleware"
	"github.com/alhijra-ng/alhijra_backend/models"
	"github.com/alhijra-ng/alhijra_backend/services"
	"github.com/alhijra-ng/alhijra_backend/utils"
)

// AuthController handles authentication endpoints
type AuthController struct {
	db            *mongo.Client
	googleAuthSvc *services.GoogleAuthService
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client) *AuthController {
	return &AuthController{
		db:            db,
		googleAuthSvc: services.NewGoogleAuthService(db),
	}
}

// Signup registers a new user. The role may be chosen at signup ("pilgrim"
// or "agency") or left empty and assigned during onboarding; "admin" can
// never be self-assigned.
func (ac *AuthController) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	if req.Role != "" && req.Role != models.RolePilgrim && req.Role != models.RoleAgency {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Role must be 'pilgrim' or 'agency'",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.db, "users")

	// Reject duplicate email
	count, err := collection.CountDocuments(ctx, bson.M{"email": strings.ToLower(req.Email)})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Email already registered",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	otp, err := utils.GenerateSecureOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate verification code",
		})
	}

	now := time.Now()
	user := models.User{
		ID:                  primitive.NewObjectID(),
		Email:               strings.ToLower(req.Email),
		Password:            string(hashedPassword),
		FullName:            req.FullName,
		Phone:               req.Phone,
		Role:                req.Role,
		OnboardingCompleted: false,
		IsActive:            true,
		EmailVerified:       false,
		OTPInfo: &models.OTPInfo{
			OTP:       otp,
			ExpiresAt: now.Add(10 * time.Minute),
		},
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := collection.InsertOne(ctx, user); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create user",
		})
	}

	// Verification email is best effort
	if err := utils.SendOTPEmail(user.Email, otp); err != nil {
		log.Printf("Failed to send OTP email to %s: %v", user.Email, err)
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	// Mirror role/onboarding into the session cookie for the route guard
	if err := middleware.SetSessionCookie(c, user.ID.Hex(), user.Email, user.Role, false); err != nil {
		log.Printf("Failed to set session cookie: %v", err)
	}

	user.Password = ""
	user.OTPInfo = nil

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Signup successful. Please verify your email.",
		Data: map[string]interface{}{
			"token":        token,
			"refreshToken": refreshToken,
			"user":         user,
		},
	})
}

// Login authenticates a user with email and password
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.db, "users")

	var user models.User
	err := collection.FindOne(ctx, bson.M{"email": strings.ToLower(req.Email)}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if !user.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is deactivated",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role, user.OnboardingCompleted)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	if err := middleware.SetSessionCookie(c, user.ID.Hex(), user.Email, user.Role, user.OnboardingCompleted); err != nil {
		log.Printf("Failed to set session cookie: %v", err)
	}

	responseData := map[string]interface{}{
		"token":        token,
		"refreshToken": refreshToken,
	}

	// Remember me stores encrypted credentials in Redis
	if req.RememberMe {
		rememberToken, err := utils.GenerateRememberMeToken()
		if err == nil {
			err = utils.StoreRememberedCredentials(config.GetRedisClient(), rememberToken, utils.RememberedCredentials{
				Email:     user.Email,
				Role:      user.Role,
				UserID:    user.ID.Hex(),
				ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
			}, 30*24*time.Hour)
		}
		if err != nil {
			log.Printf("Failed to store remember me token: %v", err)
		} else {
			responseData["rememberMeToken"] = rememberToken
		}
	}

	// Update last activity in background
	go func() {
		bgCtx, bgCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer bgCancel()
		collection.UpdateOne(bgCtx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
			"lastActivityAt": time.Now(),
		}})
	}()

	user.Password = ""
	user.OTPInfo = nil
	responseData["user"] = user

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    responseData,
	})
}

// Logout blacklists the current token and clears the session cookie
func (ac *AuthController) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		middleware.BlacklistToken(tokenString, time.Now().Add(24*time.Hour))
	}

	middleware.ClearSessionCookie(c)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}

// GetSession resolves the caller's session for client-side guards. Note
// that an authenticated session with an empty role is a valid "pending"
// state (onboarding has not persisted a role yet), not an error.
func (ac *AuthController) GetSession(c echo.Context) error {
	claims := middleware.ParseSessionCookie(c)
	if claims == nil {
		// Fall back to the Authorization header for API clients
		authHeader := c.Request().Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			claims = middleware.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		}
	}

	if claims == nil {
		return c.JSON(http.StatusOK, models.SessionState{Authenticated: false})
	}

	return c.JSON(http.StatusOK, models.SessionState{
		Authenticated:       true,
		UserID:              claims.UserID,
		Email:               claims.Email,
		Role:                claims.Role,
		OnboardingCompleted: claims.OnboardingCompleted,
	})
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (ac *AuthController) RefreshToken(c echo.Context) error {
	var req models.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	claims := middleware.ParseToken(req.RefreshToken)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired refresh token",
		})
	}

	// Re-read the user so role and onboarding changes propagate into the
	// new tokens
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = config.GetCollection(ac.db, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "User not found",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role, user.OnboardingCompleted)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	if err := middleware.SetSessionCookie(c, user.ID.Hex(), user.Email, user.Role, user.OnboardingCompleted); err != nil {
		log.Printf("Failed to set session cookie: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token refreshed",
		Data: map[string]interface{}{
			"token":        token,
			"refreshToken": refreshToken,
		},
	})
}

// VerifyOTP confirms the email verification code sent at signup
func (ac *AuthController) VerifyOTP(c echo.Context) error {
	var req models.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.db, "users")

	var user models.User
	err := collection.FindOne(ctx, bson.M{"email": strings.ToLower(req.Email)}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	if err := utils.ValidateOTPAttempts(user.ID.Hex(), config.GetRedisClient()); err != nil {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: err.Error(),
		})
	}

	if user.OTPInfo == nil || user.OTPInfo.OTP != req.OTP {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid verification code",
		})
	}

	if time.Now().After(user.OTPInfo.ExpiresAt) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Verification code has expired",
		})
	}

	_, err = collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set":   bson.M{"emailVerified": true, "updatedAt": time.Now()},
		"$unset": bson.M{"otpInfo": ""},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to verify email",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Email verified successfully",
	})
}

// ResendOTP generates and emails a fresh verification code
func (ac *AuthController) ResendOTP(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.db, "users")

	var user models.User
	err := collection.FindOne(ctx, bson.M{"email": strings.ToLower(req.Email)}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	if user.EmailVerified {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email is already verified",
		})
	}

	otp, err := utils.GenerateSecureOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate verification code",
		})
	}

	_, err = collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"otpInfo":   models.OTPInfo{OTP: otp, ExpiresAt: time.Now().Add(10 * time.Minute)},
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update verification code",
		})
	}

	if err := utils.SendOTPEmail(user.Email, otp); err != nil {
		log.Printf("Failed to send OTP email to %s: %v", user.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send verification email",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Verification code sent",
	})
}

// GoogleAuth handles Google sign-in
func (ac *AuthController) GoogleAuth(c echo.Context) error {
	var req models.GoogleAuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	data, err := ac.googleAuthSvc.AuthenticateUser(&req)
	if err != nil {
		log.Printf("Google auth failed: %v", err)
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Google authentication failed",
		})
	}

	if user, ok := data["user"].(models.User); ok {
		if err := middleware.SetSessionCookie(c, user.ID.Hex(), user.Email, user.Role, user.OnboardingCompleted); err != nil {
			log.Printf("Failed to set session cookie: %v", err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    data,
	})
}

// ForgotPassword issues a reset token and emails it to the user
func (ac *AuthController) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.db, "users")

	var user models.User
	err := collection.FindOne(ctx, bson.M{"email": strings.ToLower(req.Email)}).Decode(&user)
	if err != nil {
		// Don't reveal whether the email exists
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "If the email is registered, a reset link has been sent",
		})
	}

	resetToken := uuid.New().String()
	_, err = collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"resetPasswordToken":  resetToken,
		"resetTokenExpiresAt": time.Now().Add(1 * time.Hour),
		"updatedAt":           time.Now(),
	}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create reset token",
		})
	}

	body := "You requested a password reset.\n\nYour reset token is: " + resetToken + "\n\nThis token expires in 1 hour."
	if err := utils.SendEmail(user.Email, "Password Reset", body, ""); err != nil {
		log.Printf("Failed to send reset email to %s: %v", user.Email, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "If the email is registered, a reset link has been sent",
	})
}

// ResetPassword sets a new password against a valid reset token
func (ac *AuthController) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.db, "users")

	var user models.User
	err := collection.FindOne(ctx, bson.M{
		"resetPasswordToken":  req.Token,
		"resetTokenExpiresAt": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid or expired reset token",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	_, err = collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set":   bson.M{"password": string(hashedPassword), "updatedAt": time.Now()},
		"$unset": bson.M{"resetPasswordToken": "", "resetTokenExpiresAt": ""},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reset password",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset successfully",
	})
}

// GetRememberedCredentials resolves a remember-me token into a fresh
// session, so returning users skip the login form
func (ac *AuthController) GetRememberedCredentials(c echo.Context) error {
	var req struct {
		Token string `json:"token" validate:"required"`
	}
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Token is required",
		})
	}

	creds, err := utils.RetrieveRememberedCredentials(config.GetRedisClient(), req.Token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired remember me token",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(creds.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid remembered credentials",
		})
	}

	var user models.User
	err = config.GetCollection(ac.db, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil || !user.IsActive {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Account not available",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role, user.OnboardingCompleted)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	if err := middleware.SetSessionCookie(c, user.ID.Hex(), user.Email, user.Role, user.OnboardingCompleted); err != nil {
		log.Printf("Failed to set session cookie: %v", err)
	}

	user.Password = ""
	user.OTPInfo = nil

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token":        token,
			"refreshToken": refreshToken,
			"user":         user,
		},
	})
}

// RemoveRememberedCredentials invalidates a remember-me token
func (ac *AuthController) RemoveRememberedCredentials(c echo.Context) error {
	var req struct {
		Token string `json:"token" validate:"required"`
	}
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Token is required",
		})
	}

	if err := utils.RemoveRememberedCredentials(config.GetRedisClient(), req.Token); err != nil {
		log.Printf("Failed to remove remember me token: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Remembered credentials removed",
	})
}

// ValidateToken lets clients check whether a bearer token is still valid
func (ac *AuthController) ValidateToken(c echo.Context) error {
	tokenString := strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
	resp, err := utils.ValidateToken(tokenString, ac.db)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to validate token",
		})
	}

	return c.JSON(http.StatusOK, resp)
}
