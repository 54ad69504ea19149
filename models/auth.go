// models/auth.go

package models

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
	Role     string `json:"role,omitempty"` // "pilgrim" or "agency"; empty until onboarding picks one
	Phone    string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// GoogleAuthRequest is the model for Google authentication
type GoogleAuthRequest struct {
	TokenID  string `json:"tokenId"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl"`
	GoogleID string `json:"googleId"`
}

// SessionState is what the client-side guard polls to settle auth state.
// Role may be empty for a signed-in user whose onboarding has not persisted
// a role yet; the client must treat that as pending, not as unauthenticated.
type SessionState struct {
	Authenticated       bool   `json:"authenticated"`
	UserID              string `json:"userId,omitempty"`
	Email               string `json:"email,omitempty"`
	Role                string `json:"role"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
}
