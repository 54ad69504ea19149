// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RolePilgrim = "pilgrim"
	RoleAgency  = "agency"
	RoleAdmin   = "admin"
)

// User model
type User struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email               string             `json:"email" bson:"email"`
	Password            string             `json:"password,omitempty" bson:"password"`
	FullName            string             `json:"fullName" bson:"fullName"`
	Phone               string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Role                string             `json:"role" bson:"role"` // "pilgrim", "agency", "admin" or "" until onboarding assigns one
	OnboardingCompleted bool               `json:"onboardingCompleted" bson:"onboardingCompleted"`
	IsActive            bool               `json:"isActive" bson:"isActive"`
	EmailVerified       bool               `json:"emailVerified" bson:"emailVerified"`
	OTPInfo             *OTPInfo           `json:"otpInfo,omitempty" bson:"otpInfo,omitempty"`
	PilgrimInfo         *PilgrimInfo       `json:"pilgrimInfo,omitempty" bson:"pilgrimInfo,omitempty"`
	AgencyInfo          *AgencyInfo        `json:"agencyInfo,omitempty" bson:"agencyInfo,omitempty"`
	AdminInfo           *AdminInfo         `json:"adminInfo,omitempty" bson:"adminInfo,omitempty"`
	ProfilePic          string             `json:"profilePic,omitempty" bson:"profilePic,omitempty"`
	GoogleID            string             `json:"googleId,omitempty" bson:"googleId,omitempty"`
	FCMToken            string             `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	ResetPasswordToken  string             `json:"resetPasswordToken,omitempty" bson:"resetPasswordToken,omitempty"`
	ResetTokenExpiresAt time.Time          `json:"resetTokenExpiresAt,omitempty" bson:"resetTokenExpiresAt,omitempty"`
	LastActivityAt      time.Time          `json:"lastActivityAt" bson:"lastActivityAt"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type OTPInfo struct {
	OTP       string    `json:"otp" bson:"otp"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
}

// PilgrimInfo holds the profile fields collected during pilgrim onboarding
type PilgrimInfo struct {
	PassportNumber   string `json:"passportNumber" bson:"passportNumber"`
	Nationality      string `json:"nationality" bson:"nationality"`
	DateOfBirth      string `json:"dateOfBirth" bson:"dateOfBirth"`
	Gender           string `json:"gender,omitempty" bson:"gender,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty" bson:"emergencyContact,omitempty"`
	EmergencyPhone   string `json:"emergencyPhone,omitempty" bson:"emergencyPhone,omitempty"`
}

// AgencyInfo holds the profile fields collected during agency onboarding
type AgencyInfo struct {
	AgencyName    string `json:"agencyName" bson:"agencyName"`
	LicenseNumber string `json:"licenseNumber" bson:"licenseNumber"`
	Address       string `json:"address,omitempty" bson:"address,omitempty"`
	City          string `json:"city,omitempty" bson:"city,omitempty"`
	LogoPath      string `json:"logoPath,omitempty" bson:"logoPath,omitempty"`
	Description   string `json:"description,omitempty" bson:"description,omitempty"`
}

// AdminInfo holds admin-only profile fields
type AdminInfo struct {
	Department string `json:"department" bson:"department"`
}

// IsValidRole reports whether role is one of the three platform roles
func IsValidRole(role string) bool {
	return role == RolePilgrim || role == RoleAgency || role == RoleAdmin
}

// DashboardRoot returns the dashboard root path for a role, or "" for an
// unrecognized role
func DashboardRoot(role string) string {
	switch role {
	case RolePilgrim:
		return "/dashboard/pilgrim"
	case RoleAgency:
		return "/dashboard/agency"
	case RoleAdmin:
		return "/dashboard/admin"
	}
	return ""
}

// OnboardingRoot returns the onboarding root path for a role, or "" for an
// unrecognized role
func OnboardingRoot(role string) string {
	switch role {
	case RolePilgrim:
		return "/onboarding/pilgrim"
	case RoleAgency:
		return "/onboarding/agency"
	case RoleAdmin:
		return "/onboarding/admin"
	}
	return ""
}

// UpdateProfileRequest is the body for profile updates
type UpdateProfileRequest struct {
	FullName    string       `json:"fullName,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	ProfilePic  string       `json:"profilePic,omitempty"`
	PilgrimInfo *PilgrimInfo `json:"pilgrimInfo,omitempty"`
	AgencyInfo  *AgencyInfo  `json:"agencyInfo,omitempty"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
