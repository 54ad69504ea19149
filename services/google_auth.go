package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/lestrrat-go/jwx/jwk"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alhijra-ng/alhijra_backend/config"
	"github.com/alhijra-ng/alhijra_backend/middleware"
	"github.com/alhijra-ng/alhijra_backend/models"
)

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// GoogleAuthService handles Google authentication
type GoogleAuthService struct {
	DB *mongo.Client
}

// NewGoogleAuthService creates a new Google auth service
func NewGoogleAuthService(db *mongo.Client) *GoogleAuthService {
	return &GoogleAuthService{DB: db}
}

// verifyGoogleToken validates the ID token signature against Google's JWKS
// and checks audience and expiry
func (s *GoogleAuthService) verifyGoogleToken(idToken string) error {
	if idToken == "" {
		return errors.New("missing Google ID token")
	}

	jwkSet, err := jwk.Fetch(context.Background(), googleJWKSURL)
	if err != nil {
		return fmt.Errorf("failed to fetch Google JWKS: %w", err)
	}

	token, err := jwt.Parse(idToken, func(token *jwt.Token) (interface{}, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, errors.New("token missing kid header")
		}
		key, found := jwkSet.LookupKeyID(kid)
		if !found {
			return nil, fmt.Errorf("no key found for kid %s", kid)
		}
		var raw interface{}
		if err := key.Raw(&raw); err != nil {
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return fmt.Errorf("failed to parse Google token: %w", err)
	}
	if !token.Valid {
		return errors.New("invalid Google token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("invalid Google token claims")
	}

	if clientID := os.Getenv("GOOGLE_CLIENT_ID"); clientID != "" {
		if aud, _ := claims["aud"].(string); aud != clientID {
			return errors.New("google token audience mismatch")
		}
	}

	if exp, ok := claims["exp"].(float64); ok && time.Now().Unix() > int64(exp) {
		return errors.New("google token expired")
	}

	return nil
}

// AuthenticateUser handles the Google sign-in process: verify the token,
// find or create the user, and return tokens plus the session fields the
// client needs to resolve role and onboarding state
func (s *GoogleAuthService) AuthenticateUser(req *models.GoogleAuthRequest) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if req.Email == "" || req.GoogleID == "" {
		return nil, errors.New("email and Google ID are required")
	}

	if err := s.verifyGoogleToken(req.TokenID); err != nil {
		return nil, fmt.Errorf("failed to verify Google token: %w", err)
	}

	collection := config.GetCollection(s.DB, "users")

	var user models.User
	err := collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)

	if err != nil {
		if err != mongo.ErrNoDocuments {
			return nil, fmt.Errorf("database error: %w", err)
		}

		// First sign-in: create the profile with no role yet; onboarding
		// assigns one
		now := time.Now()
		user = models.User{
			ID:                  primitive.NewObjectID(),
			Email:               req.Email,
			FullName:            req.Name,
			Role:                "",
			OnboardingCompleted: false,
			IsActive:            true,
			EmailVerified:       true,
			GoogleID:            req.GoogleID,
			ProfilePic:          req.PhotoURL,
			LastActivityAt:      now,
			CreatedAt:           now,
			UpdatedAt:           now,
		}

		if _, err := collection.InsertOne(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	} else {
		update := bson.M{"$set": bson.M{
			"googleId":   req.GoogleID,
			"profilePic": req.PhotoURL,
			"updatedAt":  time.Now(),
		}}
		if _, err := collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role, user.OnboardingCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user.Password = ""

	return map[string]interface{}{
		"token":        token,
		"refreshToken": refreshToken,
		"user":         user,
	}, nil
}
