// utils/auth.go
package utils

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alhijra-ng/alhijra_backend/config"
	"github.com/alhijra-ng/alhijra_backend/middleware"
	"github.com/alhijra-ng/alhijra_backend/models"
)

// ValidateTokenResponse is returned to clients probing session validity
type ValidateTokenResponse struct {
	Valid     bool         `json:"valid"`
	User      *models.User `json:"user,omitempty"`
	Message   string       `json:"message,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
}

func invalidToken(message string) *ValidateTokenResponse {
	return &ValidateTokenResponse{Valid: false, Message: message}
}

// fetchUser loads a user by hex id with the password field cleared
func fetchUser(db *mongo.Client, hexID string) (*models.User, error) {
	userID, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, errors.New("invalid user ID format")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = config.GetCollection(db, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New("user not found")
	}
	if err != nil {
		return nil, errors.New("error retrieving user")
	}

	user.Password = ""
	return &user, nil
}

// ValidateToken checks a JWT against the signing key, the blacklist and the
// user record it points at. Invalid tokens come back as Valid=false rather
// than an error so callers can hand the response straight to the client.
func ValidateToken(tokenString string, db *mongo.Client) (*ValidateTokenResponse, error) {
	if tokenString == "" {
		return invalidToken("No token provided"), nil
	}

	claims := middleware.ParseToken(tokenString)
	if claims == nil {
		return invalidToken("Invalid or expired token"), nil
	}

	user, err := fetchUser(db, claims.UserID)
	if err != nil {
		return invalidToken(err.Error()), nil
	}
	if !user.IsActive {
		return invalidToken("User account is inactive"), nil
	}

	resp := &ValidateTokenResponse{Valid: true, User: user, Message: "Token is valid"}
	if claims.ExpiresAt > 0 {
		exp := time.Unix(claims.ExpiresAt, 0)
		resp.ExpiresAt = &exp
	}
	return resp, nil
}

// GetUserFromToken resolves the authenticated request's user record
func GetUserFromToken(c echo.Context, db *mongo.Client) (*models.User, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, errors.New("no token found")
	}

	claims, ok := token.Claims.(*middleware.JwtCustomClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}

	return fetchUser(db, claims.UserID)
}

// GetUserIDFromToken extracts just the user id from the request's JWT
func GetUserIDFromToken(c echo.Context) (primitive.ObjectID, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return primitive.ObjectID{}, echo.ErrUnauthorized
	}

	switch claims := token.Claims.(type) {
	case *middleware.JwtCustomClaims:
		return primitive.ObjectIDFromHex(claims.UserID)
	case jwt.MapClaims:
		if idStr, ok := claims["userId"].(string); ok {
			return primitive.ObjectIDFromHex(idStr)
		}
	}
	return primitive.ObjectID{}, echo.ErrUnauthorized
}
