// controllers/admin_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alhijra-ng/alhijra_backend/config"
	"github.com/alhijra-ng/alhijra_backend/models"
	"github.com/alhijra-ng/alhijra_backend/repositories"
	"github.com/alhijra-ng/alhijra_backend/utils"
	ws "github.com/alhijra-ng/alhijra_backend/websocket"
)

// AdminController handles the admin dashboard endpoints
type AdminController struct {
	db       *mongo.Client
	userRepo *repositories.UserRepository
	hub      *ws.Hub
}

// NewAdminController creates a new admin controller
func NewAdminController(db *mongo.Client, hub *ws.Hub) *AdminController {
	return &AdminController{
		db:       db,
		userRepo: repositories.NewUserRepository(db),
		hub:      hub,
	}
}

// GetStats returns the platform counters for the admin dashboard
func (ac *AdminController) GetStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	users := config.GetCollection(ac.db, "users")
	bookings := config.GetCollection(ac.db, "bookings")
	packages := config.GetCollection(ac.db, "packages")

	pilgrimCount, _ := users.CountDocuments(ctx, bson.M{"role": models.RolePilgrim})
	agencyCount, _ := users.CountDocuments(ctx, bson.M{"role": models.RoleAgency})
	packageCount, _ := packages.CountDocuments(ctx, bson.M{"isActive": true})
	bookingCount, _ := bookings.CountDocuments(ctx, bson.M{})
	paidCount, _ := bookings.CountDocuments(ctx, bson.M{"paymentStatus": bson.M{
		"$in": []string{models.PaymentStatusPaid, models.PaymentStatusConfirmed},
	}})

	// Revenue is the sum of paid booking totals
	var revenue float64
	cursor, err := bookings.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"paymentStatus": bson.M{
			"$in": []string{models.PaymentStatusPaid, models.PaymentStatusConfirmed},
		}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$totalPrice"}}}},
	})
	if err == nil {
		var results []bson.M
		if err := cursor.All(ctx, &results); err == nil && len(results) > 0 {
			if total, ok := results[0]["total"].(float64); ok {
				revenue = total
			}
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Stats retrieved",
		Data: map[string]interface{}{
			"pilgrims":     pilgrimCount,
			"agencies":     agencyCount,
			"packages":     packageCount,
			"bookings":     bookingCount,
			"paidBookings": paidCount,
			"revenueNgn":   revenue,
		},
	})
}

// ListUsers lists users filtered by role
func (ac *AdminController) ListUsers(c echo.Context) error {
	filter := bson.M{}
	if role := c.QueryParam("role"); role != "" {
		if !models.IsValidRole(role) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid role filter",
			})
		}
		filter["role"] = role
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.db, "users")
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(200).
		SetProjection(bson.M{"password": 0, "otpInfo": 0})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch users",
		})
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode users",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved",
		Data:    users,
	})
}

// ListBookings lists all bookings for the admin view
func (ac *AdminController) ListBookings(c echo.Context) error {
	filter := bson.M{}
	if status := c.QueryParam("status"); status != "" {
		filter["paymentStatus"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.db, "bookings")
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(200)
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch bookings",
		})
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode bookings",
		})
	}

	return c.JSON(http.StatusOK, models.BookingsResponse{
		Status:  http.StatusOK,
		Message: "Bookings retrieved",
		Data:    bookings,
	})
}

// UpdateUserRole changes a user's role. This is the only endpoint that may
// mutate a role after onboarding.
func (ac *AdminController) UpdateUserRole(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req struct {
		Role string `json:"role" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if !models.IsValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid role",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := ac.userRepo.FindByID(ctx, userID); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	if err := ac.userRepo.UpdateRole(ctx, userID, req.Role); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update role",
		})
	}

	utils.DispatchNotification(ac.db, ac.hub, userID, "Account updated",
		"Your account role was changed to "+req.Role+".", models.NotificationTypeSystem, "")

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Role updated",
	})
}

// SetUserActive activates or deactivates an account
func (ac *AdminController) SetUserActive(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(ac.db, "users").UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"isActive": req.IsActive, "updatedAt": time.Now()}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update user",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	msg := "User deactivated"
	if req.IsActive {
		msg = "User activated"
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: msg,
	})
}
