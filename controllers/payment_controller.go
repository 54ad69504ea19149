// controllers/payment_controller.go
package controllers

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alhijra-ng/alhijra_backend/config"
	"github.com/alhijra-ng/alhijra_backend/models"
	"github.com/alhijra-ng/alhijra_backend/services"
	"github.com/alhijra-ng/alhijra_backend/utils"
	ws "github.com/alhijra-ng/alhijra_backend/websocket"
)

// PaymentController handles Paystack payment endpoints
type PaymentController struct {
	db       *mongo.Client
	paystack *services.PaystackService
	hub      *ws.Hub
}

// NewPaymentController creates a new payment controller
func NewPaymentController(db *mongo.Client, paystack *services.PaystackService, hub *ws.Hub) *PaymentController {
	return &PaymentController{db: db, paystack: paystack, hub: hub}
}

// InitializePayment starts a Paystack checkout for an unpaid booking owned
// by the caller and moves it to pending
func (pc *PaymentController) InitializePayment(c echo.Context) error {
	pilgrimID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var req models.InitializePaymentRequest
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

	bookingID, err := primitive.ObjectIDFromHex(req.BookingID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid booking ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.db, "bookings")

	var booking models.Booking
	err = collection.FindOne(ctx, bson.M{"_id": bookingID, "pilgrimId": pilgrimID}).Decode(&booking)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Booking not found",
		})
	}

	if models.IsPaymentComplete(booking.PaymentStatus) {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Booking is already paid",
		})
	}
	if !models.CanTransitionPaymentStatus(booking.PaymentStatus, models.PaymentStatusPending) &&
		booking.PaymentStatus != models.PaymentStatusPending {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Cannot start payment for a booking in status '" + booking.PaymentStatus + "'",
		})
	}

	// Reuse the existing reference if the pilgrim retries a pending payment
	reference := booking.PaymentReference
	if reference == "" {
		reference = "alhijra_" + uuid.New().String()
	}

	auth, err := pc.paystack.InitializeTransaction(booking.TravelerEmail, booking.TotalPrice, reference)
	if err != nil {
		log.Printf("Failed to initialize Paystack transaction: %v", err)
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Failed to initialize payment",
		})
	}

	_, err = collection.UpdateOne(ctx, bson.M{"_id": bookingID}, bson.M{"$set": bson.M{
		"paymentStatus":    models.PaymentStatusPending,
		"paymentReference": auth.Reference,
		"updatedAt":        time.Now(),
	}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update booking",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment initialized",
		Data: models.PaymentInitData{
			AuthorizationURL: auth.AuthorizationURL,
			AccessCode:       auth.AccessCode,
			Reference:        auth.Reference,
		},
	})
}

// VerifyPayment confirms a reference with Paystack and settles the booking.
// The response always carries the re-fetched booking so the client renders
// from the stored state, never from the gateway callback.
func (pc *PaymentController) VerifyPayment(c echo.Context) error {
	reference := c.Param("reference")
	if reference == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Payment reference is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.db, "bookings")

	var booking models.Booking
	err := collection.FindOne(ctx, bson.M{"paymentReference": reference}).Decode(&booking)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No booking found for this reference",
		})
	}

	// Already settled: verification is idempotent
	if models.IsPaymentComplete(booking.PaymentStatus) {
		return c.JSON(http.StatusOK, models.BookingResponse{
			Status:  http.StatusOK,
			Message: "Payment already verified",
			Data:    &booking,
		})
	}

	verification, err := pc.paystack.VerifyTransaction(reference)
	if err != nil {
		log.Printf("Failed to verify Paystack transaction %s: %v", reference, err)
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Failed to verify payment",
		})
	}

	if verification.Status != "success" {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Payment not successful: " + verification.Status,
			Data:    map[string]string{"paymentStatus": booking.PaymentStatus},
		})
	}

	// Paystack reports kobo
	expectedKobo := int64(booking.TotalPrice * 100)
	if verification.Amount < expectedKobo {
		log.Printf("Underpayment on reference %s: got %d kobo, expected %d", reference, verification.Amount, expectedKobo)
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Paid amount does not match booking total",
		})
	}

	return pc.settleBooking(c, ctx, booking.ID, reference)
}

// settleBooking marks a booking paid, re-fetches it and fires the
// notifications and receipt email
func (pc *PaymentController) settleBooking(c echo.Context, ctx context.Context, bookingID primitive.ObjectID, reference string) error {
	collection := config.GetCollection(pc.db, "bookings")

	now := time.Now()
	_, err := collection.UpdateOne(ctx, bson.M{"_id": bookingID}, bson.M{"$set": bson.M{
		"paymentStatus": models.PaymentStatusPaid,
		"paidAt":        now,
		"updatedAt":     now,
	}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update booking",
		})
	}

	var updated models.Booking
	if err := collection.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&updated); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reload booking",
		})
	}

	pkgTitle := "your package"
	var pkg models.Package
	if err := config.GetCollection(pc.db, "packages").FindOne(ctx, bson.M{"_id": updated.PackageID}).Decode(&pkg); err == nil {
		pkgTitle = pkg.Title
	}

	utils.DispatchNotification(pc.db, pc.hub, updated.PilgrimID, "Payment received",
		"Your payment for "+pkgTitle+" was successful.", models.NotificationTypePayment, updated.ID.Hex())
	utils.DispatchNotification(pc.db, pc.hub, updated.AgencyID, "Booking paid",
		updated.TravelerName+" paid for "+pkgTitle+".", models.NotificationTypePayment, updated.ID.Hex())

	if err := utils.SendPaymentSuccessEmail(updated.TravelerEmail, updated.TravelerName, updated.ID.Hex(), pkgTitle, updated.TotalPrice); err != nil {
		log.Printf("Failed to send payment success email: %v", err)
	}

	return c.JSON(http.StatusOK, models.BookingResponse{
		Status:  http.StatusOK,
		Message: "Payment verified",
		Data:    &updated,
	})
}

// HandleWebhook processes Paystack charge events. The signature is checked
// against the secret key, and the event is still verified against the API
// before any state change.
func (pc *PaymentController) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	secretKey := os.Getenv("PAYSTACK_SECRET_KEY")
	if secretKey == "" {
		log.Printf("Webhook received but PAYSTACK_SECRET_KEY is not configured")
		return c.NoContent(http.StatusServiceUnavailable)
	}

	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(c.Request().Header.Get("x-paystack-signature"))) {
		log.Printf("Webhook signature mismatch")
		return c.NoContent(http.StatusUnauthorized)
	}

	var event struct {
		Event string `json:"event"`
		Data  struct {
			Reference string `json:"reference"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	if event.Event != "charge.success" || event.Data.Reference == "" {
		return c.NoContent(http.StatusOK)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.db, "bookings")

	var booking models.Booking
	if err := collection.FindOne(ctx, bson.M{"paymentReference": event.Data.Reference}).Decode(&booking); err != nil {
		log.Printf("Webhook for unknown reference %s", event.Data.Reference)
		return c.NoContent(http.StatusOK)
	}

	if models.IsPaymentComplete(booking.PaymentStatus) {
		return c.NoContent(http.StatusOK)
	}

	verification, err := pc.paystack.VerifyTransaction(event.Data.Reference)
	if err != nil || verification.Status != "success" {
		log.Printf("Webhook verification failed for %s: %v", event.Data.Reference, err)
		return c.NoContent(http.StatusOK)
	}

	if err := pc.settleBookingQuiet(ctx, booking.ID); err != nil {
		log.Printf("Webhook settlement failed for %s: %v", event.Data.Reference, err)
	}

	return c.NoContent(http.StatusOK)
}

// settleBookingQuiet is the webhook variant of settleBooking without an
// HTTP response to shape
func (pc *PaymentController) settleBookingQuiet(ctx context.Context, bookingID primitive.ObjectID) error {
	collection := config.GetCollection(pc.db, "bookings")

	now := time.Now()
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": bookingID}, bson.M{"$set": bson.M{
		"paymentStatus": models.PaymentStatusPaid,
		"paidAt":        now,
		"updatedAt":     now,
	}}); err != nil {
		return err
	}

	var updated models.Booking
	if err := collection.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&updated); err != nil {
		return err
	}

	pkgTitle := "your package"
	var pkg models.Package
	if err := config.GetCollection(pc.db, "packages").FindOne(ctx, bson.M{"_id": updated.PackageID}).Decode(&pkg); err == nil {
		pkgTitle = pkg.Title
	}

	utils.DispatchNotification(pc.db, pc.hub, updated.PilgrimID, "Payment received",
		"Your payment for "+pkgTitle+" was successful.", models.NotificationTypePayment, updated.ID.Hex())
	utils.DispatchNotification(pc.db, pc.hub, updated.AgencyID, "Booking paid",
		updated.TravelerName+" paid for "+pkgTitle+".", models.NotificationTypePayment, updated.ID.Hex())

	if err := utils.SendPaymentSuccessEmail(updated.TravelerEmail, updated.TravelerName, updated.ID.Hex(), pkgTitle, updated.TotalPrice); err != nil {
		log.Printf("Failed to send payment success email: %v", err)
	}

	return nil
}

// GetPaymentStatus returns the stored payment state of a booking for the
// client to poll after returning from the gateway
func (pc *PaymentController) GetPaymentStatus(c echo.Context) error {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid booking ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var booking models.Booking
	err = config.GetCollection(pc.db, "bookings").FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Booking not found",
		})
	}

	role, _ := c.Get("role").(string)
	if booking.PilgrimID != userID && booking.AgencyID != userID && role != models.RoleAdmin {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You do not have access to this booking",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment status retrieved",
		Data: map[string]interface{}{
			"bookingId":        booking.ID.Hex(),
			"paymentStatus":    booking.PaymentStatus,
			"paymentComplete":  models.IsPaymentComplete(booking.PaymentStatus),
			"paymentReference": booking.PaymentReference,
			"paidAt":           booking.PaidAt,
		},
	})
}
