// controllers/booking_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alhijra-ng/alhijra_backend/config"
	"github.com/alhijra-ng/alhijra_backend/models"
	"github.com/alhijra-ng/alhijra_backend/services"
	"github.com/alhijra-ng/alhijra_backend/utils"
	ws "github.com/alhijra-ng/alhijra_backend/websocket"
)

// BookingController handles booking lifecycle endpoints
type BookingController struct {
	db     *mongo.Client
	drafts *services.DraftService
	hub    *ws.Hub
}

// NewBookingController creates a new booking controller
func NewBookingController(db *mongo.Client, drafts *services.DraftService, hub *ws.Hub) *BookingController {
	return &BookingController{db: db, drafts: drafts, hub: hub}
}

// CreateBooking creates an unpaid booking for the authenticated pilgrim.
// Everything is validated before any write: an invalid request must not
// leave a partial booking behind.
func (bc *BookingController) CreateBooking(c echo.Context) error {
	pilgrimID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var req models.BookingRequest
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

	packageID, err := primitive.ObjectIDFromHex(req.PackageID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid package ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var pkg models.Package
	err = config.GetCollection(bc.db, "packages").FindOne(ctx, bson.M{"_id": packageID}).Decode(&pkg)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Package not found",
		})
	}
	if !pkg.IsActive {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Package is no longer available",
		})
	}

	// Accommodation surcharge: chosen option's nightly price over the trip
	totalPrice := pkg.Price
	if req.Accommodation != "" {
		found := false
		for _, opt := range pkg.Accommodation {
			if opt.Name == req.Accommodation {
				totalPrice += opt.PricePerNight * float64(pkg.DurationDays)
				found = true
				break
			}
		}
		if !found {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown accommodation option",
			})
		}
	}

	now := time.Now()
	booking := models.Booking{
		ID:             primitive.NewObjectID(),
		PilgrimID:      pilgrimID,
		PackageID:      packageID,
		AgencyID:       pkg.AgencyID,
		PaymentStatus:  models.PaymentStatusUnpaid,
		TotalPrice:     totalPrice,
		Currency:       "NGN",
		TravelerName:   req.TravelerName,
		TravelerEmail:  req.TravelerEmail,
		TravelerPhone:  req.TravelerPhone,
		PassportNumber: req.PassportNumber,
		Accommodation:  req.Accommodation,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := config.GetCollection(bc.db, "bookings").InsertOne(ctx, booking); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create booking",
		})
	}

	if err := bc.drafts.Delete(ctx, pilgrimID.Hex(), models.FlowBookingRequest); err != nil {
		log.Printf("Failed to delete booking draft for user %s: %v", pilgrimID.Hex(), err)
	}

	utils.DispatchNotification(bc.db, bc.hub, pkg.AgencyID, "New booking request",
		req.TravelerName+" requested to book "+pkg.Title, models.NotificationTypeRequest, booking.ID.Hex())

	return c.JSON(http.StatusCreated, models.BookingResponse{
		Status:  http.StatusCreated,
		Message: "Booking created",
		Data:    &booking,
	})
}

// GetMyBookings lists the authenticated pilgrim's bookings
func (bc *BookingController) GetMyBookings(c echo.Context) error {
	pilgrimID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	return bc.listBookings(c, bson.M{"pilgrimId": pilgrimID})
}

// GetAgencyBookings lists bookings against the authenticated agency's
// packages
func (bc *BookingController) GetAgencyBookings(c echo.Context) error {
	agencyID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	filter := bson.M{"agencyId": agencyID}
	if status := c.QueryParam("status"); status != "" {
		filter["paymentStatus"] = status
	}

	return bc.listBookings(c, filter)
}

func (bc *BookingController) listBookings(c echo.Context, filter bson.M) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(bc.db, "bookings")
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
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

// loadBookingForCaller fetches a booking the caller may see: the pilgrim
// who made it, the agency it belongs to, or an admin
func (bc *BookingController) loadBookingForCaller(c echo.Context, ctx context.Context, bookingID primitive.ObjectID) (*models.Booking, int, string) {
	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return nil, http.StatusUnauthorized, "Unauthorized"
	}

	var booking models.Booking
	err = config.GetCollection(bc.db, "bookings").FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		return nil, http.StatusNotFound, "Booking not found"
	}

	role, _ := c.Get("role").(string)
	if booking.PilgrimID != userID && booking.AgencyID != userID && role != models.RoleAdmin {
		return nil, http.StatusForbidden, "You do not have access to this booking"
	}

	return &booking, 0, ""
}

// GetBooking returns a booking with its resolved package, which is what
// the confirmation and payment views render from
func (bc *BookingController) GetBooking(c echo.Context) error {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid booking ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, errStatus, errMsg := bc.loadBookingForCaller(c, ctx, bookingID)
	if booking == nil {
		return c.JSON(errStatus, models.Response{Status: errStatus, Message: errMsg})
	}

	detail := models.BookingDetail{Booking: *booking}

	var pkg models.Package
	if err := config.GetCollection(bc.db, "packages").FindOne(ctx, bson.M{"_id": booking.PackageID}).Decode(&pkg); err == nil {
		detail.Package = &pkg
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking retrieved",
		Data:    detail,
	})
}

// ConfirmBooking is the agency's acknowledgment of a paid booking
func (bc *BookingController) ConfirmBooking(c echo.Context) error {
	agencyID, err := utils.GetUserIDFromToken(c)
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

	collection := config.GetCollection(bc.db, "bookings")

	var booking models.Booking
	err = collection.FindOne(ctx, bson.M{"_id": bookingID, "agencyId": agencyID}).Decode(&booking)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Booking not found",
		})
	}

	if !models.CanTransitionPaymentStatus(booking.PaymentStatus, models.PaymentStatusConfirmed) {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Cannot confirm a booking in status '" + booking.PaymentStatus + "'",
		})
	}

	_, err = collection.UpdateOne(ctx, bson.M{"_id": bookingID}, bson.M{"$set": bson.M{
		"paymentStatus": models.PaymentStatusConfirmed,
		"updatedAt":     time.Now(),
	}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to confirm booking",
		})
	}

	var pkg models.Package
	pkgTitle := "your package"
	if err := config.GetCollection(bc.db, "packages").FindOne(ctx, bson.M{"_id": booking.PackageID}).Decode(&pkg); err == nil {
		pkgTitle = pkg.Title
	}

	utils.DispatchNotification(bc.db, bc.hub, booking.PilgrimID, "Booking confirmed",
		"Your booking for "+pkgTitle+" has been confirmed.", models.NotificationTypeBooking, booking.ID.Hex())

	if err := utils.SendBookingConfirmationEmail(booking.TravelerEmail, booking.TravelerName, pkgTitle, booking.ID.Hex()); err != nil {
		log.Printf("Failed to send booking confirmation email: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking confirmed",
	})
}

// CancelBooking cancels a booking. Only statuses where no money has moved
// can be cancelled.
func (bc *BookingController) CancelBooking(c echo.Context) error {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid booking ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, errStatus, errMsg := bc.loadBookingForCaller(c, ctx, bookingID)
	if booking == nil {
		return c.JSON(errStatus, models.Response{Status: errStatus, Message: errMsg})
	}

	if !models.CanTransitionPaymentStatus(booking.PaymentStatus, models.PaymentStatusCancelled) {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Cannot cancel a booking in status '" + booking.PaymentStatus + "'",
		})
	}

	_, err = config.GetCollection(bc.db, "bookings").UpdateOne(ctx, bson.M{"_id": bookingID}, bson.M{"$set": bson.M{
		"paymentStatus": models.PaymentStatusCancelled,
		"updatedAt":     time.Now(),
	}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to cancel booking",
		})
	}

	utils.DispatchNotification(bc.db, bc.hub, booking.AgencyID, "Booking cancelled",
		"Booking for "+booking.TravelerName+" was cancelled.", models.NotificationTypeBooking, booking.ID.Hex())

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking cancelled",
	})
}

// GetConfirmationQR renders the booking reference as a QR code PNG for
// completed bookings
func (bc *BookingController) GetConfirmationQR(c echo.Context) error {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid booking ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, errStatus, errMsg := bc.loadBookingForCaller(c, ctx, bookingID)
	if booking == nil {
		return c.JSON(errStatus, models.Response{Status: errStatus, Message: errMsg})
	}

	if !models.IsPaymentComplete(booking.PaymentStatus) {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Booking is not paid yet",
		})
	}

	content := booking.ID.Hex()
	if booking.PaymentReference != "" {
		content = booking.PaymentReference
	}

	pngData, err := utils.GenerateQRCodePNG(content, 256)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}

	return c.Blob(http.StatusOK, "image/png", pngData)
}

// GetRequestDraft loads the pilgrim's booking request draft
func (bc *BookingController) GetRequestDraft(c echo.Context) error {
	pilgrimID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	draft, err := bc.drafts.GetOrCreate(ctx, pilgrimID.Hex(), models.FlowBookingRequest)
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

// SaveRequestDraft merges fields into the booking request draft and
// optionally steps it
func (bc *BookingController) SaveRequestDraft(c echo.Context) error {
	pilgrimID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var req struct {
		Fields    map[string]string `json:"fields"`
		Direction string            `json:"direction,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	draft, err := bc.drafts.GetOrCreate(ctx, pilgrimID.Hex(), models.FlowBookingRequest)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load draft",
		})
	}

	if len(req.Fields) > 0 {
		services.MergeFields(draft, req.Fields)
	}
	switch req.Direction {
	case "next":
		services.NextStep(draft)
	case "prev":
		services.PrevStep(draft)
	}

	if err := bc.drafts.Save(ctx, pilgrimID.Hex(), draft); err != nil {
		log.Printf("Failed to save booking draft for user %s: %v", pilgrimID.Hex(), err)
	}

	return c.JSON(http.StatusOK, models.DraftResponse{
		Status:  http.StatusOK,
		Message: "Draft saved",
		Data:    draft,
	})
}
