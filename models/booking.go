// models/booking.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses. Transitions are monotonic: unpaid -> pending -> paid ->
// confirmed, with cancellation possible only before money has moved.
const (
	PaymentStatusUnpaid    = "unpaid"
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusCancelled = "cancelled"
)

// Booking model
type Booking struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PilgrimID        primitive.ObjectID `json:"pilgrimId" bson:"pilgrimId"`
	PackageID        primitive.ObjectID `json:"packageId" bson:"packageId"`
	AgencyID         primitive.ObjectID `json:"agencyId" bson:"agencyId"`
	PaymentStatus    string             `json:"paymentStatus" bson:"paymentStatus"`
	PaymentReference string             `json:"paymentReference,omitempty" bson:"paymentReference,omitempty"`
	TotalPrice       float64            `json:"totalPrice" bson:"totalPrice"`
	Currency         string             `json:"currency" bson:"currency"`
	TravelerName     string             `json:"travelerName" bson:"travelerName"`
	TravelerEmail    string             `json:"travelerEmail" bson:"travelerEmail"`
	TravelerPhone    string             `json:"travelerPhone" bson:"travelerPhone"`
	PassportNumber   string             `json:"passportNumber,omitempty" bson:"passportNumber,omitempty"`
	Accommodation    string             `json:"accommodation,omitempty" bson:"accommodation,omitempty"`
	PaidAt           *time.Time         `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// BookingRequest model for creating a booking
type BookingRequest struct {
	PackageID      string `json:"packageId" validate:"required"`
	TravelerName   string `json:"travelerName" validate:"required"`
	TravelerEmail  string `json:"travelerEmail" validate:"required,email"`
	TravelerPhone  string `json:"travelerPhone" validate:"required"`
	PassportNumber string `json:"passportNumber,omitempty"`
	Accommodation  string `json:"accommodation,omitempty"`
}

// BookingStatusUpdateRequest model for updating payment status
type BookingStatusUpdateRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

// BookingDetail bundles a booking with its resolved package for the
// confirmation/payment view
type BookingDetail struct {
	Booking Booking  `json:"booking"`
	Package *Package `json:"package,omitempty"`
}

// BookingResponse model
type BookingResponse struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Data    *Booking `json:"data,omitempty"`
}

// BookingsResponse model for multiple bookings
type BookingsResponse struct {
	Status  int       `json:"status"`
	Message string    `json:"message"`
	Data    []Booking `json:"data,omitempty"`
}

// paymentTransitions lists the allowed next statuses for each status
var paymentTransitions = map[string][]string{
	PaymentStatusUnpaid:    {PaymentStatusPending, PaymentStatusCancelled},
	PaymentStatusPending:   {PaymentStatusPaid, PaymentStatusCancelled},
	PaymentStatusPaid:      {PaymentStatusConfirmed},
	PaymentStatusConfirmed: {},
	PaymentStatusCancelled: {},
}

// CanTransitionPaymentStatus reports whether a booking may move from one
// payment status to another
func CanTransitionPaymentStatus(from, to string) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsPaymentComplete reports whether a payment status is terminal on the
// success side; complete bookings render the confirmation view instead of
// the payment widget
func IsPaymentComplete(status string) bool {
	return status == PaymentStatusPaid || status == PaymentStatusConfirmed
}
