// models/package.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Package types
const (
	PackageTypeHajj  = "hajj"
	PackageTypeUmrah = "umrah"
)

// PackageServices flags what a package includes
type PackageServices struct {
	Visa          bool `json:"visa" bson:"visa"`
	Flight        bool `json:"flight" bson:"flight"`
	Transport     bool `json:"transport" bson:"transport"`
	Food          bool `json:"food" bson:"food"`
	Accommodation bool `json:"accommodation" bson:"accommodation"`
}

// AccommodationOption is one of the lodging tiers offered with a package
type AccommodationOption struct {
	Name          string  `json:"name" bson:"name"`
	Tier          string  `json:"tier" bson:"tier"` // "standard", "premium", "vip"
	PricePerNight float64 `json:"pricePerNight" bson:"pricePerNight"`
	DistanceKm    float64 `json:"distanceKm,omitempty" bson:"distanceKm,omitempty"` // distance from Haram
}

// Package model
type Package struct {
	ID            primitive.ObjectID    `json:"id,omitempty" bson:"_id,omitempty"`
	AgencyID      primitive.ObjectID    `json:"agencyId" bson:"agencyId"`
	Type          string                `json:"type" bson:"type"` // "hajj" or "umrah"
	Title         string                `json:"title" bson:"title"`
	Description   string                `json:"description,omitempty" bson:"description,omitempty"`
	Price         float64               `json:"price" bson:"price"`
	Currency      string                `json:"currency" bson:"currency"` // "NGN"
	DurationDays  int                   `json:"durationDays" bson:"durationDays"`
	DepartureDate time.Time             `json:"departureDate,omitempty" bson:"departureDate,omitempty"`
	Services      PackageServices       `json:"services" bson:"services"`
	Accommodation []AccommodationOption `json:"accommodation,omitempty" bson:"accommodation,omitempty"`
	ImageURLs     []string              `json:"imageUrls,omitempty" bson:"imageUrls,omitempty"`
	VideoURLs     []string              `json:"videoUrls,omitempty" bson:"videoUrls,omitempty"`
	ThumbnailURLs []string              `json:"thumbnailUrls,omitempty" bson:"thumbnailUrls,omitempty"`
	IsActive      bool                  `json:"isActive" bson:"isActive"`
	CreatedAt     time.Time             `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt" bson:"updatedAt"`
}

// PackageRequest model for creating or updating a package
type PackageRequest struct {
	Type          string                `json:"type" validate:"required,oneof=hajj umrah"`
	Title         string                `json:"title" validate:"required"`
	Description   string                `json:"description,omitempty"`
	Price         float64               `json:"price" validate:"required,gt=0"`
	DurationDays  int                   `json:"durationDays" validate:"required,gt=0"`
	DepartureDate time.Time             `json:"departureDate,omitempty"`
	Services      PackageServices       `json:"services"`
	Accommodation []AccommodationOption `json:"accommodation,omitempty"`
	MediaTypes    []string              `json:"mediaTypes,omitempty"` // "image" or "video" per file
	MediaFiles    []string              `json:"mediaFiles,omitempty"` // Base64 encoded
	MediaNames    []string              `json:"mediaNames,omitempty"`
}

// PackageResponse model
type PackageResponse struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Data    *Package `json:"data,omitempty"`
}

// PackagesResponse model for multiple packages
type PackagesResponse struct {
	Status  int       `json:"status"`
	Message string    `json:"message"`
	Data    []Package `json:"data,omitempty"`
}
