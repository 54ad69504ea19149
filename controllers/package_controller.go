// controllers/package_controller.go
package controllers

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
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
)

// PackageController handles package catalog endpoints
type PackageController struct {
	db     *mongo.Client
	drafts *services.DraftService
}

// titleSearchFilter builds the case-insensitive title match for the search
// query. The input is user supplied, so regex metacharacters are escaped
// before it reaches $regex.
func titleSearchFilter(q string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(strings.TrimSpace(q)), "$options": "i"}
}

// NewPackageController creates a new package controller
func NewPackageController(db *mongo.Client, drafts *services.DraftService) *PackageController {
	return &PackageController{db: db, drafts: drafts}
}

// saveMedia decodes base64 media payloads, stores them and generates
// thumbnails. Thumbnail failures are logged, not fatal.
func saveMedia(req *models.PackageRequest, agencyID string) (images, videos, thumbnails []string, err error) {
	for i, encoded := range req.MediaFiles {
		if i >= len(req.MediaTypes) || i >= len(req.MediaNames) {
			break
		}

		fileData, decodeErr := base64.StdEncoding.DecodeString(encoded)
		if decodeErr != nil {
			return nil, nil, nil, fmt.Errorf("invalid base64 in media file %d", i)
		}

		mediaType := req.MediaTypes[i]
		filename := fmt.Sprintf("packages/%s_%d_%s", agencyID, time.Now().UnixNano(), req.MediaNames[i])

		url, uploadErr := utils.UploadFile(fileData, filename, mediaType)
		if uploadErr != nil {
			return nil, nil, nil, uploadErr
		}

		switch mediaType {
		case "image":
			images = append(images, url)
			if thumb, thumbErr := utils.GenerateImageThumbnail(fileData, filename); thumbErr == nil {
				thumbnails = append(thumbnails, thumb)
			} else {
				log.Printf("Failed to generate image thumbnail: %v", thumbErr)
			}
		case "video":
			videos = append(videos, url)
			if thumb, thumbErr := utils.GenerateVideoThumbnail(url); thumbErr == nil {
				thumbnails = append(thumbnails, thumb)
			} else {
				log.Printf("Failed to generate video thumbnail: %v", thumbErr)
			}
		}
	}
	return images, videos, thumbnails, nil
}

// CreatePackage creates a package for the authenticated agency
func (pc *PackageController) CreatePackage(c echo.Context) error {
	agencyID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var req models.PackageRequest
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

	images, videos, thumbnails, err := saveMedia(&req, agencyID.Hex())
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	now := time.Now()
	pkg := models.Package{
		ID:            primitive.NewObjectID(),
		AgencyID:      agencyID,
		Type:          req.Type,
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Currency:      "NGN",
		DurationDays:  req.DurationDays,
		DepartureDate: req.DepartureDate,
		Services:      req.Services,
		Accommodation: req.Accommodation,
		ImageURLs:     images,
		VideoURLs:     videos,
		ThumbnailURLs: thumbnails,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.db, "packages")
	if _, err := collection.InsertOne(ctx, pkg); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create package",
		})
	}

	// Creating the package retires any in-progress creation draft
	if err := pc.drafts.Delete(ctx, agencyID.Hex(), models.FlowPackageCreation); err != nil {
		log.Printf("Failed to delete package draft for agency %s: %v", agencyID.Hex(), err)
	}

	return c.JSON(http.StatusCreated, models.PackageResponse{
		Status:  http.StatusCreated,
		Message: "Package created",
		Data:    &pkg,
	})
}

// ListPackages is the public catalog with optional filters
func (pc *PackageController) ListPackages(c echo.Context) error {
	filter := bson.M{"isActive": true}

	if t := c.QueryParam("type"); t != "" {
		if t != models.PackageTypeHajj && t != models.PackageTypeUmrah {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Type must be 'hajj' or 'umrah'",
			})
		}
		filter["type"] = t
	}

	priceFilter := bson.M{}
	if min := c.QueryParam("minPrice"); min != "" {
		if v, err := strconv.ParseFloat(min, 64); err == nil {
			priceFilter["$gte"] = v
		}
	}
	if max := c.QueryParam("maxPrice"); max != "" {
		if v, err := strconv.ParseFloat(max, 64); err == nil {
			priceFilter["$lte"] = v
		}
	}
	if len(priceFilter) > 0 {
		filter["price"] = priceFilter
	}

	if agency := c.QueryParam("agencyId"); agency != "" {
		agencyID, err := primitive.ObjectIDFromHex(agency)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid agency ID",
			})
		}
		filter["agencyId"] = agencyID
	}

	if q := c.QueryParam("q"); q != "" {
		filter["title"] = titleSearchFilter(q)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.db, "packages")
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(100)
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch packages",
		})
	}
	defer cursor.Close(ctx)

	var packages []models.Package
	if err := cursor.All(ctx, &packages); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode packages",
		})
	}

	return c.JSON(http.StatusOK, models.PackagesResponse{
		Status:  http.StatusOK,
		Message: "Packages retrieved",
		Data:    packages,
	})
}

// GetPackage returns one package by id, active or not, so agencies can
// review their deactivated listings
func (pc *PackageController) GetPackage(c echo.Context) error {
	packageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid package ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var pkg models.Package
	err = config.GetCollection(pc.db, "packages").FindOne(ctx, bson.M{"_id": packageID}).Decode(&pkg)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Package not found",
		})
	}

	return c.JSON(http.StatusOK, models.PackageResponse{
		Status:  http.StatusOK,
		Message: "Package retrieved",
		Data:    &pkg,
	})
}

// GetMyPackages lists the authenticated agency's packages
func (pc *PackageController) GetMyPackages(c echo.Context) error {
	agencyID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.db, "packages")
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := collection.Find(ctx, bson.M{"agencyId": agencyID}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch packages",
		})
	}
	defer cursor.Close(ctx)

	var packages []models.Package
	if err := cursor.All(ctx, &packages); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode packages",
		})
	}

	return c.JSON(http.StatusOK, models.PackagesResponse{
		Status:  http.StatusOK,
		Message: "Packages retrieved",
		Data:    packages,
	})
}

// UpdatePackage updates a package owned by the authenticated agency
func (pc *PackageController) UpdatePackage(c echo.Context) error {
	agencyID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	packageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid package ID",
		})
	}

	var req models.PackageRequest
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

	collection := config.GetCollection(pc.db, "packages")

	var existing models.Package
	err = collection.FindOne(ctx, bson.M{"_id": packageID}).Decode(&existing)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Package not found",
		})
	}
	if existing.AgencyID != agencyID {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only update your own packages",
		})
	}

	set := bson.M{
		"type":          req.Type,
		"title":         req.Title,
		"description":   req.Description,
		"price":         req.Price,
		"durationDays":  req.DurationDays,
		"departureDate": req.DepartureDate,
		"services":      req.Services,
		"accommodation": req.Accommodation,
		"updatedAt":     time.Now(),
	}

	if len(req.MediaFiles) > 0 {
		images, videos, thumbnails, err := saveMedia(&req, agencyID.Hex())
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
		set["imageUrls"] = append(existing.ImageURLs, images...)
		set["videoUrls"] = append(existing.VideoURLs, videos...)
		set["thumbnailUrls"] = append(existing.ThumbnailURLs, thumbnails...)
	}

	_, err = collection.UpdateOne(ctx, bson.M{"_id": packageID}, bson.M{"$set": set})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update package",
		})
	}

	var updated models.Package
	collection.FindOne(ctx, bson.M{"_id": packageID}).Decode(&updated)

	return c.JSON(http.StatusOK, models.PackageResponse{
		Status:  http.StatusOK,
		Message: "Package updated",
		Data:    &updated,
	})
}

// DeletePackage deactivates a package. Listings are never hard-deleted so
// existing bookings keep a resolvable package.
func (pc *PackageController) DeletePackage(c echo.Context) error {
	agencyID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	packageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid package ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.db, "packages")
	result, err := collection.UpdateOne(ctx,
		bson.M{"_id": packageID, "agencyId": agencyID},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete package",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Package not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Package deactivated",
	})
}

// GetCreationDraft loads the agency's package creation draft
func (pc *PackageController) GetCreationDraft(c echo.Context) error {
	agencyID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	draft, err := pc.drafts.GetOrCreate(ctx, agencyID.Hex(), models.FlowPackageCreation)
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

// SaveCreationDraft merges fields into the package creation draft and
// optionally steps it. Step moves are clamped.
func (pc *PackageController) SaveCreationDraft(c echo.Context) error {
	agencyID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var req struct {
		Fields    map[string]string `json:"fields"`
		Direction string            `json:"direction,omitempty"` // "next", "prev" or empty
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	draft, err := pc.drafts.GetOrCreate(ctx, agencyID.Hex(), models.FlowPackageCreation)
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

	if err := pc.drafts.Save(ctx, agencyID.Hex(), draft); err != nil {
		log.Printf("Failed to save package draft for agency %s: %v", agencyID.Hex(), err)
	}

	return c.JSON(http.StatusOK, models.DraftResponse{
		Status:  http.StatusOK,
		Message: "Draft saved",
		Data:    draft,
	})
}
