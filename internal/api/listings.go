package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"primedrive-api/internal/database"
	"primedrive-api/internal/middleware"
	"primedrive-api/internal/models"
	"primedrive-api/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateListingRequest represents create listing request
type CreateListingRequest struct {
	Brand        string   `json:"brand" binding:"required,max=100"`
	Model        string   `json:"model" binding:"required,max=100"`
	Year         int      `json:"year" binding:"required,gte=1990,lte=2030"`
	Mileage      int      `json:"mileage" binding:"gte=0"`
	Transmission string   `json:"transmission" binding:"required,oneof=Automatic Manual"`
	Condition    string   `json:"condition"`
	Price        int      `json:"price" binding:"gte=0"`
	Location     string   `json:"location"`
	Notes        string   `json:"notes"`
	ListingType  string   `json:"listing_type" binding:"required,oneof=sale rent"`
	DailyRate    *int     `json:"daily_rate" binding:"omitempty,gte=0"`
	Seats        *int     `json:"seats" binding:"omitempty,gte=1,lte=12"`
	Images       []string `json:"images"`
}

// UpdateListingRequest represents a partial listing update
type UpdateListingRequest struct {
	Brand        *string `json:"brand" binding:"omitempty,max=100"`
	Model        *string `json:"model" binding:"omitempty,max=100"`
	Year         *int    `json:"year" binding:"omitempty,gte=1990,lte=2030"`
	Mileage      *int    `json:"mileage" binding:"omitempty,gte=0"`
	Transmission *string `json:"transmission" binding:"omitempty,oneof=Automatic Manual"`
	Condition    *string `json:"condition"`
	Price        *int    `json:"price" binding:"omitempty,gte=0"`
	Location     *string `json:"location"`
	Notes        *string `json:"notes"`
	DailyRate    *int    `json:"daily_rate" binding:"omitempty,gte=0"`
	Seats        *int    `json:"seats" binding:"omitempty,gte=1,lte=12"`
	Status       *string `json:"status" binding:"omitempty,oneof=pending active expired removed"`
}

// ListingResponse represents one listing
type ListingResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Mileage      int       `json:"mileage"`
	Transmission string    `json:"transmission"`
	Condition    string    `json:"condition"`
	Price        int       `json:"price"`
	Location     string    `json:"location"`
	Notes        string    `json:"notes,omitempty"`
	ListingType  string    `json:"listing_type"`
	DailyRate    *int      `json:"daily_rate,omitempty"`
	Seats        *int      `json:"seats,omitempty"`
	Images       []string  `json:"images"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ListingListResponse represents a listing collection response
type ListingListResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message,omitempty"`
	Listings []ListingResponse `json:"listings"`
}

// ListingItemResponse represents a single listing response
type ListingItemResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Listing *ListingResponse `json:"listing,omitempty"`
}

// listingToResponse maps a listing row to the response shape
func listingToResponse(listing *models.Listing) ListingResponse {
	images := []string{}
	if len(listing.Images) > 0 {
		// Malformed stored JSON degrades to an empty list
		_ = json.Unmarshal(listing.Images, &images)
	}

	return ListingResponse{
		ID:           listing.ID,
		UserID:       listing.UserID,
		Brand:        listing.Brand,
		Model:        listing.Model,
		Year:         listing.Year,
		Mileage:      listing.Mileage,
		Transmission: listing.Transmission,
		Condition:    listing.Condition,
		Price:        listing.Price,
		Location:     listing.Location,
		Notes:        listing.Notes,
		ListingType:  listing.ListingType,
		DailyRate:    listing.DailyRate,
		Seats:        listing.Seats,
		Images:       images,
		Status:       listing.Status,
		CreatedAt:    listing.CreatedAt,
		ExpiresAt:    listing.ExpiresAt,
	}
}

func listingResponses(listings []models.Listing) []ListingResponse {
	responses := make([]ListingResponse, len(listings))
	for i := range listings {
		responses[i] = listingToResponse(&listings[i])
	}
	return responses
}

// GetListings returns all active listings with optional filters
// GET /api/listings
func GetListings(c *gin.Context) {
	filter := database.ListingFilter{
		ListingType: c.Query("listing_type"),
		Brand:       c.Query("brand"),
		Location:    c.Query("location"),
	}
	if v, err := strconv.Atoi(c.Query("min_price")); err == nil {
		filter.MinPrice = v
	}
	if v, err := strconv.Atoi(c.Query("max_price")); err == nil {
		filter.MaxPrice = v
	}
	if filter.ListingType != "" &&
		filter.ListingType != models.ListingTypeSale &&
		filter.ListingType != models.ListingTypeRent {
		c.JSON(http.StatusBadRequest, ListingListResponse{
			Success: false,
			Message: "Invalid listing_type",
		})
		return
	}

	listings, err := database.SearchActiveListings(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ListingListResponse{
			Success: false,
			Message: "Failed to get listings",
		})
		return
	}

	c.JSON(http.StatusOK, ListingListResponse{
		Success:  true,
		Listings: listingResponses(listings),
	})
}

// CreateListing creates a new listing, enforcing the caller's tier quota
// POST /api/listings
func CreateListing(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ListingItemResponse{
			Success: false,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	if req.ListingType == models.ListingTypeRent && req.DailyRate == nil {
		c.JSON(http.StatusBadRequest, ListingItemResponse{
			Success: false,
			Message: "daily_rate is required for rental listings",
		})
		return
	}

	// Enforce subscription expiry before checking the quota, so a lapsed
	// account is measured against the free tier limit
	if _, _, err := services.EnforceSubscription(user); err != nil {
		c.JSON(http.StatusInternalServerError, ListingItemResponse{
			Success: false,
			Message: "Failed to check subscription",
		})
		return
	}

	images, err := json.Marshal(req.Images)
	if err != nil {
		c.JSON(http.StatusBadRequest, ListingItemResponse{
			Success: false,
			Message: "Invalid images",
		})
		return
	}

	listing := &models.Listing{
		UserID:       user.ID,
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		Mileage:      req.Mileage,
		Transmission: req.Transmission,
		Condition:    req.Condition,
		Price:        req.Price,
		Location:     req.Location,
		Notes:        req.Notes,
		ListingType:  req.ListingType,
		DailyRate:    req.DailyRate,
		Seats:        req.Seats,
		Images:       datatypes.JSON(images),
		Status:       models.ListingStatusActive,
	}

	if err := database.CreateListing(listing); err != nil {
		if err == database.ErrQuotaExceeded {
			c.JSON(http.StatusConflict, ListingItemResponse{
				Success: false,
				Message: "You've reached your listing limit. Upgrade your subscription to list more cars.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ListingItemResponse{
			Success: false,
			Message: "Failed to create listing",
		})
		return
	}

	resp := listingToResponse(listing)
	c.JSON(http.StatusCreated, ListingItemResponse{
		Success: true,
		Listing: &resp,
	})
}

// GetMyListings returns the caller's listings in every status
// GET /api/listings/my
func GetMyListings(c *gin.Context) {
	user := middleware.CurrentUser(c)

	listings, err := database.GetUserListings(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ListingListResponse{
			Success: false,
			Message: "Failed to get listings",
		})
		return
	}

	c.JSON(http.StatusOK, ListingListResponse{
		Success:  true,
		Listings: listingResponses(listings),
	})
}

// UpdateListing partially updates a listing owned by the caller
// PATCH /api/listings/:id
func UpdateListing(c *gin.Context) {
	user := middleware.CurrentUser(c)
	listingID := c.Param("id")

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ListingItemResponse{
			Success: false,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.Mileage != nil {
		updates["mileage"] = *req.Mileage
	}
	if req.Transmission != nil {
		updates["transmission"] = *req.Transmission
	}
	if req.Condition != nil {
		updates["condition"] = *req.Condition
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.DailyRate != nil {
		updates["daily_rate"] = *req.DailyRate
	}
	if req.Seats != nil {
		updates["seats"] = *req.Seats
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, ListingItemResponse{
			Success: false,
			Message: "No fields to update",
		})
		return
	}

	if err := database.UpdateListingFields(listingID, user.ID, updates); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, ListingItemResponse{
				Success: false,
				Message: "Listing not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ListingItemResponse{
			Success: false,
			Message: "Failed to update listing",
		})
		return
	}

	listing, err := database.GetListingByID(listingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ListingItemResponse{
			Success: false,
			Message: "Failed to load listing",
		})
		return
	}

	resp := listingToResponse(listing)
	c.JSON(http.StatusOK, ListingItemResponse{
		Success: true,
		Listing: &resp,
	})
}

// DeleteListing marks a listing removed, keeping the row for audit
// DELETE /api/listings/:id
func DeleteListing(c *gin.Context) {
	user := middleware.CurrentUser(c)
	listingID := c.Param("id")

	if err := database.RemoveListing(listingID, user.ID); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, ListingItemResponse{
				Success: false,
				Message: "Listing not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ListingItemResponse{
			Success: false,
			Message: "Failed to delete listing",
		})
		return
	}

	c.Status(http.StatusNoContent)
}
