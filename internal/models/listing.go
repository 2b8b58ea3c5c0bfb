package models

import (
	"time"

	"gorm.io/datatypes"
)

// Listing types
const (
	ListingTypeSale = "sale"
	ListingTypeRent = "rent"
)

// Listing statuses. Only active listings are publicly visible and count
// against the owner's tier quota. Deletion sets removed instead of
// purging the row.
const (
	ListingStatusPending = "pending"
	ListingStatusActive  = "active"
	ListingStatusExpired = "expired"
	ListingStatusRemoved = "removed"
)

// ListingDurationDays is the default lifetime of a listing
const ListingDurationDays = 90

// Listing represents a car listing owned by a user
type Listing struct {
	UUIDModel

	UserID string `json:"user_id" gorm:"type:uuid;not null;index"`

	Brand        string `json:"brand" gorm:"not null;size:100"`
	Model        string `json:"model" gorm:"not null;size:100"`
	Year         int    `json:"year" gorm:"not null"`
	Mileage      int    `json:"mileage" gorm:"not null;default:0"`
	Transmission string `json:"transmission" gorm:"not null;size:20"`
	Condition    string `json:"condition" gorm:"size:50"`
	Price        int    `json:"price" gorm:"not null;default:0"`
	Location     string `json:"location" gorm:"size:100"`
	Notes        string `json:"notes" gorm:"type:text"`

	ListingType string `json:"listing_type" gorm:"not null;size:10;index"`
	// Rental-only fields, nil for sale listings
	DailyRate *int `json:"daily_rate"`
	Seats     *int `json:"seats"`

	// Images is an ordered JSON array of URLs
	Images datatypes.JSON `json:"images"`

	Status    string    `json:"status" gorm:"not null;size:10;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
}

// TableName specifies the table name
func (Listing) TableName() string {
	return "car_listings"
}
