package database

import (
	"errors"
	"time"

	"primedrive-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrQuotaExceeded is returned when a user at their tier's listing limit
// tries to create another active listing
var ErrQuotaExceeded = errors.New("active listing limit reached for current tier")

// CountActiveListings counts the user's listings with status active
func CountActiveListings(userID string) (int64, error) {
	var count int64
	err := DB.Model(&models.Listing{}).
		Where("user_id = ? AND status = ?", userID, models.ListingStatusActive).
		Count(&count).Error
	return count, err
}

// CanCreateListing reports whether the user may create another active
// listing under their tier quota. Advisory read for status endpoints;
// CreateListing re-checks inside its transaction.
func CanCreateListing(userID string) (bool, error) {
	user, err := GetUserByID(userID)
	if err != nil {
		return false, err
	}
	if user.CurrentTier.Unlimited() {
		return true, nil
	}
	count, err := CountActiveListings(userID)
	if err != nil {
		return false, err
	}
	return count < int64(*user.CurrentTier.ListingLimit), nil
}

// CreateListing inserts a listing after checking the owner's quota.
// The owner row is locked for the duration of the check-then-insert so two
// concurrent requests cannot both take the last quota slot.
func CreateListing(listing *models.Listing) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		query := tx.Where("id = ?", listing.UserID)
		if supportsRowLocking(tx) {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var user models.User
		if err := query.First(&user).Error; err != nil {
			return err
		}

		var tier models.Tier
		if err := tx.First(&tier, user.CurrentTierID).Error; err != nil {
			return err
		}

		if tier.ListingLimit != nil {
			var count int64
			if err := tx.Model(&models.Listing{}).
				Where("user_id = ? AND status = ?", listing.UserID, models.ListingStatusActive).
				Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(*tier.ListingLimit) {
				return ErrQuotaExceeded
			}
		}

		if listing.Status == "" {
			listing.Status = models.ListingStatusActive
		}
		if listing.ExpiresAt.IsZero() {
			listing.ExpiresAt = time.Now().Add(models.ListingDurationDays * 24 * time.Hour)
		}

		return tx.Create(listing).Error
	})
}

// GetListingByID gets a listing by primary key
func GetListingByID(id string) (*models.Listing, error) {
	var listing models.Listing
	err := DB.Where("id = ?", id).First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListingFilter holds the optional public browse filters
type ListingFilter struct {
	ListingType string
	Brand       string
	MinPrice    int
	MaxPrice    int
	Location    string
}

// SearchActiveListings returns active listings matching the filter,
// newest first
func SearchActiveListings(filter ListingFilter) ([]models.Listing, error) {
	query := DB.Where("status = ?", models.ListingStatusActive)

	if filter.ListingType != "" {
		query = query.Where("listing_type = ?", filter.ListingType)
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.MinPrice > 0 {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}

	var listings []models.Listing
	err := query.Order("created_at DESC").Find(&listings).Error
	return listings, err
}

// GetUserListings returns all listings owned by the user, newest first
func GetUserListings(userID string) ([]models.Listing, error) {
	var listings []models.Listing
	err := DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&listings).Error
	return listings, err
}

// UpdateListingFields updates a listing owned by the given user.
// Returns gorm.ErrRecordNotFound when the listing does not exist or
// belongs to someone else.
func UpdateListingFields(listingID, userID string, updates map[string]interface{}) error {
	result := DB.Model(&models.Listing{}).
		Where("id = ? AND user_id = ?", listingID, userID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveListing marks a listing removed instead of purging the row
func RemoveListing(listingID, userID string) error {
	return UpdateListingFields(listingID, userID, map[string]interface{}{
		"status": models.ListingStatusRemoved,
	})
}
