package database

import (
	"time"

	"primedrive-api/internal/models"
	"primedrive-api/pkg/logging"
)

// CreateUser creates a new user account
func CreateUser(user *models.User) error {
	return DB.Create(user).Error
}

// GetUserByID gets a user with their current tier preloaded
func GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := DB.Preload("CurrentTier").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail gets a user by email
func GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := DB.Preload("CurrentTier").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserContact updates the owner-editable contact fields
func UpdateUserContact(userID string, updates map[string]interface{}) error {
	return DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

// SetUserSubscription sets the user's tier and subscription expiry
func SetUserSubscription(userID string, tierID uint, expiresAt *time.Time) error {
	return DB.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"current_tier_id":         tierID,
		"subscription_expires_at": expiresAt,
	}).Error
}

// DowngradeExpiredSubscriptions resets every account whose paid period has
// lapsed back to the free tier and clears the expiry. Returns the number of
// accounts changed; running it again immediately is a no-op.
func DowngradeExpiredSubscriptions(now time.Time) (int64, error) {
	freeTier, err := GetTierByName(models.TierFree)
	if err != nil {
		return 0, err
	}

	result := DB.Model(&models.User{}).
		Where("subscription_expires_at IS NOT NULL AND subscription_expires_at < ? AND current_tier_id <> ?",
			now, freeTier.ID).
		Updates(map[string]interface{}{
			"current_tier_id":         freeTier.ID,
			"subscription_expires_at": nil,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logging.Infof("Downgraded %d expired subscriptions to free tier", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
