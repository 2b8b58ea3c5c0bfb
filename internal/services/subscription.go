package services

import (
	"time"

	"primedrive-api/internal/config"
	"primedrive-api/internal/database"
	"primedrive-api/internal/models"
	"primedrive-api/pkg/logging"
)

// ActivateSubscription puts the user on the purchased tier and extends the
// expiry by one billing period. An unexpired paid period stacks: the new
// period is added onto the current expiry instead of starting from now.
func ActivateSubscription(userID string, tierID uint) error {
	user, err := database.GetUserByID(userID)
	if err != nil {
		return err
	}

	now := time.Now()
	duration := time.Duration(config.AppConfig.SubscriptionDurationDays) * 24 * time.Hour

	base := now
	if user.SubscriptionExpiresAt != nil && user.SubscriptionExpiresAt.After(now) {
		base = *user.SubscriptionExpiresAt
	}
	expiresAt := base.Add(duration)

	if err := database.SetUserSubscription(userID, tierID, &expiresAt); err != nil {
		return err
	}

	logging.Infof("User %s subscription activated, tier=%d, expires=%s", userID, tierID, expiresAt.Format(time.RFC3339))
	return nil
}

// EnforceSubscription lazily downgrades a single account whose paid period
// has lapsed, the same correction the downgrade sweep applies in bulk.
// Returns the effective tier and whether a downgrade happened.
func EnforceSubscription(user *models.User) (*models.Tier, bool, error) {
	// Free tier never expires
	if user.CurrentTier.Name == models.TierFree {
		return &user.CurrentTier, false, nil
	}

	if user.SubscriptionExpiresAt != nil && user.SubscriptionExpiresAt.Before(time.Now()) {
		freeTier, err := database.GetTierByName(models.TierFree)
		if err != nil {
			return nil, false, err
		}
		if err := database.SetUserSubscription(user.ID, freeTier.ID, nil); err != nil {
			return nil, false, err
		}

		logging.Infof("User %s downgraded from %s to free (expired)", user.ID, user.CurrentTier.Name)

		user.CurrentTierID = freeTier.ID
		user.CurrentTier = *freeTier
		user.SubscriptionExpiresAt = nil
		return freeTier, true, nil
	}

	return &user.CurrentTier, false, nil
}
