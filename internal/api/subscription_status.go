package api

import (
	"net/http"
	"time"

	"primedrive-api/internal/database"
	"primedrive-api/internal/middleware"
	"primedrive-api/internal/services"

	"github.com/gin-gonic/gin"
)

// SubscriptionStatusResponse represents subscription status response
type SubscriptionStatusResponse struct {
	Success          bool       `json:"success"`
	Message          string     `json:"message,omitempty"`
	CurrentTier      string     `json:"current_tier,omitempty"`
	PricePula        int        `json:"price_pula"`
	ListingLimit     *int       `json:"listing_limit"`
	ListingCount     int64      `json:"listing_count"`
	IsActive         bool       `json:"is_active"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	DaysRemaining    *int       `json:"days_remaining,omitempty"`
	CanCreateListing bool       `json:"can_create_listing"`
}

// GetSubscriptionStatus returns the caller's subscription status,
// lazily downgrading the account if the paid period has lapsed
// GET /api/subscriptions/status
func GetSubscriptionStatus(c *gin.Context) {
	user := middleware.CurrentUser(c)

	tier, _, err := services.EnforceSubscription(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, SubscriptionStatusResponse{
			Success: false,
			Message: "Failed to check subscription",
		})
		return
	}

	count, err := database.CountActiveListings(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, SubscriptionStatusResponse{
			Success: false,
			Message: "Failed to count listings",
		})
		return
	}

	var daysRemaining *int
	if user.SubscriptionExpiresAt != nil {
		days := int(time.Until(*user.SubscriptionExpiresAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		daysRemaining = &days
	}

	canCreate := tier.Unlimited() || count < int64(*tier.ListingLimit)

	c.JSON(http.StatusOK, SubscriptionStatusResponse{
		Success:          true,
		CurrentTier:      tier.Name,
		PricePula:        tier.PricePula,
		ListingLimit:     tier.ListingLimit,
		ListingCount:     count,
		IsActive:         true,
		ExpiresAt:        user.SubscriptionExpiresAt,
		DaysRemaining:    daysRemaining,
		CanCreateListing: canCreate,
	})
}
