package api

import (
	"net/http"

	"primedrive-api/internal/database"
	"primedrive-api/internal/models"
	"primedrive-api/internal/response"

	"github.com/gin-gonic/gin"
)

// TierInfo represents one tier in the public catalog
type TierInfo struct {
	Name         string   `json:"name"`
	PricePula    int      `json:"price_pula"`
	ListingLimit *int     `json:"listing_limit"`
	Features     []string `json:"features"`
}

// tierFeatures lists the marketing bullet points per tier
var tierFeatures = map[string][]string{
	models.TierFree:     {"1 active listing", "90-day duration", "WhatsApp support"},
	models.TierBasic:    {"3 active listings", "90-day duration", "Priority WhatsApp support", "Edit listings"},
	models.TierStandard: {"10 active listings", "90-day duration", "Priority support", "Featured badge"},
	models.TierPremium:  {"Unlimited listings", "90-day duration", "Top placement", "Verified badge", "24/7 support"},
}

// GetTiers returns the subscription tier catalog
// GET /api/tiers
func GetTiers(c *gin.Context) {
	tiers, err := database.ListTiers()
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load tiers")
		return
	}

	infos := make([]TierInfo, len(tiers))
	for i, tier := range tiers {
		infos[i] = TierInfo{
			Name:         tier.Name,
			PricePula:    tier.PricePula,
			ListingLimit: tier.ListingLimit,
			Features:     tierFeatures[tier.Name],
		}
	}

	response.SuccessJSON(c, infos)
}
