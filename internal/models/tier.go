package models

// Tier names seeded at startup
const (
	TierFree     = "free"
	TierBasic    = "basic"
	TierStandard = "standard"
	TierPremium  = "premium"
)

// Tier represents a subscription tier
// Reference data: seeded at initialization, read-only at runtime
type Tier struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"uniqueIndex;not null;size:20"`
	PricePula int    `json:"price_pula" gorm:"not null;default:0"`
	// ListingLimit is the maximum number of simultaneously active listings.
	// nil means unlimited.
	ListingLimit *int `json:"listing_limit"`
	SortOrder    int  `json:"-" gorm:"not null;default:0"`
}

// TableName specifies the table name
func (Tier) TableName() string {
	return "subscription_tiers"
}

// Unlimited reports whether the tier has no listing quota
func (t *Tier) Unlimited() bool {
	return t.ListingLimit == nil
}
