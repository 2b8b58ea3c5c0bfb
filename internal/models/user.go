package models

import (
	"time"
)

// User represents a marketplace account
// The uuid id is shared with the auth identity issued at signup
type User struct {
	UUIDModel

	Email        string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string `json:"-" gorm:"not null"`
	Phone        string `json:"phone" gorm:"size:30"`
	WhatsApp     string `json:"whatsapp" gorm:"size:30"`
	IsAdmin      bool   `json:"is_admin" gorm:"not null;default:false"`

	// Subscription state. CurrentTierID defaults to the free tier at signup;
	// SubscriptionExpiresAt is only meaningful on a paid tier.
	CurrentTierID         uint       `json:"current_tier_id" gorm:"not null;index"`
	CurrentTier           Tier       `json:"-" gorm:"foreignKey:CurrentTierID"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at" gorm:"index"`

	// Owned rows, removed with the account
	Listings     []Listing            `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Transactions []PaymentTransaction `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
