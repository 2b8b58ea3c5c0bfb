package database

import (
	"testing"

	"primedrive-api/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// setupTestDB swaps the package connection for a fresh in-memory SQLite
// database with the schema migrated and the tier catalog seeded.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)

	// Every pooled connection to :memory: is a different database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	prev := DB
	DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		DB = prev
	})

	require.NoError(t, autoMigrate())
	require.NoError(t, seedTiers())
}

// createTestUser inserts a user on the named tier
func createTestUser(t *testing.T, email, tierName string) *models.User {
	t.Helper()

	tier, err := GetTierByName(tierName)
	require.NoError(t, err)

	user := &models.User{
		Email:         email,
		PasswordHash:  "not-a-real-hash",
		Phone:         "26771000000",
		CurrentTierID: tier.ID,
	}
	require.NoError(t, CreateUser(user))

	loaded, err := GetUserByID(user.ID)
	require.NoError(t, err)
	return loaded
}

// createTestListing inserts a listing owned by the user
func createTestListing(t *testing.T, userID string) *models.Listing {
	t.Helper()

	listing := &models.Listing{
		UserID:       userID,
		Brand:        "Toyota",
		Model:        "Hilux",
		Year:         2019,
		Mileage:      85000,
		Transmission: "Manual",
		Condition:    "Used",
		Price:        185000,
		Location:     "Gaborone",
		ListingType:  models.ListingTypeSale,
	}
	require.NoError(t, CreateListing(listing))
	return listing
}

func TestSeedTiersIsIdempotent(t *testing.T) {
	setupTestDB(t)

	// Seeding again must not duplicate the catalog
	require.NoError(t, seedTiers())

	tiers, err := ListTiers()
	require.NoError(t, err)
	require.Len(t, tiers, 4)

	require.Equal(t, models.TierFree, tiers[0].Name)
	require.Equal(t, 0, tiers[0].PricePula)
	require.Equal(t, models.TierPremium, tiers[3].Name)
	require.True(t, tiers[3].Unlimited())
}
