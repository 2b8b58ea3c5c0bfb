package services

import (
	"testing"

	"primedrive-api/internal/config"
	"primedrive-api/internal/database"
	"primedrive-api/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// setupServiceTest points the database package at a fresh in-memory SQLite
// database and loads the default configuration.
func setupServiceTest(t *testing.T) {
	t.Helper()

	require.NoError(t, config.InitConfig())

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

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		sqlDB.Close()
		database.DB = prev
	})

	require.NoError(t, db.AutoMigrate(
		&models.Tier{},
		&models.User{},
		&models.Listing{},
		&models.PaymentTransaction{},
	))

	intPtr := func(n int) *int { return &n }
	tiers := []models.Tier{
		{Name: models.TierFree, PricePula: 0, ListingLimit: intPtr(1), SortOrder: 0},
		{Name: models.TierBasic, PricePula: 50, ListingLimit: intPtr(3), SortOrder: 1},
		{Name: models.TierStandard, PricePula: 150, ListingLimit: intPtr(10), SortOrder: 2},
		{Name: models.TierPremium, PricePula: 300, ListingLimit: nil, SortOrder: 3},
	}
	require.NoError(t, db.Create(&tiers).Error)
}

// newServiceTestUser inserts a user on the named tier
func newServiceTestUser(t *testing.T, email, tierName string) *models.User {
	t.Helper()

	tier, err := database.GetTierByName(tierName)
	require.NoError(t, err)

	user := &models.User{
		Email:         email,
		PasswordHash:  "not-a-real-hash",
		CurrentTierID: tier.ID,
	}
	require.NoError(t, database.CreateUser(user))

	loaded, err := database.GetUserByID(user.ID)
	require.NoError(t, err)
	return loaded
}
