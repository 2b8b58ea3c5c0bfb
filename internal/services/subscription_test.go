package services

import (
	"testing"
	"time"

	"primedrive-api/internal/database"
	"primedrive-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivateSubscriptionFromFree(t *testing.T) {
	setupServiceTest(t)
	user := newServiceTestUser(t, "upgrade@example.com", models.TierFree)

	basic, err := database.GetTierByName(models.TierBasic)
	require.NoError(t, err)

	require.NoError(t, ActivateSubscription(user.ID, basic.ID))

	updated, err := database.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierBasic, updated.CurrentTier.Name)
	require.NotNil(t, updated.SubscriptionExpiresAt)

	expected := time.Now().Add(30 * 24 * time.Hour)
	assert.WithinDuration(t, expected, *updated.SubscriptionExpiresAt, time.Minute)
}

func TestActivateSubscriptionStacksRemainingTime(t *testing.T) {
	setupServiceTest(t)
	user := newServiceTestUser(t, "renew@example.com", models.TierFree)

	basic, err := database.GetTierByName(models.TierBasic)
	require.NoError(t, err)

	// Ten days left on the current period; renewing adds a full period on top
	current := time.Now().Add(10 * 24 * time.Hour)
	require.NoError(t, database.SetUserSubscription(user.ID, basic.ID, &current))

	require.NoError(t, ActivateSubscription(user.ID, basic.ID))

	updated, err := database.GetUserByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.SubscriptionExpiresAt)

	expected := time.Now().Add(40 * 24 * time.Hour)
	assert.WithinDuration(t, expected, *updated.SubscriptionExpiresAt, time.Minute)
}

func TestActivateSubscriptionIgnoresLapsedExpiry(t *testing.T) {
	setupServiceTest(t)
	user := newServiceTestUser(t, "lapsed@example.com", models.TierFree)

	basic, err := database.GetTierByName(models.TierBasic)
	require.NoError(t, err)

	// A long-expired period must not drag the new expiry into the past
	old := time.Now().Add(-60 * 24 * time.Hour)
	require.NoError(t, database.SetUserSubscription(user.ID, basic.ID, &old))

	require.NoError(t, ActivateSubscription(user.ID, basic.ID))

	updated, err := database.GetUserByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.SubscriptionExpiresAt)

	expected := time.Now().Add(30 * 24 * time.Hour)
	assert.WithinDuration(t, expected, *updated.SubscriptionExpiresAt, time.Minute)
}

func TestEnforceSubscriptionDowngradesLapsedAccount(t *testing.T) {
	setupServiceTest(t)
	user := newServiceTestUser(t, "expired@example.com", models.TierFree)

	standard, err := database.GetTierByName(models.TierStandard)
	require.NoError(t, err)

	yesterday := time.Now().Add(-24 * time.Hour)
	require.NoError(t, database.SetUserSubscription(user.ID, standard.ID, &yesterday))

	loaded, err := database.GetUserByID(user.ID)
	require.NoError(t, err)

	tier, downgraded, err := EnforceSubscription(loaded)
	require.NoError(t, err)
	assert.True(t, downgraded)
	assert.Equal(t, models.TierFree, tier.Name)

	// Both the in-memory user and the stored row are corrected
	assert.Equal(t, models.TierFree, loaded.CurrentTier.Name)
	assert.Nil(t, loaded.SubscriptionExpiresAt)

	stored, err := database.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, stored.CurrentTier.Name)
	assert.Nil(t, stored.SubscriptionExpiresAt)
}

func TestEnforceSubscriptionKeepsCurrentAccount(t *testing.T) {
	setupServiceTest(t)
	user := newServiceTestUser(t, "active@example.com", models.TierFree)

	premium, err := database.GetTierByName(models.TierPremium)
	require.NoError(t, err)

	nextWeek := time.Now().Add(7 * 24 * time.Hour)
	require.NoError(t, database.SetUserSubscription(user.ID, premium.ID, &nextWeek))

	loaded, err := database.GetUserByID(user.ID)
	require.NoError(t, err)

	tier, downgraded, err := EnforceSubscription(loaded)
	require.NoError(t, err)
	assert.False(t, downgraded)
	assert.Equal(t, models.TierPremium, tier.Name)
}
