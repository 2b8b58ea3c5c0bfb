package api

import (
	"errors"
	"net/http"
	"testing"

	"primedrive-api/internal/database"
	"primedrive-api/internal/models"
	"primedrive-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitiateSubscriptionOrangeMoney(t *testing.T) {
	r := setupAPITest(t)
	_, token := newAPITestUser(t, "buyer@example.com", models.TierFree, false)

	w := doJSON(t, r, http.MethodPost, "/api/subscriptions/initiate", token, gin.H{
		"tier":           "basic",
		"payment_method": "orange_money",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp PaymentInitResponse
	decodeBody(t, w, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "https://webpayment.orange-money.example/pay/stub", resp.PaymentURL)
	assert.Equal(t, models.PaymentStatusPending, resp.Status)

	txn, err := database.GetTransactionByID(resp.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, 50, txn.AmountPula)
	assert.Equal(t, models.PaymentMethodOrangeMoney, txn.PaymentMethod)
	assert.Equal(t, txn.TransactionReference, txn.OrangeMoneyOrderID)
	assert.Equal(t, "stub-pay-token", txn.OrangeMoneyPayToken)
}

func TestInitiateSubscriptionFallsBackToManual(t *testing.T) {
	r := setupAPITest(t)
	_, token := newAPITestUser(t, "buyer@example.com", models.TierFree, false)

	services.Gateway = &stubGateway{initErr: errors.New("rail down")}

	w := doJSON(t, r, http.MethodPost, "/api/subscriptions/initiate", token, gin.H{
		"tier":           "basic",
		"payment_method": "orange_money",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp PaymentInitResponse
	decodeBody(t, w, &resp)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.PaymentURL)

	txn, err := database.GetTransactionByID(resp.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodManual, txn.PaymentMethod)
}

func TestInitiateSubscriptionRejectsFreeTier(t *testing.T) {
	r := setupAPITest(t)
	_, token := newAPITestUser(t, "buyer@example.com", models.TierFree, false)

	w := doJSON(t, r, http.MethodPost, "/api/subscriptions/initiate", token, gin.H{
		"tier": "free",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInitiateSubscriptionReturnsExistingPending(t *testing.T) {
	r := setupAPITest(t)
	user, token := newAPITestUser(t, "buyer@example.com", models.TierFree, false)
	existing := newAPITestTransaction(t, user, models.TierBasic)

	w := doJSON(t, r, http.MethodPost, "/api/subscriptions/initiate", token, gin.H{
		"tier":           "basic",
		"payment_method": "myzaka",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp PaymentInitResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, existing.ID, resp.TransactionID)
}

func TestConfirmPaymentQueuesForVerification(t *testing.T) {
	r := setupAPITest(t)
	user, token := newAPITestUser(t, "buyer@example.com", models.TierFree, false)
	txn := newAPITestTransaction(t, user, models.TierStandard)

	w := doJSON(t, r, http.MethodPost, "/api/subscriptions/confirm", token, gin.H{
		"transaction_id":    txn.ID,
		"payment_reference": "MZ12345678",
	})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := database.GetTransactionByID(txn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusAwaitingVerification, stored.Status)
	assert.Equal(t, "MZ12345678", stored.UserPaymentReference)

	// A second confirm finds the row past pending
	w = doJSON(t, r, http.MethodPost, "/api/subscriptions/confirm", token, gin.H{
		"transaction_id":    txn.ID,
		"payment_reference": "MZ12345678",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestConfirmPaymentScopedToOwner(t *testing.T) {
	r := setupAPITest(t)
	owner, _ := newAPITestUser(t, "owner@example.com", models.TierFree, false)
	_, otherToken := newAPITestUser(t, "other@example.com", models.TierFree, false)
	txn := newAPITestTransaction(t, owner, models.TierBasic)

	w := doJSON(t, r, http.MethodPost, "/api/subscriptions/confirm", otherToken, gin.H{
		"transaction_id":    txn.ID,
		"payment_reference": "MZ00000000",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckPaymentAppliesRailSuccess(t *testing.T) {
	r := setupAPITest(t)
	user, token := newAPITestUser(t, "buyer@example.com", models.TierFree, false)
	txn := newAPITestTransaction(t, user, models.TierBasic)

	services.Gateway = &stubGateway{status: "SUCCESS"}

	w := doJSON(t, r, http.MethodGet, "/api/subscriptions/check-payment/"+txn.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp PaymentStatusResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, models.PaymentStatusCompleted, resp.Status)

	upgraded, err := database.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierBasic, upgraded.CurrentTier.Name)
}

func TestCheckPaymentLeavesRowOnUnknown(t *testing.T) {
	r := setupAPITest(t)
	user, token := newAPITestUser(t, "buyer@example.com", models.TierFree, false)
	txn := newAPITestTransaction(t, user, models.TierBasic)

	w := doJSON(t, r, http.MethodGet, "/api/subscriptions/check-payment/"+txn.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp PaymentStatusResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, models.PaymentStatusPending, resp.Status)
}

func TestSubscriptionStatus(t *testing.T) {
	r := setupAPITest(t)
	_, token := newAPITestUser(t, "status@example.com", models.TierFree, false)

	w := doJSON(t, r, http.MethodGet, "/api/subscriptions/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SubscriptionStatusResponse
	decodeBody(t, w, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, models.TierFree, resp.CurrentTier)
	require.NotNil(t, resp.ListingLimit)
	assert.Equal(t, 1, *resp.ListingLimit)
	assert.True(t, resp.CanCreateListing)
}

func TestTransactionHistory(t *testing.T) {
	r := setupAPITest(t)
	user, token := newAPITestUser(t, "history@example.com", models.TierFree, false)
	txn := newAPITestTransaction(t, user, models.TierBasic)

	w := doJSON(t, r, http.MethodGet, "/api/subscriptions/transactions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp TransactionListResponse
	decodeBody(t, w, &resp)
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, txn.ID, resp.Transactions[0].ID)
	assert.Equal(t, models.TierBasic, resp.Transactions[0].TierName)
}
