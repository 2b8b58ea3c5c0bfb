package api

import (
	"net/http"

	"primedrive-api/internal/database"
	"primedrive-api/internal/models"
	"primedrive-api/internal/services"
	"primedrive-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// OrangeMoneyCallback represents the rail's server-to-server notification
type OrangeMoneyCallback struct {
	OrderID       string  `json:"order_id" binding:"required"`
	Status        string  `json:"status" binding:"required"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
}

// OrangeMoneyWebhook handles the Orange Money payment callback.
// Delivery is at-least-once: a repeated callback for an already-settled
// transaction is acknowledged as a no-op.
// POST /api/webhooks/orange-money
func OrangeMoneyWebhook(c *gin.Context) {
	var callback OrangeMoneyCallback
	if err := c.ShouldBindJSON(&callback); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "invalid_payload"})
		return
	}

	logging.Infof("Orange Money webhook received: order_id=%s, status=%s", callback.OrderID, callback.Status)

	txn, err := database.GetTransactionByOrderID(callback.OrderID)
	if err != nil {
		logging.Warnf("Webhook: transaction not found for order_id=%s", callback.OrderID)
		c.JSON(http.StatusNotFound, gin.H{"status": "transaction_not_found"})
		return
	}

	// Prevent double-processing
	if txn.IsTerminal() {
		logging.Infof("Webhook: transaction %s already %s, skipping", txn.ID, txn.Status)
		c.JSON(http.StatusOK, gin.H{"status": "already_processed"})
		return
	}

	// Verify amount matches the ledger row exactly; fractional amounts are
	// never valid for whole-Pula tiers
	if callback.Amount != float64(txn.AmountPula) {
		logging.Warnf("Webhook: amount mismatch for %s: expected %d, got %v",
			txn.ID, txn.AmountPula, callback.Amount)
		if err := services.FailPayment(txn, openStatuses, "AMOUNT_MISMATCH", ""); err != nil &&
			err != database.ErrTransitionConflict {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "amount_mismatch"})
		return
	}

	// Like the admin decision, the callback settles the row from either
	// open state: a user who confirmed a manual reference while the rail
	// callback was in flight still gets their upgrade.
	if services.IsRailSuccess(callback.Status) {
		err := services.CompletePayment(txn, openStatuses,
			callback.Status, callback.TransactionID, "")
		if err == database.ErrTransitionConflict {
			// Lost the race to another actor; if the winner also completed
			// the transaction this is the idempotent-repeat case
			fresh, ferr := database.GetTransactionByOrderID(callback.OrderID)
			if ferr == nil && fresh.Status == models.PaymentStatusCompleted {
				c.JSON(http.StatusOK, gin.H{"status": "already_processed"})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"status": "conflict"})
			return
		}
		if err != nil {
			logging.Errorf("Webhook: failed to complete transaction %s: %v", txn.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
			return
		}

		logging.Infof("Webhook: subscription activated for user %s", txn.UserID)
		if user, err := database.GetUserByID(txn.UserID); err == nil {
			go services.Mail.SendUpgradeReceipt(user, txn)
		}
	} else {
		err := services.FailPayment(txn, openStatuses, callback.Status, "")
		if err == database.ErrTransitionConflict {
			c.JSON(http.StatusConflict, gin.H{"status": "conflict"})
			return
		}
		if err != nil {
			logging.Errorf("Webhook: failed to fail transaction %s: %v", txn.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
			return
		}
		logging.Infof("Webhook: payment failed for transaction %s", txn.ID)
	}

	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}
