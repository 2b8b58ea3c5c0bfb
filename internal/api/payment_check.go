package api

import (
	"fmt"
	"net/http"

	"primedrive-api/internal/database"
	"primedrive-api/internal/middleware"
	"primedrive-api/internal/models"
	"primedrive-api/internal/services"

	"github.com/gin-gonic/gin"
)

// PaymentStatusResponse represents a payment status response, shared by
// the confirm, check and admin decision endpoints
type PaymentStatusResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id,omitempty"`
	Status        string `json:"status,omitempty"`
	TierName      string `json:"tier_name,omitempty"`
	AmountPula    int    `json:"amount_pula,omitempty"`
}

// statusMessage explains a transaction's current status to the user
func statusMessage(txn *models.PaymentTransaction) string {
	switch txn.Status {
	case models.PaymentStatusPending:
		return fmt.Sprintf("Payment pending. Complete your P%d payment to activate %s tier.", txn.AmountPula, txn.Tier.Name)
	case models.PaymentStatusAwaitingVerification:
		return fmt.Sprintf("Payment submitted. Waiting for verification of your %s tier upgrade.", txn.Tier.Name)
	case models.PaymentStatusCompleted:
		return fmt.Sprintf("Payment complete! Your %s tier is active.", txn.Tier.Name)
	case models.PaymentStatusFailed:
		return "Payment failed. Please try again or contact support."
	case models.PaymentStatusRefunded:
		return "This payment has been refunded."
	}
	return "Unknown status"
}

// CheckPaymentStatus checks one payment's status. For Orange Money
// transactions still pending it polls the rail and applies the outcome.
// GET /api/subscriptions/check-payment/:id
func CheckPaymentStatus(c *gin.Context) {
	user := middleware.CurrentUser(c)
	transactionID := c.Param("id")

	txn, err := database.GetUserTransactionByID(transactionID, user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, PaymentStatusResponse{
			Success: false,
			Message: "Transaction not found",
		})
		return
	}

	if txn.PaymentMethod == models.PaymentMethodOrangeMoney &&
		txn.Status == models.PaymentStatusPending &&
		txn.OrangeMoneyOrderID != "" {

		railStatus, err := services.Gateway.CheckTransactionStatus(txn.OrangeMoneyOrderID, txn.AmountPula)
		if err == nil {
			switch {
			case services.IsRailSuccess(railStatus):
				err := services.CompletePayment(txn, []string{models.PaymentStatusPending}, railStatus, "", "")
				if err == database.ErrTransitionConflict {
					// Another actor finished the row first; report its outcome
					if fresh, err := database.GetUserTransactionByID(transactionID, user.ID); err == nil {
						txn = fresh
					}
				} else if err != nil {
					c.JSON(http.StatusInternalServerError, PaymentStatusResponse{
						Success: false,
						Message: "Failed to record payment",
					})
					return
				}
			case services.IsRailFailure(railStatus):
				err := services.FailPayment(txn, []string{models.PaymentStatusPending}, railStatus, "")
				if err == database.ErrTransitionConflict {
					if fresh, err := database.GetUserTransactionByID(transactionID, user.ID); err == nil {
						txn = fresh
					}
				} else if err != nil {
					c.JSON(http.StatusInternalServerError, PaymentStatusResponse{
						Success: false,
						Message: "Failed to record payment",
					})
					return
				}
			}
			// UNKNOWN leaves the row untouched; the caller may poll again
		}
	}

	c.JSON(http.StatusOK, PaymentStatusResponse{
		Success:       true,
		TransactionID: txn.ID,
		Status:        txn.Status,
		TierName:      txn.Tier.Name,
		AmountPula:    txn.AmountPula,
		Message:       statusMessage(txn),
	})
}
