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

// ConfirmPaymentRequest represents confirm payment request
type ConfirmPaymentRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	// PaymentReference is the receipt reference from the user's mobile
	// money statement
	PaymentReference string `json:"payment_reference" binding:"required"`
}

// ConfirmPayment records the user's receipt reference and queues the
// transaction for admin verification
// POST /api/subscriptions/confirm
func ConfirmPayment(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, PaymentStatusResponse{
			Success: false,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	txn, err := database.GetUserTransactionByID(req.TransactionID, user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, PaymentStatusResponse{
			Success: false,
			Message: "Transaction not found",
		})
		return
	}

	err = database.TransitionStatus(txn.ID, []string{models.PaymentStatusPending}, map[string]interface{}{
		"status":                 models.PaymentStatusAwaitingVerification,
		"user_payment_reference": req.PaymentReference,
	})
	if err == database.ErrTransitionConflict {
		c.JSON(http.StatusConflict, PaymentStatusResponse{
			Success:       false,
			TransactionID: txn.ID,
			Status:        txn.Status,
			Message:       "Transaction is not awaiting payment",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, PaymentStatusResponse{
			Success: false,
			Message: "Failed to confirm payment",
		})
		return
	}

	txn.Status = models.PaymentStatusAwaitingVerification
	txn.UserPaymentReference = req.PaymentReference
	go services.Mail.NotifyPaymentSubmitted(txn, user)

	c.JSON(http.StatusOK, PaymentStatusResponse{
		Success:       true,
		TransactionID: txn.ID,
		Status:        txn.Status,
		TierName:      txn.Tier.Name,
		AmountPula:    txn.AmountPula,
		Message: fmt.Sprintf("Payment reference received. Your %s tier upgrade will be activated "+
			"once we verify the payment. This usually takes a few minutes during business hours.", txn.Tier.Name),
	})
}
