package api

import (
	"fmt"
	"net/http"

	"primedrive-api/internal/database"
	"primedrive-api/internal/models"
	"primedrive-api/internal/services"
	"primedrive-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// AdminPaymentRequest represents an admin approve/reject request
type AdminPaymentRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	AdminNotes    string `json:"admin_notes"`
}

// openStatuses are the non-terminal states an admin decision may act on.
// Approval directly from pending (skipping awaiting_verification) is
// allowed so admins can settle payments reported out of band.
var openStatuses = []string{models.PaymentStatusPending, models.PaymentStatusAwaitingVerification}

// AdminApprovePayment approves a payment and activates the subscription
// POST /api/admin/payments/approve
func AdminApprovePayment(c *gin.Context) {
	var req AdminPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, PaymentStatusResponse{
			Success: false,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	txn, err := database.GetTransactionByID(req.TransactionID)
	if err != nil {
		c.JSON(http.StatusNotFound, PaymentStatusResponse{
			Success: false,
			Message: "Transaction not found",
		})
		return
	}

	err = services.CompletePayment(txn, openStatuses, "", "", req.AdminNotes)
	if err == database.ErrTransitionConflict {
		c.JSON(http.StatusConflict, PaymentStatusResponse{
			Success:       false,
			TransactionID: txn.ID,
			Status:        txn.Status,
			Message:       "Transaction is not awaiting approval",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, PaymentStatusResponse{
			Success: false,
			Message: "Failed to approve payment",
		})
		return
	}

	logging.Infof("Admin approved payment %s for user %s -> %s", txn.ID, txn.UserID, txn.Tier.Name)
	if user, err := database.GetUserByID(txn.UserID); err == nil {
		go services.Mail.SendUpgradeReceipt(user, txn)
	}

	c.JSON(http.StatusOK, PaymentStatusResponse{
		Success:       true,
		TransactionID: txn.ID,
		Status:        txn.Status,
		TierName:      txn.Tier.Name,
		AmountPula:    txn.AmountPula,
		Message:       fmt.Sprintf("Payment approved. User upgraded to %s tier.", txn.Tier.Name),
	})
}

// AdminRejectPayment rejects a payment; no account side effect
// POST /api/admin/payments/reject
func AdminRejectPayment(c *gin.Context) {
	var req AdminPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, PaymentStatusResponse{
			Success: false,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	txn, err := database.GetTransactionByID(req.TransactionID)
	if err != nil {
		c.JSON(http.StatusNotFound, PaymentStatusResponse{
			Success: false,
			Message: "Transaction not found",
		})
		return
	}

	err = services.FailPayment(txn, openStatuses, "", req.AdminNotes)
	if err == database.ErrTransitionConflict {
		c.JSON(http.StatusConflict, PaymentStatusResponse{
			Success:       false,
			TransactionID: txn.ID,
			Status:        txn.Status,
			Message:       "Transaction is not awaiting approval",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, PaymentStatusResponse{
			Success: false,
			Message: "Failed to reject payment",
		})
		return
	}

	logging.Infof("Admin rejected payment %s", txn.ID)

	message := "Payment rejected."
	if req.AdminNotes != "" {
		message = fmt.Sprintf("Payment rejected. Reason: %s", req.AdminNotes)
	}

	c.JSON(http.StatusOK, PaymentStatusResponse{
		Success:       true,
		TransactionID: txn.ID,
		Status:        txn.Status,
		TierName:      txn.Tier.Name,
		AmountPula:    txn.AmountPula,
		Message:       message,
	})
}

// AdminGetPendingPayments lists all payments awaiting a decision
// GET /api/admin/payments/pending
func AdminGetPendingPayments(c *gin.Context) {
	txns, err := database.ListOpenTransactions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, TransactionListResponse{
			Success: false,
			Message: "Failed to get pending payments",
		})
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Success:      true,
		Transactions: transactionItems(txns),
	})
}
