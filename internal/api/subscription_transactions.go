package api

import (
	"net/http"
	"time"

	"primedrive-api/internal/database"
	"primedrive-api/internal/middleware"
	"primedrive-api/internal/models"

	"github.com/gin-gonic/gin"
)

// transactionHistoryLimit caps the history endpoint
const transactionHistoryLimit = 50

// TransactionItem represents one transaction in a history listing
type TransactionItem struct {
	ID                   string     `json:"id"`
	AmountPula           int        `json:"amount_pula"`
	PaymentMethod        string     `json:"payment_method"`
	TransactionReference string     `json:"transaction_reference"`
	Status               string     `json:"status"`
	TierName             string     `json:"tier_name,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

// TransactionListResponse represents a transaction history response
type TransactionListResponse struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message,omitempty"`
	Transactions []TransactionItem `json:"transactions"`
}

// transactionItems maps ledger rows to the response shape
func transactionItems(txns []models.PaymentTransaction) []TransactionItem {
	items := make([]TransactionItem, len(txns))
	for i, txn := range txns {
		items[i] = TransactionItem{
			ID:                   txn.ID,
			AmountPula:           txn.AmountPula,
			PaymentMethod:        txn.PaymentMethod,
			TransactionReference: txn.TransactionReference,
			Status:               txn.Status,
			TierName:             txn.Tier.Name,
			CreatedAt:            txn.CreatedAt,
			CompletedAt:          txn.CompletedAt,
		}
	}
	return items
}

// GetTransactions returns the caller's payment history
// GET /api/subscriptions/transactions
func GetTransactions(c *gin.Context) {
	user := middleware.CurrentUser(c)

	txns, err := database.GetUserTransactions(user.ID, transactionHistoryLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, TransactionListResponse{
			Success: false,
			Message: "Failed to get transactions",
		})
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Success:      true,
		Transactions: transactionItems(txns),
	})
}
