package database

import (
	"errors"
	"time"

	"primedrive-api/internal/models"
	"primedrive-api/pkg/logging"
)

// ErrTransitionConflict is returned when a status transition finds the
// transaction no longer in the expected prior state. One of two racing
// actors wins; the loser observes this conflict instead of corrupting
// the row.
var ErrTransitionConflict = errors.New("payment transaction is not in the expected status")

// CreateTransaction creates a payment transaction
func CreateTransaction(txn *models.PaymentTransaction) error {
	return DB.Create(txn).Error
}

// GetTransactionByID gets a transaction with its tier preloaded
func GetTransactionByID(id string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := DB.Preload("Tier").Where("id = ?", id).First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetUserTransactionByID gets a transaction scoped to its owner
func GetUserTransactionByID(id, userID string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := DB.Preload("Tier").Where("id = ? AND user_id = ?", id, userID).First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetTransactionByOrderID finds a transaction by its Orange Money order id
func GetTransactionByOrderID(orderID string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := DB.Preload("Tier").Where("orange_money_order_id = ?", orderID).First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetPendingTransaction finds the user's open pending transaction for a
// tier, used to avoid creating duplicates on repeated initiation
func GetPendingTransaction(userID string, tierID uint) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := DB.Where("user_id = ? AND tier_id = ? AND status = ?",
		userID, tierID, models.PaymentStatusPending).First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetUserTransactions returns the user's most recent transactions
func GetUserTransactions(userID string, limit int) ([]models.PaymentTransaction, error) {
	var txns []models.PaymentTransaction
	err := DB.Preload("Tier").Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&txns).Error
	return txns, err
}

// ListOpenTransactions returns all pending and awaiting_verification
// transactions for the admin verification queue, newest first
func ListOpenTransactions() ([]models.PaymentTransaction, error) {
	var txns []models.PaymentTransaction
	err := DB.Preload("Tier").
		Where("status IN ?", []string{models.PaymentStatusPending, models.PaymentStatusAwaitingVerification}).
		Order("created_at DESC").Find(&txns).Error
	return txns, err
}

// TransitionStatus moves a transaction to a new status only if it is still
// in one of the expected prior statuses. The compare-and-swap is a single
// conditional UPDATE, so concurrent webhook, admin and sweep transitions
// cannot both apply; the loser gets ErrTransitionConflict.
func TransitionStatus(id string, from []string, updates map[string]interface{}) error {
	result := DB.Model(&models.PaymentTransaction{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTransitionConflict
	}
	return nil
}

// ExpireStalePayments fails every transaction still pending after the
// staleness window. Transactions awaiting verification are left for human
// adjudication. Returns the number of rows changed.
func ExpireStalePayments(now time.Time) (int64, error) {
	cutoff := now.Add(-models.StalePaymentAge)

	result := DB.Model(&models.PaymentTransaction{}).
		Where("status = ? AND created_at < ?", models.PaymentStatusPending, cutoff).
		Updates(map[string]interface{}{
			"status":              models.PaymentStatusFailed,
			"orange_money_status": "STALE",
		})
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logging.Infof("Expired %d stale pending payments", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
