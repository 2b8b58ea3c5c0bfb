package services

import (
	"fmt"
	"strings"
	"time"

	"primedrive-api/internal/database"
	"primedrive-api/internal/models"
	"primedrive-api/pkg/logging"
)

// Gateway is the payment rail used by the subscription endpoints.
// Wired to the real Orange Money client at startup; tests substitute it.
var Gateway PaymentGateway

// Mail delivers payment notification emails. nil-safe: a disabled mailer
// logs and drops.
var Mail *Mailer

// InitServices wires the external collaborators
func InitServices() {
	Gateway = NewOrangeMoneyClient()
	Mail = NewMailer()
}

// NewTransactionReference builds the globally unique external reference
// for a transaction, e.g. PD-20260829-4F2A91BC
func NewTransactionReference(txnID string) string {
	short := strings.ToUpper(strings.ReplaceAll(txnID, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("PD-%s-%s", time.Now().UTC().Format("20060102"), short)
}

// CompletePayment moves a transaction to completed and activates the
// purchased tier on the owning account. from lists the statuses the
// transaction may currently be in; anything else is a conflict.
func CompletePayment(txn *models.PaymentTransaction, from []string, railStatus, railTxnID, adminNotes string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.PaymentStatusCompleted,
		"completed_at": now,
	}
	if railStatus != "" {
		updates["orange_money_status"] = railStatus
	}
	if railTxnID != "" {
		updates["orange_money_transaction_id"] = railTxnID
	}
	if adminNotes != "" {
		updates["admin_notes"] = adminNotes
	}

	if err := database.TransitionStatus(txn.ID, from, updates); err != nil {
		return err
	}
	txn.Status = models.PaymentStatusCompleted
	txn.CompletedAt = &now

	if err := ActivateSubscription(txn.UserID, txn.TierID); err != nil {
		return err
	}

	logging.Infof("Payment %s completed for user %s (tier %d)", txn.ID, txn.UserID, txn.TierID)
	return nil
}

// FailPayment moves a transaction to failed. No account side effect.
func FailPayment(txn *models.PaymentTransaction, from []string, railStatus, adminNotes string) error {
	updates := map[string]interface{}{
		"status": models.PaymentStatusFailed,
	}
	if railStatus != "" {
		updates["orange_money_status"] = railStatus
	}
	if adminNotes != "" {
		updates["admin_notes"] = adminNotes
	}

	if err := database.TransitionStatus(txn.ID, from, updates); err != nil {
		return err
	}
	txn.Status = models.PaymentStatusFailed

	logging.Infof("Payment %s failed (rail status %q)", txn.ID, railStatus)
	return nil
}
