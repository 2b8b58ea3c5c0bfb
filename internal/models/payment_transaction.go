package models

import (
	"time"
)

// Payment methods
const (
	PaymentMethodOrangeMoney = "orange_money"
	PaymentMethodMyZaka      = "myzaka"
	PaymentMethodManual      = "manual"
)

// Payment statuses. pending and awaiting_verification are open states;
// completed, failed and refunded are terminal.
const (
	PaymentStatusPending              = "pending"
	PaymentStatusAwaitingVerification = "awaiting_verification"
	PaymentStatusCompleted            = "completed"
	PaymentStatusFailed               = "failed"
	PaymentStatusRefunded             = "refunded"
)

// StalePaymentAge is how long a transaction may stay pending before the
// expiry sweep fails it
const StalePaymentAge = 24 * time.Hour

// PaymentTransaction records one subscription purchase attempt.
// Rows are never deleted; status transitions are driven by the Orange Money
// webhook, user confirmation, admin decision or the stale-payment sweep.
type PaymentTransaction struct {
	UUIDModel

	UserID string `json:"user_id" gorm:"type:uuid;not null;index"`
	TierID uint   `json:"tier_id" gorm:"not null;index"`
	Tier   Tier   `json:"-" gorm:"foreignKey:TierID"`

	AmountPula    int    `json:"amount_pula" gorm:"not null"`
	PaymentMethod string `json:"payment_method" gorm:"not null;size:20"`

	// TransactionReference is the idempotency key against duplicate
	// webhook delivery
	TransactionReference string `json:"transaction_reference" gorm:"uniqueIndex;not null;size:40"`
	// UserPaymentReference is the receipt reference supplied on confirmation
	UserPaymentReference string `json:"user_payment_reference" gorm:"size:100"`

	// Orange Money correlation fields
	OrangeMoneyOrderID       string `json:"orange_money_order_id" gorm:"index;size:40"`
	OrangeMoneyPayToken      string `json:"orange_money_pay_token" gorm:"size:100"`
	OrangeMoneyTransactionID string `json:"orange_money_transaction_id" gorm:"size:100"`
	OrangeMoneyStatus        string `json:"orange_money_status" gorm:"size:30"`

	AdminNotes string `json:"admin_notes" gorm:"type:text"`

	Status      string     `json:"status" gorm:"not null;size:25;index"`
	CompletedAt *time.Time `json:"completed_at"`
}

// TableName specifies the table name
func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

// IsTerminal reports whether no further transition is defined for the
// transaction's current status
func (t *PaymentTransaction) IsTerminal() bool {
	switch t.Status {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}
