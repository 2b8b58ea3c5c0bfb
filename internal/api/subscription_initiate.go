package api

import (
	"fmt"
	"net/http"

	"primedrive-api/internal/config"
	"primedrive-api/internal/database"
	"primedrive-api/internal/middleware"
	"primedrive-api/internal/models"
	"primedrive-api/internal/services"
	"primedrive-api/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InitiateSubscriptionRequest represents initiate subscription request
type InitiateSubscriptionRequest struct {
	Tier          string `json:"tier" binding:"required,oneof=free basic standard premium"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=orange_money myzaka manual"`
}

// PaymentInitResponse represents initiate subscription response
type PaymentInitResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	PaymentURL    string `json:"payment_url,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	Status        string `json:"status,omitempty"`
}

// InitiateSubscription starts a subscription purchase
// POST /api/subscriptions/initiate
func InitiateSubscription(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req InitiateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, PaymentInitResponse{
			Success: false,
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentMethodOrangeMoney
	}

	tier, err := database.GetTierByName(req.Tier)
	if err != nil {
		c.JSON(http.StatusNotFound, PaymentInitResponse{
			Success: false,
			Message: "Tier not found",
		})
		return
	}

	if tier.PricePula == 0 {
		c.JSON(http.StatusBadRequest, PaymentInitResponse{
			Success: false,
			Message: "Free tier doesn't require payment",
		})
		return
	}

	// Return the existing pending transaction instead of creating a
	// duplicate
	if existing, err := database.GetPendingTransaction(user.ID, tier.ID); err == nil {
		c.JSON(http.StatusOK, PaymentInitResponse{
			Success:       true,
			TransactionID: existing.ID,
			Status:        existing.Status,
			Message: fmt.Sprintf("You already have a pending payment for %s tier. "+
				"Complete your existing payment or wait for it to expire.", tier.Name),
		})
		return
	} else if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, PaymentInitResponse{
			Success: false,
			Message: "Service unavailable",
		})
		return
	}

	redisService := services.NewRedisService()
	limited, err := redisService.CheckPaymentRateLimit(user.ID)
	if err == nil && limited {
		c.JSON(http.StatusTooManyRequests, PaymentInitResponse{
			Success: false,
			Message: "Please wait before initiating another payment",
		})
		return
	}

	txnID := uuid.NewString()
	txnRef := services.NewTransactionReference(txnID)

	txn := &models.PaymentTransaction{
		UUIDModel:            models.UUIDModel{ID: txnID},
		UserID:               user.ID,
		TierID:               tier.ID,
		AmountPula:           tier.PricePula,
		PaymentMethod:        req.PaymentMethod,
		TransactionReference: txnRef,
		Status:               models.PaymentStatusPending,
	}

	paymentURL := ""
	message := ""
	whatsapp := config.AppConfig.WhatsAppNumber

	switch req.PaymentMethod {
	case models.PaymentMethodOrangeMoney:
		session, err := services.Gateway.InitiatePayment(txnRef, tier.PricePula)
		if err != nil {
			// Rail unavailable: fall back to the manual flow
			logging.Warnf("Orange Money unavailable, falling back to manual for user %s: %v", user.ID, err)
			txn.PaymentMethod = models.PaymentMethodManual
			message = fmt.Sprintf("Orange Money is temporarily unavailable. "+
				"Please send P%d via Orange Money to %s with reference: %s, then confirm your payment.",
				tier.PricePula, whatsapp, txnRef)
		} else {
			paymentURL = session.PaymentURL
			txn.OrangeMoneyOrderID = txnRef
			txn.OrangeMoneyPayToken = session.PayToken
			message = "Redirecting to Orange Money for payment"
		}
	case models.PaymentMethodMyZaka:
		message = fmt.Sprintf("Send P%d via MyZaka to %s. Use reference: %s. "+
			"After payment, confirm with your MyZaka receipt reference.",
			tier.PricePula, whatsapp, txnRef)
	default:
		message = fmt.Sprintf("Send P%d to %s. Use reference: %s. "+
			"Contact us on WhatsApp with proof of payment for activation.",
			tier.PricePula, whatsapp, txnRef)
	}

	if err := database.CreateTransaction(txn); err != nil {
		c.JSON(http.StatusInternalServerError, PaymentInitResponse{
			Success: false,
			Message: "Failed to create payment transaction",
		})
		return
	}

	if err := redisService.SetPaymentRateLimit(user.ID, config.AppConfig.PaymentRateLimitMinutes); err != nil {
		// Rate limit bookkeeping must not block the payment flow
		logging.Warnf("Failed to set payment rate limit for user %s: %v", user.ID, err)
	}

	c.JSON(http.StatusOK, PaymentInitResponse{
		Success:       true,
		Message:       message,
		PaymentURL:    paymentURL,
		TransactionID: txn.ID,
		Status:        txn.Status,
	})
}
