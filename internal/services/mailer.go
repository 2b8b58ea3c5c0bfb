package services

import (
	"context"
	"fmt"

	"primedrive-api/internal/config"
	"primedrive-api/internal/models"
	"primedrive-api/pkg/logging"

	brevo "github.com/getbrevo/brevo-go/lib"
)

// Mailer sends transactional email via Brevo
type Mailer struct {
	client     *brevo.APIClient
	fromEmail  string
	fromName   string
	adminEmail string
}

// NewMailer creates a mailer from the application configuration
func NewMailer() *Mailer {
	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", config.AppConfig.BrevoAPIKey)

	return &Mailer{
		client:     brevo.NewAPIClient(cfg),
		fromEmail:  config.AppConfig.BrevoFromEmail,
		fromName:   config.AppConfig.BrevoFromName,
		adminEmail: config.AppConfig.AdminEmail,
	}
}

func (m *Mailer) enabled() bool {
	return m != nil && config.AppConfig.BrevoAPIKey != "" && m.fromEmail != ""
}

// NotifyPaymentSubmitted mails the admin inbox when a manual/MyZaka payment
// is waiting for verification. Intended to be called in a goroutine;
// failures are logged, never surfaced to the user flow.
func (m *Mailer) NotifyPaymentSubmitted(txn *models.PaymentTransaction, user *models.User) {
	if !m.enabled() || m.adminEmail == "" {
		return
	}

	subject := fmt.Sprintf("Payment verification needed: %s", txn.TransactionReference)
	text := fmt.Sprintf(
		"User %s submitted a %s payment of P%d for the %s tier.\n\n"+
			"Reference: %s\nReceipt reference: %s\n\n"+
			"Review it in the admin payments queue.",
		user.Email, txn.PaymentMethod, txn.AmountPula, txn.Tier.Name,
		txn.TransactionReference, txn.UserPaymentReference,
	)

	m.send(m.adminEmail, subject, text)
}

// SendUpgradeReceipt mails the user once their tier upgrade is active
func (m *Mailer) SendUpgradeReceipt(user *models.User, txn *models.PaymentTransaction) {
	if !m.enabled() || user.Email == "" {
		return
	}

	subject := fmt.Sprintf("Your %s tier is now active", txn.Tier.Name)
	text := fmt.Sprintf(
		"Thanks for your payment of P%d (reference %s).\n\n"+
			"Your %s tier upgrade is active. Happy selling!",
		txn.AmountPula, txn.TransactionReference, txn.Tier.Name,
	)

	m.send(user.Email, subject, text)
}

// send delivers one email via the Brevo transactional API
func (m *Mailer) send(to, subject, text string) {
	email := brevo.SendSmtpEmail{
		Sender: &brevo.SendSmtpEmailSender{
			Name:  m.fromName,
			Email: m.fromEmail,
		},
		To: []brevo.SendSmtpEmailTo{
			{Email: to},
		},
		Subject:     subject,
		TextContent: text,
	}

	_, _, err := m.client.TransactionalEmailsApi.SendTransacEmail(context.Background(), email)
	if err != nil {
		logging.Errorf("Failed to send email to %s: %v", to, err)
		return
	}
	logging.Infof("Email sent to %s: %s", to, subject)
}
