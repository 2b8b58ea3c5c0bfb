package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"primedrive-api/internal/config"
	"primedrive-api/pkg/logging"
)

// Orange Money transaction statuses reported by the rail
const (
	RailStatusSuccess = "SUCCESS"
	RailStatusUnknown = "UNKNOWN"
)

// WebPaymentSession is the rail's response to a payment initiation
type WebPaymentSession struct {
	PaymentURL string `json:"payment_url"`
	PayToken   string `json:"pay_token"`
	NotifToken string `json:"notif_token"`
}

// PaymentGateway abstracts the Orange Money Web Pay API so handlers and
// tests can substitute the rail
type PaymentGateway interface {
	InitiatePayment(orderID string, amountPula int) (*WebPaymentSession, error)
	CheckTransactionStatus(orderID string, amountPula int) (string, error)
}

// OrangeMoneyError represents a failed call to the Orange Money API
type OrangeMoneyError struct {
	StatusCode int
	Message    string
}

func (e *OrangeMoneyError) Error() string {
	return fmt.Sprintf("Orange Money API error (status %d): %s", e.StatusCode, e.Message)
}

// OrangeMoneyClient talks to the Orange Money Web Pay API for Botswana
type OrangeMoneyClient struct {
	apiKey     string
	merchantID string
	apiURL     string
	tokenURL   string
	httpClient *http.Client

	mu             sync.Mutex
	accessToken    string
	tokenExpiresAt time.Time
}

// NewOrangeMoneyClient creates a client from the application configuration
func NewOrangeMoneyClient() *OrangeMoneyClient {
	return &OrangeMoneyClient{
		apiKey:     config.AppConfig.OrangeMoneyAPIKey,
		merchantID: config.AppConfig.OrangeMoneyMerchantID,
		apiURL:     strings.TrimRight(config.AppConfig.OrangeMoneyAPIURL, "/"),
		tokenURL:   config.AppConfig.OrangeMoneyTokenURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// getAccessToken returns a cached OAuth2 client-credentials token,
// refreshing it when expired
func (c *OrangeMoneyClient) getAccessToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if c.accessToken != "" && now.Before(c.tokenExpiresAt) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequest("POST", c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.apiKey)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request access token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &OrangeMoneyError{StatusCode: resp.StatusCode, Message: "token request rejected"}
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", &OrangeMoneyError{StatusCode: resp.StatusCode, Message: "empty access token"}
	}

	expiresIn := tokenResp.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 3500
	}
	c.accessToken = tokenResp.AccessToken
	c.tokenExpiresAt = now.Add(time.Duration(expiresIn) * time.Second)

	return c.accessToken, nil
}

// InitiatePayment opens a web payment session with Orange Money
func (c *OrangeMoneyClient) InitiatePayment(orderID string, amountPula int) (*WebPaymentSession, error) {
	token, err := c.getAccessToken()
	if err != nil {
		logging.Errorf("Orange Money token error: %v", err)
		return nil, err
	}

	payload := map[string]interface{}{
		"merchant_key": c.merchantID,
		"currency":     "BWP",
		"order_id":     orderID,
		"amount":       amountPula,
		"return_url":   config.AppConfig.FrontendURL + "/payment/success",
		"cancel_url":   config.AppConfig.FrontendURL + "/payment/cancel",
		"notif_url":    config.AppConfig.FrontendURL + "/api/webhooks/orange-money",
		"lang":         "en",
	}

	body, err := c.post("/webpayment", token, payload)
	if err != nil {
		logging.Errorf("Orange Money initiate error: %v", err)
		return nil, err
	}

	var session WebPaymentSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to parse webpayment response: %w", err)
	}
	return &session, nil
}

// CheckTransactionStatus polls the transaction status for an order.
// Rail failures are reported as UNKNOWN so polling callers leave the
// ledger row untouched and may simply try again.
func (c *OrangeMoneyClient) CheckTransactionStatus(orderID string, amountPula int) (string, error) {
	token, err := c.getAccessToken()
	if err != nil {
		logging.Errorf("Orange Money token error: %v", err)
		return RailStatusUnknown, nil
	}

	payload := map[string]interface{}{
		"order_id":  orderID,
		"amount":    amountPula,
		"pay_token": "",
	}

	body, err := c.post("/transactionstatus", token, payload)
	if err != nil {
		logging.Errorf("Orange Money status check error: %v", err)
		return RailStatusUnknown, nil
	}

	var statusResp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &statusResp); err != nil {
		return RailStatusUnknown, nil
	}
	if statusResp.Status == "" {
		return RailStatusUnknown, nil
	}
	return strings.ToUpper(statusResp.Status), nil
}

// post sends an authenticated JSON request to the Web Pay API
func (c *OrangeMoneyClient) post(path, token string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", c.apiURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &OrangeMoneyError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return body, nil
}

// IsRailSuccess reports whether a rail status means the payment went
// through. The rail has been observed sending both spellings.
func IsRailSuccess(status string) bool {
	switch strings.ToUpper(status) {
	case "SUCCESS", "SUCCESSFULL":
		return true
	}
	return false
}

// IsRailFailure reports whether a rail status is a definitive failure
func IsRailFailure(status string) bool {
	switch strings.ToUpper(status) {
	case "FAILED", "EXPIRED", "CANCELLED":
		return true
	}
	return false
}
