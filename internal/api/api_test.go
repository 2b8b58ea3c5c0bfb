package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"primedrive-api/internal/config"
	"primedrive-api/internal/database"
	"primedrive-api/internal/models"
	"primedrive-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// stubGateway substitutes the payment rail in handler tests
type stubGateway struct {
	session   *services.WebPaymentSession
	initErr   error
	status    string
	statusErr error
}

func (g *stubGateway) InitiatePayment(orderID string, amountPula int) (*services.WebPaymentSession, error) {
	if g.initErr != nil {
		return nil, g.initErr
	}
	return g.session, nil
}

func (g *stubGateway) CheckTransactionStatus(orderID string, amountPula int) (string, error) {
	return g.status, g.statusErr
}

// setupAPITest boots the full route table against a fresh in-memory
// SQLite database and returns the router.
func setupAPITest(t *testing.T) *gin.Engine {
	t.Helper()

	require.NoError(t, config.InitConfig())
	config.AppConfig.SecretKey = "test-secret"
	config.AppConfig.CronAPIKey = "test-cron-key"

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)

	// Every pooled connection to :memory: is a different database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	prevDB := database.DB
	database.DB = db
	prevMail := services.Mail
	services.Mail = nil
	prevGateway := services.Gateway
	services.Gateway = &stubGateway{
		session: &services.WebPaymentSession{
			PaymentURL: "https://webpayment.orange-money.example/pay/stub",
			PayToken:   "stub-pay-token",
		},
		status: services.RailStatusUnknown,
	}
	t.Cleanup(func() {
		sqlDB.Close()
		database.DB = prevDB
		services.Mail = prevMail
		services.Gateway = prevGateway
	})

	require.NoError(t, db.AutoMigrate(
		&models.Tier{},
		&models.User{},
		&models.Listing{},
		&models.PaymentTransaction{},
	))

	intPtr := func(n int) *int { return &n }
	tiers := []models.Tier{
		{Name: models.TierFree, PricePula: 0, ListingLimit: intPtr(1), SortOrder: 0},
		{Name: models.TierBasic, PricePula: 50, ListingLimit: intPtr(3), SortOrder: 1},
		{Name: models.TierStandard, PricePula: 150, ListingLimit: intPtr(10), SortOrder: 2},
		{Name: models.TierPremium, PricePula: 300, ListingLimit: nil, SortOrder: 3},
	}
	require.NoError(t, db.Create(&tiers).Error)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r)
	return r
}

// newAPITestUser inserts a user and returns the account with a bearer token
func newAPITestUser(t *testing.T, email, tierName string, isAdmin bool) (*models.User, string) {
	t.Helper()

	tier, err := database.GetTierByName(tierName)
	require.NoError(t, err)

	hash, err := services.HashPassword("s3cret-pass")
	require.NoError(t, err)

	user := &models.User{
		Email:         email,
		PasswordHash:  hash,
		Phone:         "26771000000",
		IsAdmin:       isAdmin,
		CurrentTierID: tier.ID,
	}
	require.NoError(t, database.CreateUser(user))

	loaded, err := database.GetUserByID(user.ID)
	require.NoError(t, err)

	token, err := services.GenerateToken(loaded)
	require.NoError(t, err)
	return loaded, token
}

// newAPITestTransaction inserts a pending Orange Money transaction
func newAPITestTransaction(t *testing.T, user *models.User, tierName string) *models.PaymentTransaction {
	t.Helper()

	tier, err := database.GetTierByName(tierName)
	require.NoError(t, err)

	txnID := uuid.NewString()
	txn := &models.PaymentTransaction{
		UserID:               user.ID,
		TierID:               tier.ID,
		AmountPula:           tier.PricePula,
		PaymentMethod:        models.PaymentMethodOrangeMoney,
		TransactionReference: services.NewTransactionReference(txnID),
		OrangeMoneyOrderID:   "OM-" + txnID[:8],
		Status:               models.PaymentStatusPending,
	}
	require.NoError(t, database.CreateTransaction(txn))
	return txn
}

// doJSON performs a JSON request against the router
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a recorded JSON response
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
