package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL string

	// Auth configuration
	SecretKey      string
	TokenExpiresIn int // hours

	// Orange Money / MyZaka configuration
	OrangeMoneyAPIKey     string
	OrangeMoneyMerchantID string
	OrangeMoneyAPIURL     string
	OrangeMoneyTokenURL   string

	// Brevo email configuration
	BrevoAPIKey    string
	BrevoFromEmail string
	BrevoFromName  string
	AdminEmail     string

	// Cron endpoints shared secret
	CronAPIKey string

	// App configuration
	WhatsAppNumber           string
	FrontendURL              string
	SubscriptionDurationDays int
	PaymentRateLimitMinutes  int
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Port:                     getEnv("PORT", "8080"),
		Mode:                     getEnv("GIN_MODE", "debug"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		RedisURL:                 getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SecretKey:                getEnv("SECRET_KEY", ""),
		TokenExpiresIn:           getEnvInt("TOKEN_EXPIRES_HOURS", 72),
		OrangeMoneyAPIKey:        getEnv("ORANGE_MONEY_API_KEY", ""),
		OrangeMoneyMerchantID:    getEnv("ORANGE_MONEY_MERCHANT_ID", ""),
		OrangeMoneyAPIURL:        getEnv("ORANGE_MONEY_API_URL", "https://api.orange.com/orange-money-webpay/mw/v1"),
		OrangeMoneyTokenURL:      getEnv("ORANGE_MONEY_TOKEN_URL", "https://api.orange.com/oauth/v3/token"),
		BrevoAPIKey:              getEnv("BREVO_API_KEY", ""),
		BrevoFromEmail:           getEnv("BREVO_FROM_EMAIL", ""),
		BrevoFromName:            getEnv("BREVO_FROM_NAME", "PrimeDrive"),
		AdminEmail:               getEnv("ADMIN_EMAIL", ""),
		CronAPIKey:               getEnv("CRON_API_KEY", ""),
		WhatsAppNumber:           getEnv("WHATSAPP_NUMBER", "26777625997"),
		FrontendURL:              getEnv("FRONTEND_URL", "http://localhost:3000"),
		SubscriptionDurationDays: getEnvInt("SUBSCRIPTION_DURATION_DAYS", 30),
		PaymentRateLimitMinutes:  getEnvInt("PAYMENT_RATE_LIMIT_MINUTES", 1),
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
