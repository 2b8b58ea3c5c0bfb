package api

import (
	"time"

	"primedrive-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine) {
	// API route group
	api := r.Group("/api")
	{
		// Public subscription tier catalogue
		api.GET("/tiers", GetTiers)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/signup", Signup)
			auth.POST("/login", Login)
			auth.GET("/me", middleware.AuthMiddleware(), GetMe)
		}

		// Public listing search
		api.GET("/listings", GetListings)

		// Listing management routes (require authentication)
		listings := api.Group("/listings")
		listings.Use(middleware.AuthMiddleware())
		{
			listings.GET("/my", GetMyListings)
			listings.POST("", CreateListing)
			listings.PATCH("/:id", UpdateListing)
			listings.DELETE("/:id", DeleteListing)
		}

		// Subscription routes (require authentication)
		subscriptions := api.Group("/subscriptions")
		subscriptions.Use(middleware.AuthMiddleware())
		{
			subscriptions.GET("/status", GetSubscriptionStatus)
			subscriptions.POST("/initiate", InitiateSubscription)
			subscriptions.POST("/confirm", ConfirmPayment)
			subscriptions.GET("/transactions", GetTransactions)
			subscriptions.GET("/check-payment/:id", CheckPaymentStatus)
		}

		// Payment provider callback routes (no authentication, Orange Money calls these)
		webhooks := api.Group("/webhooks")
		{
			webhooks.POST("/orange-money", OrangeMoneyWebhook)
		}

		// Admin payment review routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
		{
			admin.GET("/payments/pending", AdminGetPendingPayments)
			admin.POST("/payments/approve", AdminApprovePayment)
			admin.POST("/payments/reject", AdminRejectPayment)
		}

		// Scheduled maintenance routes (cron key or admin token)
		cron := api.Group("/cron")
		cron.Use(middleware.CronAuthMiddleware())
		{
			cron.POST("/expire-payments", ExpireStalePayments)
			cron.POST("/downgrade-subscriptions", DowngradeExpiredSubscriptions)
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"service":   "primedrive-api",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}
