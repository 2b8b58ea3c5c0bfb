package api

import (
	"net/http"
	"time"

	"primedrive-api/internal/database"
	"primedrive-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// ExpireStalePayments fails pending payments older than the stale cutoff
// POST /api/cron/expire-payments
func ExpireStalePayments(c *gin.Context) {
	count, err := database.ExpireStalePayments(time.Now())
	if err != nil {
		logging.Errorf("Failed to expire stale payments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to expire stale payments",
		})
		return
	}

	if count > 0 {
		logging.Infof("Expired %d stale payment(s)", count)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"expired_count": count,
	})
}

// DowngradeExpiredSubscriptions moves lapsed subscribers back to the free tier
// POST /api/cron/downgrade-subscriptions
func DowngradeExpiredSubscriptions(c *gin.Context) {
	count, err := database.DowngradeExpiredSubscriptions(time.Now())
	if err != nil {
		logging.Errorf("Failed to downgrade expired subscriptions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to downgrade expired subscriptions",
		})
		return
	}

	if count > 0 {
		logging.Infof("Downgraded %d expired subscription(s)", count)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"downgraded_count": count,
	})
}
