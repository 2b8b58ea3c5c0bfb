package middleware

import (
	"net/http"
	"strings"

	"primedrive-api/internal/config"
	"primedrive-api/internal/database"
	"primedrive-api/internal/models"
	"primedrive-api/internal/response"
	"primedrive-api/internal/services"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware
const (
	ContextUserID = "user_id"
	ContextUser   = "user"
)

// bearerToken extracts the token from the Authorization header
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// AuthMiddleware authenticates the bearer token and loads the caller's
// account into the request context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing bearer token"))
			c.Abort()
			return
		}

		claims, err := services.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authentication credentials"))
			c.Abort()
			return
		}

		user, err := database.GetUserByID(claims.Subject)
		if err != nil {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authentication credentials"))
			c.Abort()
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// AdminMiddleware requires an authenticated administrator. Must run after
// AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CronAuthMiddleware gates the maintenance sweep endpoints. A trusted
// scheduler authenticates with the shared cron key; an admin bearer token
// is accepted as well for manual runs.
func CronAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cronKey := c.GetHeader("X-Cron-Key")
		if cronKey != "" && config.AppConfig.CronAPIKey != "" && cronKey == config.AppConfig.CronAPIKey {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token != "" {
			if claims, err := services.ParseToken(token); err == nil {
				if user, err := database.GetUserByID(claims.Subject); err == nil && user.IsAdmin {
					c.Set(ContextUserID, user.ID)
					c.Set(ContextUser, user)
					c.Next()
					return
				}
			}
		}

		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
		c.Abort()
	}
}

// CurrentUser returns the authenticated account from the request context
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUser)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
