package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Skarath13/bloom-sub003/config"
)

// CronSecretHeader carries the shared secret on time-triggered endpoints.
const CronSecretHeader = "X-Cron-Secret"

// CronAuthMiddleware gates the sweep endpoints behind the shared secret.
func CronAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := config.AppConfig.CronSecret
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Cron endpoints are not configured"})
			return
		}
		provided := c.GetHeader(CronSecretHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid cron secret"})
			return
		}
		c.Next()
	}
}
