package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skarath13/bloom-sub003/config"
	"github.com/Skarath13/bloom-sub003/utils"
)

// RateLimitMiddleware limits requests per IP address using a keyed counter
// with TTL in Redis. The counter is shared, so limits hold across process
// restarts and across replicas.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()
		client := utils.GetRateLimitClient()
		ip := getClientIP(c)

		key := fmt.Sprintf("ratelimit:%s:%s", ip, time.Now().Format("200601021504"))
		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// Redis being down should not take the API with it.
			logger.Error("rate limit counter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(c.Request.Context(), key, time.Minute)
		}

		if count > int64(config.AppConfig.MaxRequestsPerMin) {
			logger.Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
