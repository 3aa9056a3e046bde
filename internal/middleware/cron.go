package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CronSecretHeader carries the shared secret of scheduler-triggered endpoints.
const CronSecretHeader = "X-Cron-Secret"

// CronSecretMiddleware guards internal endpoints that an external scheduler calls.
// An empty secret disables the endpoints entirely.
func CronSecretMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		if secret == "" {
			logger.Warn("Internal endpoint called but CRON_SECRET is not configured")
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		provided := c.GetHeader(CronSecretHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			logger.Warn("Invalid cron secret")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
