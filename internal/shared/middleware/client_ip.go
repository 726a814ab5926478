package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"photoflow-backend/internal/shared/utils"
)

// ClientIP extracts the client IP address from the request and injects
// it into the context for downstream handlers (rate limit keying, logs).
// Register early in the middleware chain.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)

		c.Set("client_ip", clientIP)

		// Also on the request context so services can read it.
		ctx := context.WithValue(c.Request.Context(), ipContextKey{}, clientIP)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

type ipContextKey struct{}

// GetClientIPFromContext retrieves the client IP from a request context.
// Returns empty string if not found.
func GetClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(ipContextKey{}).(string); ok {
		return ip
	}
	return ""
}
