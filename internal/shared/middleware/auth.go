package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"photoflow-backend/internal/shared/response"
	"photoflow-backend/pkg/jwt"
)

// Auth verifies the service-to-service bearer token and injects the
// caller identity into the context. The engine has no user sessions;
// every caller is another service.
func Auth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		if claims.ServiceID == "" {
			response.Unauthorized(c, "token carries no service identity")
			c.Abort()
			return
		}

		c.Set("service_id", claims.ServiceID)
		c.Set("scope", claims.Scope)

		c.Next()
	}
}

// RequireScope gates an endpoint on the token's scope claim.
// "generate" implies everything; "readonly" only passes read endpoints.
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		have := c.GetString("scope")
		if have != scope && have != "generate" {
			response.Forbidden(c, "insufficient scope")
			c.Abort()
			return
		}
		c.Next()
	}
}
