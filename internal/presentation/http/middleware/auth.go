package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pharmacy-api/pkg/utils"
)

// Context keys set by AuthMiddleware
const (
	OperatorUsernameKey = "operator_username"
	OperatorNameKey     = "operator_name"
)

// AuthMiddleware requires a valid operator bearer token. When enabled is
// false every request passes through anonymously.
func AuthMiddleware(jwtManager *utils.JWTManager, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(OperatorUsernameKey, claims.Username)
		c.Set(OperatorNameKey, claims.DisplayName)
		c.Next()
	}
}

// GetOperator returns the authenticated operator's username and display
// name, both empty when auth is disabled.
func GetOperator(c *gin.Context) (username, displayName string) {
	return c.GetString(OperatorUsernameKey), c.GetString(OperatorNameKey)
}

// clientKey identifies the caller for rate limiting and idempotency
func clientKey(c *gin.Context) string {
	if username, _ := GetOperator(c); username != "" {
		return "op:" + username
	}
	return "ip:" + c.ClientIP()
}
