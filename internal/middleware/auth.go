package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fitboard/backend/internal/common"
	"github.com/fitboard/backend/internal/token"
)

const identityKey = "identity"

// Auth verifies the bearer token and attaches the caller's identity to the
// request context.
func Auth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.Error(c, http.StatusUnauthorized, "Authentication token required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.Error(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			common.Error(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

// Identity returns the authenticated caller, or nil on unauthenticated
// routes.
func Identity(c *gin.Context) *token.Claims {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*token.Claims)
	if !ok {
		return nil
	}
	return claims
}
