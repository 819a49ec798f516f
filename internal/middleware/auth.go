package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive-api/internal/auth"
	apierrors "github.com/taskhive/taskhive-api/internal/errors"
)

// Context keys for the verified caller identity.
const (
	ContextKeyUserID = "user_id"
	ContextKeyRoleID = "role_id"
)

// RequireAuth verifies the Bearer token and stashes the caller's identity
// and role in the request context. It performs no permission checks.
func RequireAuth(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.InvalidToken(c, "No token provided")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apierrors.InvalidToken(c, "Malformed authorization header")
			c.Abort()
			return
		}

		claims, err := issuer.Verify(parts[1])
		if err != nil {
			apierrors.InvalidToken(c, "")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRoleID, claims.RoleID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	return getUint64(c, ContextKeyUserID)
}

// GetRoleID retrieves the current role ID from context
func GetRoleID(c *gin.Context) (uint64, bool) {
	return getUint64(c, ContextKeyRoleID)
}

func getUint64(c *gin.Context, key string) (uint64, bool) {
	value, exists := c.Get(key)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
