package middleware

import (
	"log"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskhive/taskhive-api/internal/errors"
	"github.com/taskhive/taskhive-api/internal/services"
)

// RequirePermission gates a route on the caller's role holding the action on
// the resource. Absence of a permission entry denies; the check runs before
// any handler or store work.
func RequirePermission(permissions *services.PermissionService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleID, exists := GetRoleID(c)
		if !exists {
			apierrors.InvalidToken(c, "")
			c.Abort()
			return
		}

		allowed, err := permissions.Authorize(roleID, resource, action)
		if err != nil {
			log.Printf("permission check failed for role %d on %s %s: %v", roleID, action, resource, err)
			apierrors.InternalError(c, "Failed to verify permissions")
			c.Abort()
			return
		}
		if !allowed {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
