// admin_only.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-admin/internal/service"
)

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !service.IsAdmin(c.GetStringSlice(UserPermissionsKey)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			return
		}
		c.Next()
	}
}
