// auth_middleware.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace-admin/internal/service"
)

// Claves del contexto de gin con los datos del usuario autenticado.
const (
	UserIDKey          = "userID"
	UserNameKey        = "userName"
	UserPermissionsKey = "userPermissions"
)

type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*service.AuthUser, error)
}

// Middleware que valida el token y guarda la info del usuario en el contexto
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		user, err := validator.ValidateToken(c.Request.Context(), token)
		if errors.Is(err, service.ErrUserDisabled) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user disabled"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		// Guardamos los datos del usuario en el contexto
		c.Set(UserIDKey, user.ID)
		c.Set(UserNameKey, user.Name)
		c.Set(UserPermissionsKey, user.Permissions)
		c.Next()
	}
}
