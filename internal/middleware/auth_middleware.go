package middleware

import (
	"net/http"
	"strings"

	"github.com/cesarbot/kudos-backend/internal/config"
	"github.com/cesarbot/kudos-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware creates a gin middleware protecting the admin API.
func JWTAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	tokens := jwt.NewAdminTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	return func(c *gin.Context) {
		const bearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}
		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(authHeader, bearerSchema))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}
