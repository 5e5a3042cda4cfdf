package middlewares

import (
	"net/http"
	"strings"

	"learnweave/internal/services"

	"github.com/gin-gonic/gin"
)

// Context keys populated by AuthMiddleware for downstream handlers.
const (
	UserIDKey   = "userID"
	EmailKey    = "email"
	FullNameKey = "fullName"
)

// AuthMiddleware enforces bearer-token authentication. It validates the
// Authorization header and stores the caller's identity in the context.
func AuthMiddleware(tokenService *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}

		claims, err := tokenService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(FullNameKey, claims.FullName)
		c.Next()
	}
}

// UserID reads the authenticated user's id set by AuthMiddleware.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(UserIDKey)
}
