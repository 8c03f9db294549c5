package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tutor-marketplace-api/internal/auth"
)

const UserIDKey = "uid"

// Auth requires "Authorization: Bearer <jwt>" and stores the user id under
// UserIDKey.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no token"})
			return
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bad token"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated user, 0 outside of Auth.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(UserIDKey)
}
