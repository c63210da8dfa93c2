package middleware

import (
	"net/http"
	"strings"

	"auth-backend/internal/config"
	"auth-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey = "userID"
	EmailKey  = "email"
)

// AuthMiddleware requires a bearer session token. A missing token is 403, a
// malformed or invalid one is 401.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusForbidden, "Token is required")
			c.Abort()
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(strings.TrimSpace(token), cfg.JWT.Secret)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)

		c.Next()
	}
}

// GetUserID returns the user ID set by AuthMiddleware.
func GetUserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}
