package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swiftclaim/claims-api/config"
	"github.com/swiftclaim/claims-api/services"
)

// AuthError represents an authentication failure
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// RequireAuth validates the admin session token from the token cookie or the
// Authorization header and stores the actor identity in the Gin context
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			c.Abort()
			return
		}

		cfg := config.GetConfig()
		actor, err := services.ParseSessionToken(tokenString, cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Invalid or expired session token",
				},
			})
			c.Abort()
			return
		}

		c.Set("actor", actor)
		c.Next()
	}
}

// GetActor extracts the authenticated actor identity from the Gin context
func GetActor(c *gin.Context) (string, error) {
	actor, exists := c.Get("actor")
	if !exists {
		return "", &AuthError{Code: "MISSING_ACTOR", Message: "Actor not found in context"}
	}

	actorStr, ok := actor.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_ACTOR", Message: "Actor is not a string"}
	}

	return actorStr, nil
}

// extractToken pulls the session token from the token cookie, falling back
// to an Authorization: Bearer header
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
