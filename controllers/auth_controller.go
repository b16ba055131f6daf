package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swiftclaim/claims-api/config"
	"github.com/swiftclaim/claims-api/services"
)

// LoginRequest represents the request body for admin login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login - verifies admin credentials and
// issues a session token as an httpOnly cookie
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Email and password are required")
		return
	}

	token, err := services.GetAuthenticator().Verify(req.Email, req.Password)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
		return
	}

	cfg := config.GetConfig()
	c.SetCookie("token", token, int(services.SessionTTL.Seconds()), "/", "", cfg.IsProduction(), true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token": token,
		},
		"message": "Logged in successfully",
	})
}

// Logout handles POST /api/v1/auth/logout - clears the session cookie
func Logout(c *gin.Context) {
	cfg := config.GetConfig()
	c.SetCookie("token", "", -1, "/", "", cfg.IsProduction(), true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}
