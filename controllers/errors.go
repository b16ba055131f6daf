package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swiftclaim/claims-api/services"
)

// respondError writes the standard error envelope
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps workflow errors onto the HTTP error taxonomy
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Error())
	case errors.Is(err, services.ErrClaimNotFound):
		respondError(c, http.StatusNotFound, "CLAIM_NOT_FOUND", "Claim not found")
	case errors.Is(err, services.ErrDuplicatePolicy):
		respondError(c, http.StatusConflict, "DUPLICATE_POLICY", "A claim already exists for this policy number")
	case errors.Is(err, services.ErrDetectionNotConfigured):
		respondError(c, http.StatusInternalServerError, "DETECTION_NOT_CONFIGURED", "Damage detection service is not configured")
	case errors.Is(err, services.ErrDetectionFailed):
		respondError(c, http.StatusBadGateway, "DETECTION_FAILED", "Damage detection service failed")
	case errors.Is(err, services.ErrReportTimeout):
		respondError(c, http.StatusGatewayTimeout, "REPORT_TIMEOUT", "Report generation timed out")
	case errors.Is(err, services.ErrReportNotConfigured):
		respondError(c, http.StatusInternalServerError, "REPORT_NOT_CONFIGURED", "Report generation service is not configured")
	case errors.Is(err, services.ErrReportFailed):
		respondError(c, http.StatusBadGateway, "REPORT_FAILED", "Report generation service failed")
	default:
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Internal error")
	}
}
