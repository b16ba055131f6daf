package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swiftclaim/claims-api/config"
	"github.com/swiftclaim/claims-api/models"
	"github.com/swiftclaim/claims-api/services"
)

// DetectDamageRequest represents the request body for damage detection
type DetectDamageRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
}

// DetectDamage handles POST /api/v1/claims/:id/detect-damage - runs the
// external damage assessment for a claim and stores the normalized result
func DetectDamage(c *gin.Context) {
	claimID := c.Param("id")

	var req DetectDamageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Image URL is required")
		return
	}

	db := config.GetDB()
	var claim models.Claim
	if err := db.Where("claim_id = ?", claimID).First(&claim).Error; err != nil {
		respondError(c, http.StatusNotFound, "CLAIM_NOT_FOUND", "Claim not found")
		return
	}

	assessment, err := services.GetDetectionService().Detect(claimID, req.ImageURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := services.ApplyAssessment(claimID, assessment); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    assessment,
	})
}

// GenerateReport handles POST /api/v1/claims/:id/generate-report - asks the
// report collaborator for a claim PDF and persists the resulting report URL
func GenerateReport(c *gin.Context) {
	claimID := c.Param("id")
	sendEmail := c.Query("send_email") == "true"

	db := config.GetDB()
	var claim models.Claim
	if err := db.Where("claim_id = ?", claimID).First(&claim).Error; err != nil {
		respondError(c, http.StatusNotFound, "CLAIM_NOT_FOUND", "Claim not found")
		return
	}

	if claim.Email == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Claim data is incomplete")
		return
	}

	reportURL, err := services.GetReportService().Generate(&claim, sendEmail)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := services.SetReportURL(claimID, reportURL); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"report_url": reportURL,
		"message":    "Report generated successfully",
	})
}
