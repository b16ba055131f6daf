package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swiftclaim/claims-api/services"
)

// UpdateStatusRequest represents the request body for a status transition
type UpdateStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	ActionBy string `json:"actionBy"`
	Notes    string `json:"notes"`
}

// UpdateClaimStatus handles PUT /api/v1/claims/:id/status - applies a status
// transition and returns the updated claim projection
func UpdateClaimStatus(c *gin.Context) {
	claimID := c.Param("id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required field: status")
		return
	}

	claim, err := services.TransitionStatus(claimID, req.Status, req.ActionBy, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"claim": gin.H{
			"id":           claim.ClaimID,
			"policyNumber": claim.PolicyNumber,
			"status":       claim.Status.StatusName,
			"description":  claim.Description,
			"createdAt":    claim.CreatedAt,
			"updatedAt":    claim.UpdatedAt,
		},
	})
}

// GetClaimStatusHistory handles GET /api/v1/claims/:id/status - returns the
// claim's status transition history, newest first
func GetClaimStatusHistory(c *gin.Context) {
	claimID := c.Param("id")

	actions, err := services.StatusHistory(claimID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch claim actions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"actions": actions,
	})
}
