package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/swiftclaim/claims-api/config"
	"github.com/swiftclaim/claims-api/models"
	"github.com/swiftclaim/claims-api/services"
)

// claimSummary is the denormalized listing projection: claim joined with its
// status, vehicle and incident lookups
type claimSummary struct {
	ID             string  `json:"id"`
	CustomerName   string  `json:"customerName"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	PolicyNumber   string  `json:"policyNumber"`
	IncidentDate   string  `json:"incidentDate"`
	IncidentType   string  `json:"incidentType"`
	VehicleType    string  `json:"vehicleType"`
	VehicleBrand   string  `json:"vehicleBrand"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"createdAt"`
	EstimatedCost  float64 `json:"estimatedCost"`
	DamagePhotoURL *string `json:"damagePhotoUrl"`
}

func summarize(claim *models.Claim) claimSummary {
	estimatedCost := claim.EstimatedCost
	if claim.DamageEstimatedCost != nil {
		estimatedCost = *claim.DamageEstimatedCost
	}
	return claimSummary{
		ID:             claim.ClaimID,
		CustomerName:   claim.CustomerName,
		Email:          claim.Email,
		Phone:          claim.PhoneNumber,
		PolicyNumber:   claim.PolicyNumber,
		IncidentDate:   claim.IncidentDate,
		IncidentType:   claim.IncidentType.TypeName,
		VehicleType:    claim.VehicleType.TypeName,
		VehicleBrand:   claim.VehicleBrand,
		Status:         claim.Status.StatusName,
		CreatedAt:      claim.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		EstimatedCost:  estimatedCost,
		DamagePhotoURL: claim.DamagePhotoURL,
	}
}

// ListClaims handles GET /api/v1/claims - lists all claims, newest first
func ListClaims(c *gin.Context) {
	db := config.GetDB()

	var claims []models.Claim
	if err := db.Preload("Status").Preload("VehicleType").Preload("IncidentType").
		Order("created_at DESC").
		Find(&claims).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch claims")
		return
	}

	summaries := make([]claimSummary, 0, len(claims))
	for i := range claims {
		summaries = append(summaries, summarize(&claims[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"claims":  summaries,
	})
}

// CreateClaim handles POST /api/v1/claims - creates a new claim from the
// intake form, uploading the first damage photo when one is attached
func CreateClaim(c *gin.Context) {
	vehicleTypeID, _ := strconv.ParseUint(c.PostForm("vehicleTypeId"), 10, 32)
	incidentTypeID, _ := strconv.ParseUint(c.PostForm("incidentTypeId"), 10, 32)
	estimatedCost, _ := strconv.ParseFloat(c.PostForm("estimatedCost"), 64)

	params := services.CreateClaimParams{
		CustomerName:       c.PostForm("customerName"),
		Email:              c.PostForm("email"),
		PhoneNumber:        c.PostForm("phoneNumber"),
		PolicyNumber:       c.PostForm("policyNumber"),
		VehicleTypeID:      uint(vehicleTypeID),
		VehicleBrand:       c.PostForm("vehicleBrand"),
		VehicleDescription: c.PostForm("vehicleDescription"),
		IncidentTypeID:     uint(incidentTypeID),
		IncidentDate:       c.PostForm("incidentDate"),
		Description:        c.PostForm("description"),
		EstimatedCost:      estimatedCost,
		InitialStatus:      models.StatusNew,
	}

	if form, err := c.MultipartForm(); err == nil {
		if images := form.File["images"]; len(images) > 0 {
			params.Photo = images[0]
		}
	}

	claim, err := services.CreateClaim(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Claim submitted successfully",
		"claimId": claim.ClaimID,
	})
}

// GetClaim handles GET /api/v1/claims/:id - returns the claim detail with
// all associated image URLs and the assessment when present
func GetClaim(c *gin.Context) {
	claimID := c.Param("id")
	db := config.GetDB()

	var claim models.Claim
	if err := db.Preload("Status").Preload("VehicleType").Preload("IncidentType").
		Where("claim_id = ?", claimID).First(&claim).Error; err != nil {
		respondError(c, http.StatusNotFound, "CLAIM_NOT_FOUND", "Claim not found")
		return
	}

	var images []models.ClaimImage
	if err := db.Where("claim_id = ?", claimID).Order("uploaded_at ASC, id ASC").Find(&images).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch claim images")
		return
	}

	imageURLs := make([]string, 0, len(images))
	for _, image := range images {
		imageURLs = append(imageURLs, image.S3URL)
	}
	var primaryImage *string
	if len(imageURLs) > 0 {
		primaryImage = &imageURLs[0]
	}

	detail := gin.H{
		"id":             claim.ClaimID,
		"customerName":   claim.CustomerName,
		"email":          claim.Email,
		"phone":          claim.PhoneNumber,
		"policyNumber":   claim.PolicyNumber,
		"incidentDate":   claim.IncidentDate,
		"incidentType":   claim.IncidentType.TypeName,
		"vehicleType":    claim.VehicleType.TypeName,
		"vehicleBrand":   claim.VehicleBrand,
		"description":    claim.Description,
		"status":         claim.Status.StatusName,
		"createdAt":      claim.CreatedAt,
		"estimatedCost":  claim.EstimatedCost,
		"image":          primaryImage,
		"images":         imageURLs,
		"damagePhotoUrl": claim.DamagePhotoURL,
		"reportUrl":      claim.ReportURL,
	}
	if claim.HasAssessment() {
		detail["damageAssessment"] = gin.H{
			"severity":          claim.DamageSeverity,
			"estimatedCost":     claim.DamageEstimatedCost,
			"repairTime":        claim.DamageRepairTime,
			"notes":             claim.DamageNotes,
			"damagedPartsCount": claim.DamagedPartsCount,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"claim":   detail,
	})
}

// DeleteClaim handles DELETE /api/v1/claims/:id - removes a claim with its
// images and action history (admin only)
func DeleteClaim(c *gin.Context) {
	claimID := c.Param("id")
	db := config.GetDB()

	var claim models.Claim
	if err := db.Where("claim_id = ?", claimID).First(&claim).Error; err != nil {
		respondError(c, http.StatusNotFound, "CLAIM_NOT_FOUND", "Claim not found")
		return
	}

	var images []models.ClaimImage
	if err := db.Where("claim_id = ?", claimID).Find(&images).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch claim images")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("claim_id = ?", claimID).Delete(&models.ClaimAction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("claim_id = ?", claimID).Delete(&models.ClaimImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&claim).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete claim")
		return
	}

	// Stored objects are cleaned up after the rows; a leftover object is
	// harmless, a dangling row is not
	if s3Service := services.GetS3Service(); s3Service != nil {
		for _, image := range images {
			if err := s3Service.DeleteFile(image.StorageKey()); err != nil {
				log.Printf("warning: failed to delete stored image %s: %v", image.StorageKey(), err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Claim deleted successfully",
	})
}
