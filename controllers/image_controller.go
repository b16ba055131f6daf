package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/swiftclaim/claims-api/config"
	"github.com/swiftclaim/claims-api/models"
	"github.com/swiftclaim/claims-api/services"
	"github.com/swiftclaim/claims-api/utils"
)

// UploadClaimImage handles POST /api/v1/claims/:id/images - uploads a damage
// photo. When no claim exists for the id yet, the claim is auto-created from
// the form fields with a "pending" status; the image can arrive before the
// rest of the intake form is submitted.
func UploadClaimImage(c *gin.Context) {
	claimID := c.Param("id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "No file uploaded")
		return
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
			return
		}
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	db := config.GetDB()

	var claim models.Claim
	err = db.Where("claim_id = ?", claimID).First(&claim).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// First contact via image upload: create the claim from the form
		// fields before storing the photo
		missing := missingAutoCreateFields(c)
		if len(missing) > 0 {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR",
				fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
			return
		}

		created, createErr := services.CreateClaim(services.CreateClaimParams{
			ClaimID:          claimID,
			CustomerName:     c.PostForm("customerName"),
			Email:            c.PostForm("email"),
			PhoneNumber:      c.PostForm("phone"),
			PolicyNumber:     c.PostForm("policyNumber"),
			VehicleTypeName:  c.PostForm("vehicleType"),
			VehicleBrand:     c.PostForm("vehicleBrand"),
			IncidentTypeName: c.PostForm("incidentType"),
			IncidentDate:     c.PostForm("incidentDate"),
			Description:      c.PostForm("description"),
			EstimatedCost:    0,
			InitialStatus:    models.StatusPending,
			Photo:            fileHeader,
		})
		if createErr != nil {
			respondServiceError(c, createErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"url":     created.DamagePhotoURL,
		})
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to look up claim")
		return
	}

	s3Key, url, err := services.GetS3Service().UploadFile(fileHeader, claimID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to upload image")
		return
	}

	image := models.ClaimImage{
		ClaimID:      claimID,
		S3URL:        url,
		S3FolderPath: utils.ClaimFolderPath(claimID),
		FileName:     s3Key[strings.LastIndex(s3Key, "/")+1:],
	}
	if err := db.Create(&image).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to record image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     url,
	})
}

// ListClaimImages handles GET /api/v1/claims/:id/images - returns the claim's
// stored images with time-limited signed URLs
func ListClaimImages(c *gin.Context) {
	claimID := c.Param("id")
	db := config.GetDB()

	var images []models.ClaimImage
	if err := db.Where("claim_id = ?", claimID).Order("uploaded_at ASC, id ASC").Find(&images).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch images")
		return
	}

	s3Service := services.GetS3Service()
	results := make([]gin.H, 0, len(images))
	for _, image := range images {
		signedURL, err := s3Service.GetPresignedURL(image.StorageKey())
		if err != nil {
			respondError(c, http.StatusInternalServerError, "SIGNING_FAILED", "Failed to sign image URL")
			return
		}
		results = append(results, gin.H{
			"id":         image.ID,
			"url":        signedURL,
			"fileName":   image.FileName,
			"uploadedAt": image.UploadedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"images":  results,
	})
}

// missingAutoCreateFields lists the form fields required to auto-create a
// claim on first image upload
func missingAutoCreateFields(c *gin.Context) []string {
	required := []string{
		"customerName", "email", "phone", "policyNumber",
		"incidentDate", "incidentType", "description",
		"vehicleBrand", "vehicleType",
	}
	missing := []string{}
	for _, field := range required {
		if strings.TrimSpace(c.PostForm(field)) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}
