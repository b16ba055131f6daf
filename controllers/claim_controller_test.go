package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/swiftclaim/claims-api/config"
	"github.com/swiftclaim/claims-api/models"
	"github.com/swiftclaim/claims-api/services"
)

// setupControllerTest wires an in-memory database, test configuration and the
// S3/detection/report mocks shared by the controller tests
func setupControllerTest(t *testing.T) (*gorm.DB, *services.MockS3Service) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.ClaimStatus{},
		&models.VehicleType{},
		&models.IncidentType{},
		&models.Claim{},
		&models.ClaimAction{},
		&models.ClaimImage{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if err := models.SeedLookups(db); err != nil {
		t.Fatalf("Failed to seed lookup tables: %v", err)
	}
	config.SetDB(db)

	config.SetConfig(&config.Config{
		JWTSecret:     "test-secret",
		AdminEmail:    "admin@swiftclaim.com",
		AdminPassword: "test-password",
		AWSS3Bucket:   "test-bucket",
		AWSRegion:     "us-east-1",
	})

	mockS3 := services.NewMockS3Service()
	mockS3.SetAsMockForTesting()
	return db, mockS3
}

func seedControllerClaim(t *testing.T, claimID, policyNumber string) *models.Claim {
	claim, err := services.CreateClaim(services.CreateClaimParams{
		ClaimID:          claimID,
		CustomerName:     "Jordan Rivera",
		Email:            "jordan@example.com",
		PhoneNumber:      "555-0100",
		PolicyNumber:     policyNumber,
		VehicleTypeName:  "car",
		VehicleBrand:     "Toyota",
		IncidentTypeName: "collision",
		IncidentDate:     "2026-01-15",
		Description:      "Rear-end collision at low speed",
	})
	if err != nil {
		t.Fatalf("Failed to seed test claim: %v", err)
	}
	return claim
}

func newClaimsRouter() *gin.Engine {
	router := gin.New()
	claims := router.Group("/api/v1/claims")
	{
		claims.GET("", ListClaims)
		claims.POST("", CreateClaim)
		claims.GET("/:id", GetClaim)
		claims.DELETE("/:id", DeleteClaim)
	}
	return router
}

// multipartForm builds a multipart body from form fields plus optional named
// file parts
func multipartForm(t *testing.T, fields map[string]string, fileField, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("Failed to write form field %s: %v", key, err)
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write(fileContent); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func validCreateForm() map[string]string {
	return map[string]string{
		"customerName":   "Jordan Rivera",
		"email":          "jordan@example.com",
		"phoneNumber":    "555-0100",
		"policyNumber":   "POL-20000001",
		"vehicleTypeId":  "1",
		"vehicleBrand":   "Toyota",
		"incidentTypeId": "1",
		"incidentDate":   "2026-01-15",
		"description":    "Rear-end collision at low speed",
		"estimatedCost":  "1500",
	}
}

func TestCreateClaimEndpoint(t *testing.T) {
	db, mockS3 := setupControllerTest(t)
	router := newClaimsRouter()

	body, contentType := multipartForm(t, validCreateForm(), "images", "damage.png", []byte("png-bytes"))
	req, _ := http.NewRequest("POST", "/api/v1/claims", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Claim submitted successfully", response["message"])
	claimID, _ := response["claimId"].(string)
	assert.Len(t, claimID, 12)

	var claim models.Claim
	assert.NoError(t, db.Preload("Status").Where("claim_id = ?", claimID).First(&claim).Error)
	assert.Equal(t, "new", claim.Status.StatusName)
	assert.NotNil(t, claim.DamagePhotoURL)
	assert.Len(t, mockS3.UploadedFiles(), 1)
}

func TestCreateClaimEndpointWithoutPhoto(t *testing.T) {
	_, mockS3 := setupControllerTest(t)
	router := newClaimsRouter()

	body, contentType := multipartForm(t, validCreateForm(), "", "", nil)
	req, _ := http.NewRequest("POST", "/api/v1/claims", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, mockS3.UploadedFiles())
}

func TestCreateClaimEndpointMissingFields(t *testing.T) {
	setupControllerTest(t)
	router := newClaimsRouter()

	fields := validCreateForm()
	delete(fields, "email")
	delete(fields, "phoneNumber")

	body, contentType := multipartForm(t, fields, "", "", nil)
	req, _ := http.NewRequest("POST", "/api/v1/claims", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, w.Body.String(), "email")
	assert.Contains(t, w.Body.String(), "phoneNumber")
}

func TestCreateClaimEndpointDuplicatePolicy(t *testing.T) {
	setupControllerTest(t)
	seedControllerClaim(t, "000000000001", "POL-20000001")
	router := newClaimsRouter()

	body, contentType := multipartForm(t, validCreateForm(), "", "", nil)
	req, _ := http.NewRequest("POST", "/api/v1/claims", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "DUPLICATE_POLICY")
}

func TestListClaimsNewestFirst(t *testing.T) {
	db, _ := setupControllerTest(t)
	older := seedControllerClaim(t, "000000000001", "POL-20000001")
	newer := seedControllerClaim(t, "000000000002", "POL-20000002")

	// Force distinct creation times; sqlite timestamps can collide in-test
	db.Model(&models.Claim{}).Where("claim_id = ?", older.ClaimID).
		Update("created_at", time.Now().Add(-time.Hour))

	router := newClaimsRouter()
	req, _ := http.NewRequest("GET", "/api/v1/claims", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool           `json:"success"`
		Claims  []claimSummary `json:"claims"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Len(t, response.Claims, 2)
	assert.Equal(t, newer.ClaimID, response.Claims[0].ID)
	assert.Equal(t, older.ClaimID, response.Claims[1].ID)
	assert.Equal(t, "new", response.Claims[0].Status)
	assert.Equal(t, "car", response.Claims[0].VehicleType)
	assert.Equal(t, "collision", response.Claims[0].IncidentType)
}

func TestListClaimsPrefersAssessedCost(t *testing.T) {
	setupControllerTest(t)
	seedControllerClaim(t, "000000000001", "POL-20000001")
	assert.NoError(t, services.ApplyAssessment("000000000001", &services.DamageAssessment{
		Severity:      "medium",
		EstimatedCost: 2500,
		RepairTime:    "3-5 days",
	}))

	router := newClaimsRouter()
	req, _ := http.NewRequest("GET", "/api/v1/claims", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response struct {
		Claims []claimSummary `json:"claims"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Claims, 1)
	assert.Equal(t, float64(2500), response.Claims[0].EstimatedCost)
}

func TestGetClaimDetail(t *testing.T) {
	db, _ := setupControllerTest(t)
	seedControllerClaim(t, "000000000001", "POL-20000001")

	db.Create(&models.ClaimImage{
		ClaimID:      "000000000001",
		S3URL:        "https://test-bucket.s3.us-east-1.amazonaws.com/claims/000000000001/front.png",
		S3FolderPath: "claims/000000000001",
		FileName:     "front.png",
	})
	assert.NoError(t, services.ApplyAssessment("000000000001", &services.DamageAssessment{
		Severity:          "high",
		EstimatedCost:     4200,
		RepairTime:        "10-14 days",
		Notes:             "Detected 3 damaged parts",
		DamagedPartsCount: 3,
	}))

	router := newClaimsRouter()
	req, _ := http.NewRequest("GET", "/api/v1/claims/000000000001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool                   `json:"success"`
		Claim   map[string]interface{} `json:"claim"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, "000000000001", response.Claim["id"])
	assert.Equal(t, "new", response.Claim["status"])

	images, _ := response.Claim["images"].([]interface{})
	assert.Len(t, images, 1)
	assert.Equal(t, images[0], response.Claim["image"])

	assessment, ok := response.Claim["damageAssessment"].(map[string]interface{})
	assert.True(t, ok, "Assessed claims expose the damageAssessment block")
	assert.Equal(t, "high", assessment["severity"])
	assert.Equal(t, float64(3), assessment["damagedPartsCount"])
}

func TestGetClaimDetailWithoutAssessment(t *testing.T) {
	setupControllerTest(t)
	seedControllerClaim(t, "000000000001", "POL-20000001")

	router := newClaimsRouter()
	req, _ := http.NewRequest("GET", "/api/v1/claims/000000000001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response struct {
		Claim map[string]interface{} `json:"claim"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	_, present := response.Claim["damageAssessment"]
	assert.False(t, present, "Unassessed claims omit the assessment block entirely")
}

func TestGetClaimNotFound(t *testing.T) {
	setupControllerTest(t)
	router := newClaimsRouter()

	req, _ := http.NewRequest("GET", "/api/v1/claims/999999999999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CLAIM_NOT_FOUND")
}

func TestDeleteClaimEndpoint(t *testing.T) {
	db, mockS3 := setupControllerTest(t)
	seedControllerClaim(t, "000000000001", "POL-20000001")
	_, err := services.TransitionStatus("000000000001", "approved", "admin", "")
	assert.NoError(t, err)
	mockS3.StoreObject("claims/000000000001/front.png", []byte("png-bytes"))
	db.Create(&models.ClaimImage{
		ClaimID:      "000000000001",
		S3URL:        "https://test-bucket.s3.us-east-1.amazonaws.com/claims/000000000001/front.png",
		S3FolderPath: "claims/000000000001",
		FileName:     "front.png",
	})

	router := newClaimsRouter()
	req, _ := http.NewRequest("DELETE", "/api/v1/claims/000000000001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var counts [3]int64
	db.Model(&models.Claim{}).Count(&counts[0])
	db.Model(&models.ClaimAction{}).Count(&counts[1])
	db.Model(&models.ClaimImage{}).Count(&counts[2])
	assert.Equal(t, [3]int64{0, 0, 0}, counts, "Delete removes the claim with its actions and images")
	assert.False(t, mockS3.FileExists("claims/000000000001/front.png"))
}

func TestDeleteClaimNotFound(t *testing.T) {
	setupControllerTest(t)
	router := newClaimsRouter()

	req, _ := http.NewRequest("DELETE", "/api/v1/claims/999999999999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
