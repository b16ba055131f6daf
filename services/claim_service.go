package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/swiftclaim/claims-api/config"
	"github.com/swiftclaim/claims-api/models"
	"github.com/swiftclaim/claims-api/utils"
)

// ErrClaimNotFound is returned when a claim id does not reference an existing claim
var ErrClaimNotFound = errors.New("claim not found")

// ErrDuplicatePolicy is returned when a claim already exists for a policy number
var ErrDuplicatePolicy = errors.New("a claim already exists for this policy number")

// ValidationError reports missing or malformed request fields by name
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
	}
	return e.Message
}

// TransitionPolicy decides whether a status change from oldStatus to
// newStatus is allowed. Both arguments are normalized status names.
// The claim workflow imposes no adjacency rules, so the default policy
// allows any pair; a stricter workflow can be installed without touching
// the audit or storage contract.
type TransitionPolicy func(oldStatus, newStatus string) error

// DefaultTransitionPolicy allows every transition
var DefaultTransitionPolicy TransitionPolicy = func(oldStatus, newStatus string) error {
	return nil
}

var transitionPolicy = DefaultTransitionPolicy

// SetTransitionPolicy installs a transition policy (primarily for testing
// and for layering a stricter workflow later)
func SetTransitionPolicy(p TransitionPolicy) {
	if p == nil {
		p = DefaultTransitionPolicy
	}
	transitionPolicy = p
}

// NormalizeStatus folds a status value to its canonical stored form:
// lowercase, underscores as spaces, whitespace collapsed. "In_Progress",
// "in progress" and "IN PROGRESS" all normalize to "in progress".
func NormalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// IsValidStatus reports whether a normalized status name is part of the
// closed status enumeration
func IsValidStatus(status string) bool {
	for _, name := range models.AllStatusNames() {
		if name == status {
			return true
		}
	}
	return false
}

// TransitionStatus applies a status change to a claim, atomically updating
// the claim row and appending a ClaimAction audit row. Every successful call
// appends a new audit row, including repeat calls with the same status --
// each transition attempt is logged. Returns the updated claim with its
// lookup relations loaded.
func TransitionStatus(claimID, newStatus, actionBy, notes string) (*models.Claim, error) {
	normalized := NormalizeStatus(newStatus)
	if !IsValidStatus(normalized) {
		return nil, &ValidationError{
			Message: fmt.Sprintf("invalid status %q, must be one of: %s", newStatus, strings.Join(models.AllStatusNames(), ", ")),
		}
	}
	if actionBy == "" {
		actionBy = "admin"
	}

	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		// Lock the claim row for the read-update-append sequence so that
		// concurrent transitions on the same claim cannot interleave.
		// SQLite serializes writers on its own and rejects FOR UPDATE.
		query := tx
		if tx.Dialector.Name() == "postgres" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var claim models.Claim
		if err := query.Where("claim_id = ?", claimID).First(&claim).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClaimNotFound
			}
			return err
		}

		var oldStatusRow models.ClaimStatus
		if err := tx.First(&oldStatusRow, claim.StatusID).Error; err != nil {
			return fmt.Errorf("failed to resolve current status: %w", err)
		}

		if err := transitionPolicy(oldStatusRow.StatusName, normalized); err != nil {
			return &ValidationError{Message: err.Error()}
		}

		var newStatusRow models.ClaimStatus
		if err := tx.Where("status_name = ?", normalized).First(&newStatusRow).Error; err != nil {
			return fmt.Errorf("failed to resolve status %q: %w", normalized, err)
		}

		if err := tx.Model(&claim).Update("status_id", newStatusRow.StatusID).Error; err != nil {
			return fmt.Errorf("failed to update claim status: %w", err)
		}

		oldStatus := oldStatusRow.StatusName
		action := models.ClaimAction{
			ClaimID:   claim.ClaimID,
			OldStatus: &oldStatus,
			NewStatus: normalized,
			ActionBy:  actionBy,
			Notes:     notes,
		}
		if err := tx.Create(&action).Error; err != nil {
			return fmt.Errorf("failed to record claim action: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	var updated models.Claim
	if err := db.Preload("Status").Preload("VehicleType").Preload("IncidentType").
		Where("claim_id = ?", claimID).First(&updated).Error; err != nil {
		return nil, fmt.Errorf("failed to load updated claim: %w", err)
	}
	return &updated, nil
}

// StatusHistory returns the full status transition history for a claim,
// newest first. A claim with no recorded transitions yields an empty slice.
func StatusHistory(claimID string) ([]models.ClaimAction, error) {
	db := config.GetDB()
	actions := []models.ClaimAction{}
	if err := db.Where("claim_id = ?", claimID).
		Order("action_date DESC, action_id DESC").
		Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch claim actions: %w", err)
	}
	return actions, nil
}

// CreateClaimParams carries the fields for claim creation. Lookups can be
// referenced by id (the intake form) or by name (the image-upload path).
type CreateClaimParams struct {
	ClaimID            string // optional; generated when empty
	CustomerName       string
	Email              string
	PhoneNumber        string
	PolicyNumber       string
	VehicleTypeID      uint
	VehicleTypeName    string
	VehicleBrand       string
	VehicleDescription string
	IncidentTypeID     uint
	IncidentTypeName   string
	IncidentDate       string
	Description        string
	EstimatedCost      float64
	InitialStatus      string // defaults to "new"
	Photo              *multipart.FileHeader
}

// CreateClaim is the single claim-creation path, used by the intake form and
// by image-upload auto-creation. It validates required fields, enforces
// policy-number uniqueness, resolves lookup references and inserts the claim
// (plus its first photo, when supplied) in one transaction.
func CreateClaim(params CreateClaimParams) (*models.Claim, error) {
	if err := validateCreateParams(&params); err != nil {
		return nil, err
	}

	db := config.GetDB()

	var existing int64
	if err := db.Model(&models.Claim{}).Where("policy_number = ?", params.PolicyNumber).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check policy number: %w", err)
	}
	if existing > 0 {
		return nil, ErrDuplicatePolicy
	}

	initialStatus := NormalizeStatus(params.InitialStatus)
	if initialStatus == "" {
		initialStatus = models.StatusNew
	}
	if !IsValidStatus(initialStatus) {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid initial status %q", params.InitialStatus)}
	}

	var statusRow models.ClaimStatus
	if err := db.Where("status_name = ?", initialStatus).First(&statusRow).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve status %q: %w", initialStatus, err)
	}

	vehicleType, err := resolveVehicleType(db, params.VehicleTypeID, params.VehicleTypeName)
	if err != nil {
		return nil, err
	}
	incidentType, err := resolveIncidentType(db, params.IncidentTypeID, params.IncidentTypeName)
	if err != nil {
		return nil, err
	}

	claimID := params.ClaimID
	if claimID == "" {
		claimID = utils.GenerateClaimID()
	}

	claim := models.Claim{
		ClaimID:            claimID,
		UUID:               uuid.NewString(),
		CustomerName:       params.CustomerName,
		Email:              params.Email,
		PhoneNumber:        params.PhoneNumber,
		PolicyNumber:       params.PolicyNumber,
		VehicleTypeID:      vehicleType.TypeID,
		VehicleBrand:       params.VehicleBrand,
		VehicleDescription: params.VehicleDescription,
		IncidentTypeID:     incidentType.TypeID,
		IncidentDate:       params.IncidentDate,
		Description:        params.Description,
		StatusID:           statusRow.StatusID,
		EstimatedCost:      params.EstimatedCost,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&claim).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicatePolicy
			}
			return fmt.Errorf("failed to create claim: %w", err)
		}

		if params.Photo != nil {
			s3Key, photoURL, err := GetS3Service().UploadFile(params.Photo, claimID)
			if err != nil {
				return fmt.Errorf("failed to upload damage photo: %w", err)
			}

			if err := tx.Model(&claim).Update("damage_photo_url", photoURL).Error; err != nil {
				return fmt.Errorf("failed to record damage photo: %w", err)
			}

			image := models.ClaimImage{
				ClaimID:      claimID,
				S3URL:        photoURL,
				S3FolderPath: utils.ClaimFolderPath(claimID),
				FileName:     fileNameFromKey(s3Key),
			}
			if err := tx.Create(&image).Error; err != nil {
				return fmt.Errorf("failed to record claim image: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	var created models.Claim
	if err := db.Preload("Status").Preload("VehicleType").Preload("IncidentType").
		Where("claim_id = ?", claimID).First(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to load created claim: %w", err)
	}
	return &created, nil
}

// ApplyAssessment writes a normalized damage assessment onto the claim's
// assessment columns in a single update. Status is never touched here.
func ApplyAssessment(claimID string, assessment *DamageAssessment) error {
	db := config.GetDB()
	result := db.Model(&models.Claim{}).Where("claim_id = ?", claimID).Updates(map[string]interface{}{
		"damage_severity":       assessment.Severity,
		"damage_estimated_cost": assessment.EstimatedCost,
		"damage_repair_time":    assessment.RepairTime,
		"damage_notes":          assessment.Notes,
		"damaged_parts_count":   assessment.DamagedPartsCount,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to store damage assessment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrClaimNotFound
	}
	return nil
}

// SetReportURL persists the generated report location on the claim
func SetReportURL(claimID, reportURL string) error {
	db := config.GetDB()
	result := db.Model(&models.Claim{}).Where("claim_id = ?", claimID).Update("report_url", reportURL)
	if result.Error != nil {
		return fmt.Errorf("failed to store report URL: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrClaimNotFound
	}
	return nil
}

func validateCreateParams(params *CreateClaimParams) error {
	missing := []string{}
	required := []struct {
		name  string
		value string
	}{
		{"customerName", params.CustomerName},
		{"email", params.Email},
		{"phoneNumber", params.PhoneNumber},
		{"policyNumber", params.PolicyNumber},
		{"incidentDate", params.IncidentDate},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if params.VehicleTypeID == 0 && strings.TrimSpace(params.VehicleTypeName) == "" {
		missing = append(missing, "vehicleType")
	}
	if params.IncidentTypeID == 0 && strings.TrimSpace(params.IncidentTypeName) == "" {
		missing = append(missing, "incidentType")
	}
	if len(missing) > 0 {
		return &ValidationError{Message: "missing required fields", Fields: missing}
	}
	return nil
}

func resolveVehicleType(db *gorm.DB, typeID uint, typeName string) (*models.VehicleType, error) {
	var vehicleType models.VehicleType
	var err error
	if typeID != 0 {
		err = db.First(&vehicleType, typeID).Error
	} else {
		err = db.Where("type_name = ?", strings.ToLower(strings.TrimSpace(typeName))).First(&vehicleType).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Message: "invalid vehicle type, please select a valid option"}
		}
		return nil, fmt.Errorf("failed to resolve vehicle type: %w", err)
	}
	return &vehicleType, nil
}

func resolveIncidentType(db *gorm.DB, typeID uint, typeName string) (*models.IncidentType, error) {
	var incidentType models.IncidentType
	var err error
	if typeID != 0 {
		err = db.First(&incidentType, typeID).Error
	} else {
		err = db.Where("type_name = ?", strings.ToLower(strings.TrimSpace(typeName))).First(&incidentType).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Message: "invalid incident type, please select a valid option"}
		}
		return nil, fmt.Errorf("failed to resolve incident type: %w", err)
	}
	return &incidentType, nil
}

func fileNameFromKey(s3Key string) string {
	if idx := strings.LastIndex(s3Key, "/"); idx >= 0 {
		return s3Key[idx+1:]
	}
	return s3Key
}
