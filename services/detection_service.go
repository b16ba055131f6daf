package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/swiftclaim/claims-api/config"
)

// ErrDetectionNotConfigured is returned when DAMAGE_DETECTION_API_URL is not
// set; the external call is never attempted in that case
var ErrDetectionNotConfigured = errors.New("damage detection API URL is not configured")

// ErrDetectionFailed is returned when the detection collaborator responds
// with a non-2xx status or an unparsable body; the claim is left unmodified
var ErrDetectionFailed = errors.New("damage detection failed")

// DamageAssessment is the normalized result of an external detection call
type DamageAssessment struct {
	Severity          string  `json:"severity"`
	EstimatedCost     float64 `json:"estimatedCost"`
	RepairTime        string  `json:"repairTime"`
	Notes             string  `json:"notes"`
	DamagedPartsCount int     `json:"damagedPartsCount"`
}

// DamageDetector calls the external damage-detection collaborator and returns
// a normalized assessment
type DamageDetector interface {
	Detect(claimID, imageURL string) (*DamageAssessment, error)
}

// HTTPDetectionService implements DamageDetector against the detection API
type HTTPDetectionService struct {
	baseURL string
	client  *http.Client
}

var detectorInstance DamageDetector

// InitDetectionService initializes the damage detection service
func InitDetectionService() DamageDetector {
	cfg := config.GetConfig()
	detectorInstance = &HTTPDetectionService{
		baseURL: cfg.DamageDetectionAPIURL,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
	return detectorInstance
}

// GetDetectionService returns the initialized detection service instance
func GetDetectionService() DamageDetector {
	return detectorInstance
}

// SetDetectionService sets the detection service instance (primarily for testing)
func SetDetectionService(detector DamageDetector) {
	detectorInstance = detector
}

// detectionResponse mirrors the collaborator's wire shape. Every field is
// untrusted: values arrive as interface{} and are validated field by field.
type detectionResponse struct {
	Severity          interface{} `json:"severity"`
	TotalEstimatedCost interface{} `json:"total_estimated_cost"`
	RepairTimeRange   interface{} `json:"repair_time_range"`
	DamagedPartsCount interface{} `json:"damaged_parts_count"`
}

// Detect calls the detection collaborator with the claim id and image URL
// and defensively normalizes the response
func (s *HTTPDetectionService) Detect(claimID, imageURL string) (*DamageAssessment, error) {
	if s.baseURL == "" {
		return nil, ErrDetectionNotConfigured
	}

	payload, err := json.Marshal(map[string]string{
		"claim_id":  claimID,
		"image_url": imageURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode detection request: %w", err)
	}

	resp, err := s.client.Post(s.baseURL+"/detect", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrDetectionFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: detection API returned %d: %s", ErrDetectionFailed, resp.StatusCode, string(body))
	}

	var result detectionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: invalid response format: %v", ErrDetectionFailed, err)
	}

	assessment := normalizeAssessment(result)
	return &assessment, nil
}

// normalizeAssessment folds an untrusted collaborator response into a valid
// DamageAssessment. Malformed or missing fields become defaults; they never
// propagate invalid types into storage.
func normalizeAssessment(result detectionResponse) DamageAssessment {
	assessment := DamageAssessment{
		Severity:   "unknown",
		RepairTime: "5-7 days",
	}

	if severity, ok := result.Severity.(string); ok {
		switch severity {
		case "low", "medium", "high":
			assessment.Severity = severity
		}
	}

	if cost, ok := result.TotalEstimatedCost.(float64); ok {
		assessment.EstimatedCost = cost
	}

	if repairTime, ok := result.RepairTimeRange.(string); ok && repairTime != "" {
		assessment.RepairTime = repairTime
	}

	if count, ok := result.DamagedPartsCount.(float64); ok {
		assessment.DamagedPartsCount = int(count)
	}

	assessment.Notes = fmt.Sprintf("Detected %d damaged parts", assessment.DamagedPartsCount)
	return assessment
}
