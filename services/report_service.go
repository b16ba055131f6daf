package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/swiftclaim/claims-api/config"
	"github.com/swiftclaim/claims-api/models"
	"github.com/swiftclaim/claims-api/utils"
)

// ErrReportNotConfigured is returned when REPORT_GENERATION_API_URL is not set
var ErrReportNotConfigured = errors.New("report generation API URL is not configured")

// ErrReportTimeout is returned when report generation exceeds its deadline.
// Callers surface it separately from generic collaborator failures.
var ErrReportTimeout = errors.New("report generation timed out")

// ErrReportFailed is returned when the report collaborator fails or responds
// with an unexpected shape
var ErrReportFailed = errors.New("report generation failed")

// ReportGenerator calls the external report-generation collaborator and
// returns the URL of the generated PDF
type ReportGenerator interface {
	Generate(claim *models.Claim, sendEmail bool) (string, error)
}

// HTTPReportService implements ReportGenerator against the report API
type HTTPReportService struct {
	baseURL string
	bucket  string
	region  string
	timeout time.Duration
	client  *http.Client
}

var reportServiceInstance ReportGenerator

// InitReportService initializes the report generation service
func InitReportService() ReportGenerator {
	cfg := config.GetConfig()
	reportServiceInstance = &HTTPReportService{
		baseURL: cfg.ReportGenerationURL,
		bucket:  cfg.AWSS3Bucket,
		region:  cfg.AWSRegion,
		timeout: time.Duration(cfg.ReportTimeout()) * time.Second,
		client:  &http.Client{},
	}
	return reportServiceInstance
}

// GetReportService returns the initialized report service instance
func GetReportService() ReportGenerator {
	return reportServiceInstance
}

// SetReportService sets the report service instance (primarily for testing)
func SetReportService(service ReportGenerator) {
	reportServiceInstance = service
}

type reportResponse struct {
	Message string `json:"message"`
}

// Generate asks the collaborator to build (and optionally email) the claim
// report PDF. The call runs under a hard deadline; exceeding it yields
// ErrReportTimeout and nothing is persisted by the caller.
func (s *HTTPReportService) Generate(claim *models.Claim, sendEmail bool) (string, error) {
	if s.baseURL == "" {
		return "", ErrReportNotConfigured
	}

	payload, err := json.Marshal(map[string]interface{}{
		"claim_id":         claim.ClaimID,
		"email":            claim.Email,
		"customer_name":    claim.CustomerName,
		"policy_number":    claim.PolicyNumber,
		"incident_date":    claim.IncidentDate,
		"vehicle_brand":    claim.VehicleBrand,
		"damage_photo_url": claim.DamagePhotoURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode report request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/generate-report?send_email=%t", s.baseURL, sendEmail)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrReportTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrReportFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrReportTimeout
		}
		return "", fmt.Errorf("%w: failed to read response: %v", ErrReportFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: report API returned %d: %s", ErrReportFailed, resp.StatusCode, string(body))
	}

	var result reportResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: invalid response format: %v", ErrReportFailed, err)
	}

	// The collaborator signals success by naming the uploaded artifact
	if !strings.Contains(result.Message, "PDF uploaded to S3") {
		return "", fmt.Errorf("%w: unexpected response message %q", ErrReportFailed, result.Message)
	}

	reportURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s/report.pdf",
		s.bucket, s.region, utils.ClaimFolderPath(claim.ClaimID))
	return reportURL, nil
}
