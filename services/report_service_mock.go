package services

import (
	"sync"

	"github.com/swiftclaim/claims-api/models"
)

// MockReportService is a mock implementation of ReportGenerator for testing
type MockReportService struct {
	ReportURL string
	Err       error

	mu    sync.Mutex
	calls []ReportCall
}

// ReportCall records one Generate invocation
type ReportCall struct {
	ClaimID   string
	SendEmail bool
}

// NewMockReportService creates a mock report generator returning the given result
func NewMockReportService(reportURL string, err error) *MockReportService {
	return &MockReportService{ReportURL: reportURL, Err: err}
}

// SetAsMockForTesting sets this mock as the global report service instance
func (m *MockReportService) SetAsMockForTesting() {
	SetReportService(m)
}

// Generate records the call and returns the configured result
func (m *MockReportService) Generate(claim *models.Claim, sendEmail bool) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ReportCall{ClaimID: claim.ClaimID, SendEmail: sendEmail})
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.ReportURL, nil
}

// Calls returns the recorded Generate invocations
func (m *MockReportService) Calls() []ReportCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]ReportCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}
