package services

import (
	"sync"
)

// MockDetectionService is a mock implementation of DamageDetector for testing
type MockDetectionService struct {
	Assessment *DamageAssessment
	Err        error

	mu    sync.Mutex
	calls []DetectionCall
}

// DetectionCall records one Detect invocation
type DetectionCall struct {
	ClaimID  string
	ImageURL string
}

// NewMockDetectionService creates a mock detector returning the given result
func NewMockDetectionService(assessment *DamageAssessment, err error) *MockDetectionService {
	return &MockDetectionService{Assessment: assessment, Err: err}
}

// SetAsMockForTesting sets this mock as the global detection service instance
func (m *MockDetectionService) SetAsMockForTesting() {
	SetDetectionService(m)
}

// Detect records the call and returns the configured result
func (m *MockDetectionService) Detect(claimID, imageURL string) (*DamageAssessment, error) {
	m.mu.Lock()
	m.calls = append(m.calls, DetectionCall{ClaimID: claimID, ImageURL: imageURL})
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Assessment, nil
}

// Calls returns the recorded Detect invocations
func (m *MockDetectionService) Calls() []DetectionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]DetectionCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}
