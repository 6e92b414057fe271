package mocks

import (
	"context"
	"sync"

	"github.com/fluentia/fluentia-api/internal/generation"
)

// MockFeedbackGenerator implements generation.FeedbackGenerator for testing
type MockFeedbackGenerator struct {
	// GenerateFeedbackFn allows test cases to mock the GenerateFeedback behavior
	GenerateFeedbackFn func(ctx context.Context, assessment generation.AssessmentContext) (*generation.AssessmentFeedback, error)

	// Default response values
	Feedback *generation.AssessmentFeedback
	Err      error

	// Call tracking for verification
	mu          sync.Mutex
	Calls       int
	Assessments []generation.AssessmentContext
}

// GenerateFeedback implements the generation.FeedbackGenerator interface
func (m *MockFeedbackGenerator) GenerateFeedback(
	ctx context.Context,
	assessment generation.AssessmentContext,
) (*generation.AssessmentFeedback, error) {
	m.mu.Lock()
	m.Calls++
	m.Assessments = append(m.Assessments, assessment)
	m.mu.Unlock()

	if m.GenerateFeedbackFn != nil {
		return m.GenerateFeedbackFn(ctx, assessment)
	}
	return m.Feedback, m.Err
}
