package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/fluentia/fluentia-api/internal/domain"
	"github.com/fluentia/fluentia-api/internal/service/progress"
)

// MockProgressService implements progress.ProgressService for testing
type MockProgressService struct {
	// Custom behavior functions
	StartPathFn        func(ctx context.Context, userID, learningPathID uuid.UUID) (*domain.Enrollment, error)
	GetProgressFn      func(ctx context.Context, userID, learningPathID uuid.UUID) (*domain.Enrollment, error)
	ListProgressFn     func(ctx context.Context, userID uuid.UUID) ([]*domain.Enrollment, error)
	GetStatsFn         func(ctx context.Context, userID, learningPathID uuid.UUID) (*progress.Stats, error)
	CompleteLessonFn   func(ctx context.Context, userID uuid.UUID, cmd progress.CompleteLessonCommand) (*domain.Enrollment, error)
	SubmitAssessmentFn func(ctx context.Context, userID uuid.UUID, cmd progress.SubmitAssessmentCommand) (*domain.Enrollment, error)
	AddWordFn          func(ctx context.Context, userID uuid.UUID, cmd progress.AddWordCommand) (*domain.Enrollment, error)
	ReviewWordFn       func(ctx context.Context, userID uuid.UUID, cmd progress.ReviewWordCommand) (*domain.Enrollment, error)
	DueWordsFn         func(ctx context.Context, userID, learningPathID uuid.UUID) ([]domain.VocabularyWord, error)

	// Default response values used when the functions above are nil
	Enrollment  *domain.Enrollment
	Enrollments []*domain.Enrollment
	Stats       *progress.Stats
	Words       []domain.VocabularyWord
	Err         error
}

// StartPath implements the progress.ProgressService interface
func (m *MockProgressService) StartPath(
	ctx context.Context,
	userID, learningPathID uuid.UUID,
) (*domain.Enrollment, error) {
	if m.StartPathFn != nil {
		return m.StartPathFn(ctx, userID, learningPathID)
	}
	return m.Enrollment, m.Err
}

// GetProgress implements the progress.ProgressService interface
func (m *MockProgressService) GetProgress(
	ctx context.Context,
	userID, learningPathID uuid.UUID,
) (*domain.Enrollment, error) {
	if m.GetProgressFn != nil {
		return m.GetProgressFn(ctx, userID, learningPathID)
	}
	return m.Enrollment, m.Err
}

// ListProgress implements the progress.ProgressService interface
func (m *MockProgressService) ListProgress(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Enrollment, error) {
	if m.ListProgressFn != nil {
		return m.ListProgressFn(ctx, userID)
	}
	return m.Enrollments, m.Err
}

// GetStats implements the progress.ProgressService interface
func (m *MockProgressService) GetStats(
	ctx context.Context,
	userID, learningPathID uuid.UUID,
) (*progress.Stats, error) {
	if m.GetStatsFn != nil {
		return m.GetStatsFn(ctx, userID, learningPathID)
	}
	return m.Stats, m.Err
}

// CompleteLesson implements the progress.ProgressService interface
func (m *MockProgressService) CompleteLesson(
	ctx context.Context,
	userID uuid.UUID,
	cmd progress.CompleteLessonCommand,
) (*domain.Enrollment, error) {
	if m.CompleteLessonFn != nil {
		return m.CompleteLessonFn(ctx, userID, cmd)
	}
	return m.Enrollment, m.Err
}

// SubmitAssessment implements the progress.ProgressService interface
func (m *MockProgressService) SubmitAssessment(
	ctx context.Context,
	userID uuid.UUID,
	cmd progress.SubmitAssessmentCommand,
) (*domain.Enrollment, error) {
	if m.SubmitAssessmentFn != nil {
		return m.SubmitAssessmentFn(ctx, userID, cmd)
	}
	return m.Enrollment, m.Err
}

// AddWord implements the progress.ProgressService interface
func (m *MockProgressService) AddWord(
	ctx context.Context,
	userID uuid.UUID,
	cmd progress.AddWordCommand,
) (*domain.Enrollment, error) {
	if m.AddWordFn != nil {
		return m.AddWordFn(ctx, userID, cmd)
	}
	return m.Enrollment, m.Err
}

// ReviewWord implements the progress.ProgressService interface
func (m *MockProgressService) ReviewWord(
	ctx context.Context,
	userID uuid.UUID,
	cmd progress.ReviewWordCommand,
) (*domain.Enrollment, error) {
	if m.ReviewWordFn != nil {
		return m.ReviewWordFn(ctx, userID, cmd)
	}
	return m.Enrollment, m.Err
}

// DueWords implements the progress.ProgressService interface
func (m *MockProgressService) DueWords(
	ctx context.Context,
	userID, learningPathID uuid.UUID,
) ([]domain.VocabularyWord, error) {
	if m.DueWordsFn != nil {
		return m.DueWordsFn(ctx, userID, learningPathID)
	}
	return m.Words, m.Err
}
