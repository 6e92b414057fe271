package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fluentia/fluentia-api/internal/domain"
	"github.com/fluentia/fluentia-api/internal/store"
)

// MockCatalogStore implements store.CatalogStore for testing
type MockCatalogStore struct {
	// Custom behavior functions
	GetLearningPathFn func(ctx context.Context, id uuid.UUID) (*domain.LearningPath, error)
	GetLessonFn       func(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	ListLessonsFn     func(ctx context.Context, learningPathID uuid.UUID) ([]*domain.Lesson, error)
	CountLessonsFn    func(ctx context.Context, learningPathID uuid.UUID) (int, error)

	// Default response values
	LearningPath *domain.LearningPath
	Lesson       *domain.Lesson
	Lessons      []*domain.Lesson
	LessonCount  int
	Err          error
}

// GetLearningPath implements the store.CatalogStore interface
func (m *MockCatalogStore) GetLearningPath(
	ctx context.Context,
	id uuid.UUID,
) (*domain.LearningPath, error) {
	if m.GetLearningPathFn != nil {
		return m.GetLearningPathFn(ctx, id)
	}
	return m.LearningPath, m.Err
}

// GetLesson implements the store.CatalogStore interface
func (m *MockCatalogStore) GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	if m.GetLessonFn != nil {
		return m.GetLessonFn(ctx, id)
	}
	return m.Lesson, m.Err
}

// ListLessons implements the store.CatalogStore interface
func (m *MockCatalogStore) ListLessons(
	ctx context.Context,
	learningPathID uuid.UUID,
) ([]*domain.Lesson, error) {
	if m.ListLessonsFn != nil {
		return m.ListLessonsFn(ctx, learningPathID)
	}
	return m.Lessons, m.Err
}

// CountLessons implements the store.CatalogStore interface
func (m *MockCatalogStore) CountLessons(
	ctx context.Context,
	learningPathID uuid.UUID,
) (int, error) {
	if m.CountLessonsFn != nil {
		return m.CountLessonsFn(ctx, learningPathID)
	}
	return m.LessonCount, m.Err
}

// WithTx implements the store.CatalogStore interface. The mock has no
// transaction state, so it returns itself.
func (m *MockCatalogStore) WithTx(tx *sql.Tx) store.CatalogStore {
	return m
}
