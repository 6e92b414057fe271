package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fluentia/fluentia-api/internal/domain"
)

// CatalogStore defines the read interface for the learning path catalog.
// Catalog content is authored elsewhere; the progress system only
// resolves references against it.
type CatalogStore interface {
	// GetLearningPath retrieves a learning path by ID.
	// Returns ErrLearningPathNotFound if the path does not exist.
	GetLearningPath(ctx context.Context, id uuid.UUID) (*domain.LearningPath, error)

	// GetLesson retrieves a lesson by ID.
	// Returns ErrLessonNotFound if the lesson does not exist.
	GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)

	// ListLessons retrieves the lessons of a learning path ordered by
	// week then position.
	ListLessons(ctx context.Context, learningPathID uuid.UUID) ([]*domain.Lesson, error)

	// CountLessons returns the number of lessons in a learning path.
	CountLessons(ctx context.Context, learningPathID uuid.UUID) (int, error)

	// WithTx returns a new CatalogStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) CatalogStore
}
