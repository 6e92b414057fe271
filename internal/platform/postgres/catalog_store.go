package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fluentia/fluentia-api/internal/domain"
	"github.com/fluentia/fluentia-api/internal/store"
)

// PostgresCatalogStore implements the store.CatalogStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCatalogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCatalogStore creates a new PostgreSQL implementation of
// the CatalogStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCatalogStore(db store.DBTX, logger *slog.Logger) *PostgresCatalogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCatalogStore{
		db:     db,
		logger: logger.With(slog.String("component", "catalog_store")),
	}
}

// Ensure PostgresCatalogStore implements store.CatalogStore interface
var _ store.CatalogStore = (*PostgresCatalogStore)(nil)

// GetLearningPath implements store.CatalogStore.GetLearningPath
func (s *PostgresCatalogStore) GetLearningPath(
	ctx context.Context,
	id uuid.UUID,
) (*domain.LearningPath, error) {
	query := `
		SELECT id, title, description, language, level, duration_weeks, created_at, updated_at
		FROM learning_paths
		WHERE id = $1`

	var path domain.LearningPath
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&path.ID,
		&path.Title,
		&path.Description,
		&path.Language,
		&path.Level,
		&path.DurationWeeks,
		&path.CreatedAt,
		&path.UpdatedAt,
	)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrLearningPathNotFound, err)
		}
		return nil, MapError(err)
	}

	return &path, nil
}

// GetLesson implements store.CatalogStore.GetLesson
func (s *PostgresCatalogStore) GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	query := `
		SELECT id, learning_path_id, week, position, title, created_at, updated_at
		FROM lessons
		WHERE id = $1`

	var lesson domain.Lesson
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&lesson.ID,
		&lesson.LearningPathID,
		&lesson.Week,
		&lesson.Position,
		&lesson.Title,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrLessonNotFound, err)
		}
		return nil, MapError(err)
	}

	return &lesson, nil
}

// ListLessons implements store.CatalogStore.ListLessons
func (s *PostgresCatalogStore) ListLessons(
	ctx context.Context,
	learningPathID uuid.UUID,
) ([]*domain.Lesson, error) {
	query := `
		SELECT id, learning_path_id, week, position, title, created_at, updated_at
		FROM lessons
		WHERE learning_path_id = $1
		ORDER BY week, position`

	rows, err := s.db.QueryContext(ctx, query, learningPathID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var lessons []*domain.Lesson
	for rows.Next() {
		var lesson domain.Lesson
		err := rows.Scan(
			&lesson.ID,
			&lesson.LearningPathID,
			&lesson.Week,
			&lesson.Position,
			&lesson.Title,
			&lesson.CreatedAt,
			&lesson.UpdatedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}
		lessons = append(lessons, &lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return lessons, nil
}

// CountLessons implements store.CatalogStore.CountLessons
func (s *PostgresCatalogStore) CountLessons(
	ctx context.Context,
	learningPathID uuid.UUID,
) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lessons WHERE learning_path_id = $1`,
		learningPathID).Scan(&count)
	if err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// WithTx implements store.CatalogStore.WithTx
func (s *PostgresCatalogStore) WithTx(tx *sql.Tx) store.CatalogStore {
	return &PostgresCatalogStore{
		db:     tx,
		logger: s.logger,
	}
}
