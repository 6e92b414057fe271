package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fluentia/fluentia-api/internal/domain"
	"github.com/fluentia/fluentia-api/internal/store"
)

// enrollmentColumns is the select list shared by every enrollment read.
const enrollmentColumns = `
	id, user_id, learning_path_id, duration, current_week,
	lessons_completed, weekly_assessments, vocabulary,
	total_time_spent, streak_days, last_active_date,
	is_completed, completed_at, last_sequence, version,
	created_at, updated_at`

// PostgresEnrollmentStore implements the store.EnrollmentStore
// interface using a PostgreSQL database as the storage backend.
// Lesson completions, weekly assessments and vocabulary live in JSONB
// columns; they are always read and written as part of the aggregate,
// never queried independently.
type PostgresEnrollmentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEnrollmentStore creates a new PostgreSQL implementation of
// the EnrollmentStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresEnrollmentStore(db store.DBTX, logger *slog.Logger) *PostgresEnrollmentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresEnrollmentStore{
		db:     db,
		logger: logger.With(slog.String("component", "enrollment_store")),
	}
}

// Ensure PostgresEnrollmentStore implements store.EnrollmentStore interface
var _ store.EnrollmentStore = (*PostgresEnrollmentStore)(nil)

// Create implements store.EnrollmentStore.Create
func (s *PostgresEnrollmentStore) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	if err := enrollment.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	lessons, assessments, vocabulary, err := marshalAggregates(enrollment)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO enrollments (
			id, user_id, learning_path_id, duration, current_week,
			lessons_completed, weekly_assessments, vocabulary,
			total_time_spent, streak_days, last_active_date,
			is_completed, completed_at, last_sequence, version,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err = s.db.ExecContext(ctx, query,
		enrollment.ID, enrollment.UserID, enrollment.LearningPathID,
		enrollment.Duration, enrollment.CurrentWeek,
		lessons, assessments, vocabulary,
		enrollment.TotalTimeSpent,
		enrollment.Streak.StreakDays, nullableTime(enrollment.Streak.LastActiveDate),
		enrollment.IsCompleted, enrollment.CompletedAt,
		enrollment.LastSequence, enrollment.Version,
		enrollment.CreatedAt, enrollment.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrAlreadyEnrolled, err)
		}
		return MapError(err)
	}

	return nil
}

// Get implements store.EnrollmentStore.Get
func (s *PostgresEnrollmentStore) Get(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	query := `SELECT` + enrollmentColumns + ` FROM enrollments WHERE id = $1`
	return scanEnrollment(s.db.QueryRowContext(ctx, query, id))
}

// GetForUser implements store.EnrollmentStore.GetForUser
func (s *PostgresEnrollmentStore) GetForUser(
	ctx context.Context,
	userID, learningPathID uuid.UUID,
) (*domain.Enrollment, error) {
	query := `SELECT` + enrollmentColumns + `
		FROM enrollments WHERE user_id = $1 AND learning_path_id = $2`
	return scanEnrollment(s.db.QueryRowContext(ctx, query, userID, learningPathID))
}

// GetForUserForUpdate implements store.EnrollmentStore.GetForUserForUpdate
func (s *PostgresEnrollmentStore) GetForUserForUpdate(
	ctx context.Context,
	userID, learningPathID uuid.UUID,
) (*domain.Enrollment, error) {
	query := `SELECT` + enrollmentColumns + `
		FROM enrollments WHERE user_id = $1 AND learning_path_id = $2
		FOR UPDATE`
	return scanEnrollment(s.db.QueryRowContext(ctx, query, userID, learningPathID))
}

// ListForUser implements store.EnrollmentStore.ListForUser
func (s *PostgresEnrollmentStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Enrollment, error) {
	query := `SELECT` + enrollmentColumns + `
		FROM enrollments WHERE user_id = $1
		ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var enrollments []*domain.Enrollment
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return enrollments, nil
}

// Update implements store.EnrollmentStore.Update. The WHERE clause
// carries the version the caller read; zero rows affected on an
// existing enrollment means another writer got there first.
func (s *PostgresEnrollmentStore) Update(ctx context.Context, enrollment *domain.Enrollment) error {
	if err := enrollment.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	lessons, assessments, vocabulary, err := marshalAggregates(enrollment)
	if err != nil {
		return err
	}

	query := `
		UPDATE enrollments SET
			current_week = $1,
			lessons_completed = $2,
			weekly_assessments = $3,
			vocabulary = $4,
			total_time_spent = $5,
			streak_days = $6,
			last_active_date = $7,
			is_completed = $8,
			completed_at = $9,
			last_sequence = $10,
			version = version + 1,
			updated_at = $11
		WHERE id = $12 AND version = $13`

	result, err := s.db.ExecContext(ctx, query,
		enrollment.CurrentWeek,
		lessons, assessments, vocabulary,
		enrollment.TotalTimeSpent,
		enrollment.Streak.StreakDays, nullableTime(enrollment.Streak.LastActiveDate),
		enrollment.IsCompleted, enrollment.CompletedAt,
		enrollment.LastSequence,
		enrollment.UpdatedAt,
		enrollment.ID, enrollment.Version)
	if err != nil {
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Distinguish a missing row from a lost version race.
		var exists bool
		checkErr := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM enrollments WHERE id = $1)`,
			enrollment.ID).Scan(&exists)
		if checkErr != nil {
			return MapError(checkErr)
		}
		if !exists {
			return store.ErrEnrollmentNotFound
		}
		return store.ErrConcurrentModification
	}

	enrollment.Version++
	return nil
}

// WithTx implements store.EnrollmentStore.WithTx
func (s *PostgresEnrollmentStore) WithTx(tx *sql.Tx) store.EnrollmentStore {
	return &PostgresEnrollmentStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner lets scanEnrollment work with both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnrollment(row rowScanner) (*domain.Enrollment, error) {
	var (
		enrollment     domain.Enrollment
		lessons        []byte
		assessments    []byte
		vocabulary     []byte
		lastActiveDate sql.NullTime
	)

	err := row.Scan(
		&enrollment.ID,
		&enrollment.UserID,
		&enrollment.LearningPathID,
		&enrollment.Duration,
		&enrollment.CurrentWeek,
		&lessons,
		&assessments,
		&vocabulary,
		&enrollment.TotalTimeSpent,
		&enrollment.Streak.StreakDays,
		&lastActiveDate,
		&enrollment.IsCompleted,
		&enrollment.CompletedAt,
		&enrollment.LastSequence,
		&enrollment.Version,
		&enrollment.CreatedAt,
		&enrollment.UpdatedAt,
	)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrEnrollmentNotFound, err)
		}
		return nil, MapError(err)
	}

	if err := json.Unmarshal(lessons, &enrollment.LessonsCompleted); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lessons completed: %w", err)
	}
	if err := json.Unmarshal(assessments, &enrollment.WeeklyAssessments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weekly assessments: %w", err)
	}
	if err := json.Unmarshal(vocabulary, &enrollment.Vocabulary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vocabulary: %w", err)
	}
	if lastActiveDate.Valid {
		enrollment.Streak.LastActiveDate = lastActiveDate.Time.UTC()
	}

	return &enrollment, nil
}

func marshalAggregates(enrollment *domain.Enrollment) (lessons, assessments, vocabulary []byte, err error) {
	lessons, err = json.Marshal(enrollment.LessonsCompleted)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal lessons completed: %w", err)
	}
	assessments, err = json.Marshal(enrollment.WeeklyAssessments)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal weekly assessments: %w", err)
	}
	vocabulary, err = json.Marshal(enrollment.Vocabulary)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal vocabulary: %w", err)
	}
	return lessons, assessments, vocabulary, nil
}

func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
