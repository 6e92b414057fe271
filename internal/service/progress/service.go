// Package progress implements the application service that owns all
// reads and writes of learner enrollments.
package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fluentia/fluentia-api/internal/domain"
)

// CompleteLessonCommand records a finished lesson.
type CompleteLessonCommand struct {
	LearningPathID uuid.UUID `json:"learning_path_id"`
	LessonID       uuid.UUID `json:"lesson_id"`
	Score          *int      `json:"score,omitempty"`
	TimeSpent      int       `json:"time_spent"`
	Notes          string    `json:"notes,omitempty"`

	// Sequence is the client's monotonically increasing command counter
	// for this enrollment. Zero disables the ordering check.
	Sequence int64 `json:"sequence,omitempty"`
}

// SubmitAssessmentCommand records a weekly assessment result.
type SubmitAssessmentCommand struct {
	LearningPathID uuid.UUID `json:"learning_path_id"`
	Week           int       `json:"week"`
	Score          int       `json:"score"`

	// Feedback, Strengths and AreasToImprove are the caller's own
	// commentary on the assessment. When Feedback is empty the service
	// generates it instead.
	Feedback       string   `json:"feedback,omitempty"`
	Strengths      []string `json:"strengths,omitempty"`
	AreasToImprove []string `json:"areas_to_improve,omitempty"`

	Sequence int64 `json:"sequence,omitempty"`
}

// AddWordCommand registers a vocabulary word on first exposure.
type AddWordCommand struct {
	LearningPathID uuid.UUID `json:"learning_path_id"`
	Word           string    `json:"word"`
	Translation    string    `json:"translation"`
	Sequence       int64     `json:"sequence,omitempty"`
}

// ReviewWordCommand records the outcome of one vocabulary review.
type ReviewWordCommand struct {
	LearningPathID uuid.UUID `json:"learning_path_id"`
	Word           string    `json:"word"`
	Remembered     bool      `json:"remembered"`
	Sequence       int64     `json:"sequence,omitempty"`
}

// Stats is the derived per-enrollment summary exposed to clients.
type Stats struct {
	LearningPathID     uuid.UUID `json:"learning_path_id"`
	CurrentWeek        int       `json:"current_week"`
	PercentComplete    int       `json:"percent_complete"`
	LessonsCompleted   int       `json:"lessons_completed"`
	TotalLessons       int       `json:"total_lessons"`
	VocabularyTracked  int       `json:"vocabulary_tracked"`
	VocabularyMastered int       `json:"vocabulary_mastered"`
	StreakDays         int       `json:"streak_days"`
	TotalTimeSpent     int       `json:"total_time_spent"`
	IsCompleted        bool      `json:"is_completed"`
}

// ProgressService exposes every operation on a learner's progress.
// All mutations run in a single transaction with a row lock on the
// enrollment, and every returned Enrollment is an immutable snapshot.
type ProgressService interface {
	// StartPath enrolls the user in a learning path at week 1.
	// Returns ErrLearningPathNotFound if the path does not exist, or
	// ErrAlreadyEnrolled if the user already started it.
	StartPath(ctx context.Context, userID, learningPathID uuid.UUID) (*domain.Enrollment, error)

	// GetProgress returns the user's enrollment for one learning path.
	// Returns ErrEnrollmentNotFound if the user is not enrolled.
	GetProgress(ctx context.Context, userID, learningPathID uuid.UUID) (*domain.Enrollment, error)

	// ListProgress returns all of the user's enrollments.
	ListProgress(ctx context.Context, userID uuid.UUID) ([]*domain.Enrollment, error)

	// GetStats returns the derived summary for one enrollment.
	GetStats(ctx context.Context, userID, learningPathID uuid.UUID) (*Stats, error)

	// CompleteLesson records a lesson completion. Idempotent on the
	// lesson ID. Returns domain.ErrInvalidReference if the lesson is
	// outside the reachable week range or belongs to another path.
	CompleteLesson(ctx context.Context, userID uuid.UUID, cmd CompleteLessonCommand) (*domain.Enrollment, error)

	// SubmitAssessment records a weekly assessment and advances the
	// current week on a passing score. Caller-supplied feedback is
	// stored verbatim; when the command carries none and a feedback
	// generator is configured, feedback is generated instead.
	SubmitAssessment(ctx context.Context, userID uuid.UUID, cmd SubmitAssessmentCommand) (*domain.Enrollment, error)

	// AddWord registers a vocabulary word. Returns domain.ErrWordExists
	// if the normalized word is already tracked.
	AddWord(ctx context.Context, userID uuid.UUID, cmd AddWordCommand) (*domain.Enrollment, error)

	// ReviewWord applies one spaced-repetition review outcome.
	// Returns domain.ErrWordNotFound if the word is not tracked.
	ReviewWord(ctx context.Context, userID uuid.UUID, cmd ReviewWordCommand) (*domain.Enrollment, error)

	// DueWords returns the words due for review today, ordered by next
	// review date then word key. Pure query, no side effects.
	DueWords(ctx context.Context, userID, learningPathID uuid.UUID) ([]domain.VocabularyWord, error)
}

// Common error types for ProgressService
var (
	// ErrEnrollmentNotFound indicates that the user has no enrollment
	// for the learning path.
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// ErrLearningPathNotFound indicates that the learning path does not exist.
	ErrLearningPathNotFound = errors.New("learning path not found")

	// ErrLessonNotFound indicates that the lesson does not exist.
	ErrLessonNotFound = errors.New("lesson not found")

	// ErrAlreadyEnrolled indicates that the user already started the path.
	ErrAlreadyEnrolled = errors.New("already enrolled in learning path")

	// ErrConcurrentModification indicates that the enrollment was changed
	// by another writer between read and write; the caller should
	// re-fetch and retry.
	ErrConcurrentModification = errors.New("enrollment was modified concurrently")
)

// ServiceError wraps errors from the progress service with additional
// context. This allows consumers to differentiate between different
// types of service errors using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start_path", "complete_lesson")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a new ServiceError for the given operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
