package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fluentia/fluentia-api/internal/domain"
	"github.com/fluentia/fluentia-api/internal/domain/srs"
	"github.com/fluentia/fluentia-api/internal/generation"
	"github.com/fluentia/fluentia-api/internal/platform/clock"
	"github.com/fluentia/fluentia-api/internal/platform/logger"
	"github.com/fluentia/fluentia-api/internal/store"
)

// Verify interface compliance at compile time
var _ ProgressService = (*progressServiceImpl)(nil)

// progressServiceImpl implements the ProgressService interface.
type progressServiceImpl struct {
	db          *sql.DB
	enrollments store.EnrollmentStore
	catalog     store.CatalogStore
	srsService  srs.Service
	feedback    generation.FeedbackGenerator
	clock       clock.Clock
	policy      domain.ProgressPolicy
	logger      *slog.Logger
}

// NewProgressService creates a new ProgressService implementation.
// The feedback generator is optional; without one, weekly assessments
// get static fallback feedback.
func NewProgressService(
	db *sql.DB,
	enrollments store.EnrollmentStore,
	catalog store.CatalogStore,
	srsService srs.Service,
	feedback generation.FeedbackGenerator,
	clk clock.Clock,
	policy domain.ProgressPolicy,
	log *slog.Logger,
) ProgressService {
	if db == nil {
		panic("db cannot be nil")
	}
	if enrollments == nil {
		panic("enrollments cannot be nil")
	}
	if catalog == nil {
		panic("catalog cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if clk == nil {
		panic("clock cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &progressServiceImpl{
		db:          db,
		enrollments: enrollments,
		catalog:     catalog,
		srsService:  srsService,
		feedback:    feedback,
		clock:       clk,
		policy:      policy,
		logger:      log.With(slog.String("component", "progress_service")),
	}
}

// StartPath implements ProgressService.StartPath.
func (s *progressServiceImpl) StartPath(
	ctx context.Context,
	userID, learningPathID uuid.UUID,
) (*domain.Enrollment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var enrollment *domain.Enrollment
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		path, err := s.catalog.WithTx(tx).GetLearningPath(ctx, learningPathID)
		if err != nil {
			if errors.Is(err, store.ErrLearningPathNotFound) {
				return ErrLearningPathNotFound
			}
			return fmt.Errorf("failed to get learning path: %w", err)
		}

		enrollment, err = domain.NewEnrollment(userID, learningPathID, path.DurationWeeks, s.clock.Now())
		if err != nil {
			return err
		}

		if err := s.enrollments.WithTx(tx).Create(ctx, enrollment); err != nil {
			if errors.Is(err, store.ErrAlreadyEnrolled) {
				return ErrAlreadyEnrolled
			}
			return fmt.Errorf("failed to create enrollment: %w", err)
		}
		return nil
	})
	if err != nil {
		if isKnownError(err) {
			return nil, err
		}
		log.Error("failed to start learning path",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("learning_path_id", learningPathID.String()))
		return nil, NewServiceError("start_path", "failed to start learning path", err)
	}

	log.Info("learning path started",
		slog.String("user_id", userID.String()),
		slog.String("learning_path_id", learningPathID.String()),
		slog.String("enrollment_id", enrollment.ID.String()))
	return enrollment.Snapshot(), nil
}

// GetProgress implements ProgressService.GetProgress.
func (s *progressServiceImpl) GetProgress(
	ctx context.Context,
	userID, learningPathID uuid.UUID,
) (*domain.Enrollment, error) {
	enrollment, err := s.enrollments.GetForUser(ctx, userID, learningPathID)
	if err != nil {
		if errors.Is(err, store.ErrEnrollmentNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, NewServiceError("get_progress", "failed to get enrollment", err)
	}
	return enrollment.Snapshot(), nil
}

// ListProgress implements ProgressService.ListProgress.
func (s *progressServiceImpl) ListProgress(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Enrollment, error) {
	enrollments, err := s.enrollments.ListForUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("list_progress", "failed to list enrollments", err)
	}

	snapshots := make([]*domain.Enrollment, len(enrollments))
	for i, enrollment := range enrollments {
		snapshots[i] = enrollment.Snapshot()
	}
	return snapshots, nil
}

// GetStats implements ProgressService.GetStats.
func (s *progressServiceImpl) GetStats(
	ctx context.Context,
	userID, learningPathID uuid.UUID,
) (*Stats, error) {
	enrollment, err := s.enrollments.GetForUser(ctx, userID, learningPathID)
	if err != nil {
		if errors.Is(err, store.ErrEnrollmentNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, NewServiceError("get_stats", "failed to get enrollment", err)
	}

	totalLessons, err := s.catalog.CountLessons(ctx, learningPathID)
	if err != nil {
		return nil, NewServiceError("get_stats", "failed to count lessons", err)
	}

	mastered := 0
	for i := range enrollment.Vocabulary {
		if enrollment.Vocabulary[i].Mastered {
			mastered++
		}
	}

	return &Stats{
		LearningPathID:     learningPathID,
		CurrentWeek:        enrollment.CurrentWeek,
		PercentComplete:    enrollment.PercentComplete(),
		LessonsCompleted:   enrollment.LessonsCompletedCount(),
		TotalLessons:       totalLessons,
		VocabularyTracked:  len(enrollment.Vocabulary),
		VocabularyMastered: mastered,
		StreakDays:         enrollment.Streak.StreakDays,
		TotalTimeSpent:     enrollment.TotalTimeSpent,
		IsCompleted:        enrollment.IsCompleted,
	}, nil
}

// CompleteLesson implements ProgressService.CompleteLesson.
func (s *progressServiceImpl) CompleteLesson(
	ctx context.Context,
	userID uuid.UUID,
	cmd CompleteLessonCommand,
) (*domain.Enrollment, error) {
	now, today := s.clock.Now(), s.clock.Today()

	return s.mutate(ctx, "complete_lesson", userID, cmd.LearningPathID,
		func(ctx context.Context, tx *sql.Tx, enrollment *domain.Enrollment) error {
			lesson, err := s.catalog.WithTx(tx).GetLesson(ctx, cmd.LessonID)
			if err != nil {
				if errors.Is(err, store.ErrLessonNotFound) {
					return ErrLessonNotFound
				}
				return fmt.Errorf("failed to get lesson: %w", err)
			}
			if lesson.LearningPathID != cmd.LearningPathID {
				return domain.ErrInvalidReference
			}

			return enrollment.CompleteLesson(
				lesson.ID, lesson.Week,
				cmd.Score, cmd.TimeSpent, cmd.Notes,
				cmd.Sequence, s.policy, now, today)
		})
}

// SubmitAssessment implements ProgressService.SubmitAssessment.
// Feedback is resolved before the transaction so the external LLM
// call never holds a row lock; generation failures degrade to static
// fallback feedback rather than failing the command.
func (s *progressServiceImpl) SubmitAssessment(
	ctx context.Context,
	userID uuid.UUID,
	cmd SubmitAssessmentCommand,
) (*domain.Enrollment, error) {
	now, today := s.clock.Now(), s.clock.Today()

	feedback := s.resolveFeedback(ctx, userID, cmd)

	return s.mutate(ctx, "submit_assessment", userID, cmd.LearningPathID,
		func(ctx context.Context, tx *sql.Tx, enrollment *domain.Enrollment) error {
			return enrollment.SubmitWeeklyAssessment(
				cmd.Week, cmd.Score,
				feedback.Summary, feedback.Strengths, feedback.AreasToImprove,
				cmd.Sequence, s.policy, now, today)
		})
}

// AddWord implements ProgressService.AddWord.
func (s *progressServiceImpl) AddWord(
	ctx context.Context,
	userID uuid.UUID,
	cmd AddWordCommand,
) (*domain.Enrollment, error) {
	now, today := s.clock.Now(), s.clock.Today()

	return s.mutate(ctx, "add_word", userID, cmd.LearningPathID,
		func(ctx context.Context, tx *sql.Tx, enrollment *domain.Enrollment) error {
			return enrollment.AddVocabularyWord(cmd.Word, cmd.Translation, cmd.Sequence, s.policy, now, today)
		})
}

// ReviewWord implements ProgressService.ReviewWord.
func (s *progressServiceImpl) ReviewWord(
	ctx context.Context,
	userID uuid.UUID,
	cmd ReviewWordCommand,
) (*domain.Enrollment, error) {
	now, today := s.clock.Now(), s.clock.Today()

	return s.mutate(ctx, "review_word", userID, cmd.LearningPathID,
		func(ctx context.Context, tx *sql.Tx, enrollment *domain.Enrollment) error {
			word, err := enrollment.VocabularyWord(cmd.Word)
			if err != nil {
				return err
			}

			updated, err := s.srsService.Review(word, cmd.Remembered, today)
			if err != nil {
				return fmt.Errorf("failed to schedule review: %w", err)
			}

			return enrollment.ApplyVocabularyReview(updated, cmd.Sequence, s.policy, now, today)
		})
}

// DueWords implements ProgressService.DueWords.
func (s *progressServiceImpl) DueWords(
	ctx context.Context,
	userID, learningPathID uuid.UUID,
) ([]domain.VocabularyWord, error) {
	enrollment, err := s.enrollments.GetForUser(ctx, userID, learningPathID)
	if err != nil {
		if errors.Is(err, store.ErrEnrollmentNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, NewServiceError("due_words", "failed to get enrollment", err)
	}
	return enrollment.DueWords(s.clock.Today()), nil
}

// mutate loads the enrollment under a row lock, applies fn, and writes
// the result back with an optimistic version check, all in one
// transaction. The returned enrollment is a snapshot of the committed
// state.
func (s *progressServiceImpl) mutate(
	ctx context.Context,
	operation string,
	userID, learningPathID uuid.UUID,
	fn func(ctx context.Context, tx *sql.Tx, enrollment *domain.Enrollment) error,
) (*domain.Enrollment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var enrollment *domain.Enrollment
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		enrollments := s.enrollments.WithTx(tx)

		var err error
		enrollment, err = enrollments.GetForUserForUpdate(ctx, userID, learningPathID)
		if err != nil {
			if errors.Is(err, store.ErrEnrollmentNotFound) {
				return ErrEnrollmentNotFound
			}
			return fmt.Errorf("failed to get enrollment: %w", err)
		}

		if err := fn(ctx, tx, enrollment); err != nil {
			return err
		}

		if err := enrollments.Update(ctx, enrollment); err != nil {
			if errors.Is(err, store.ErrConcurrentModification) {
				return ErrConcurrentModification
			}
			return fmt.Errorf("failed to update enrollment: %w", err)
		}
		return nil
	})
	if err != nil {
		if isKnownError(err) {
			return nil, err
		}
		log.Error("progress command failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("learning_path_id", learningPathID.String()))
		return nil, NewServiceError(operation, "progress command failed", err)
	}

	log.Debug("progress command applied",
		slog.String("operation", operation),
		slog.String("user_id", userID.String()),
		slog.String("learning_path_id", learningPathID.String()),
		slog.Int64("version", enrollment.Version))

	return enrollment.Snapshot(), nil
}

// resolveFeedback returns the caller's feedback verbatim when the
// command carries any, and only otherwise asks the generator. Caller
// strengths and areas still win over generated ones when supplied
// alongside an empty summary.
func (s *progressServiceImpl) resolveFeedback(
	ctx context.Context,
	userID uuid.UUID,
	cmd SubmitAssessmentCommand,
) *generation.AssessmentFeedback {
	if cmd.Feedback != "" {
		return &generation.AssessmentFeedback{
			Summary:        cmd.Feedback,
			Strengths:      cmd.Strengths,
			AreasToImprove: cmd.AreasToImprove,
		}
	}

	feedback := s.generateFeedback(ctx, userID, cmd)
	if len(cmd.Strengths) > 0 {
		feedback.Strengths = cmd.Strengths
	}
	if len(cmd.AreasToImprove) > 0 {
		feedback.AreasToImprove = cmd.AreasToImprove
	}
	return feedback
}

// generateFeedback produces assessment feedback via the configured
// generator, falling back to static text when no generator is set or
// the call fails.
func (s *progressServiceImpl) generateFeedback(
	ctx context.Context,
	userID uuid.UUID,
	cmd SubmitAssessmentCommand,
) *generation.AssessmentFeedback {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.feedback == nil {
		return fallbackFeedback(cmd.Score, s.policy.PassThreshold)
	}

	assessment := generation.AssessmentContext{
		Week:          cmd.Week,
		Score:         cmd.Score,
		PassThreshold: s.policy.PassThreshold,
	}
	if path, err := s.catalog.GetLearningPath(ctx, cmd.LearningPathID); err == nil {
		assessment.PathTitle = path.Title
		assessment.Language = path.Language
	}
	if enrollment, err := s.enrollments.GetForUser(ctx, userID, cmd.LearningPathID); err == nil {
		assessment.StreakDays = enrollment.Streak.StreakDays
	}

	feedback, err := s.feedback.GenerateFeedback(ctx, assessment)
	if err != nil {
		log.Warn("feedback generation failed, using fallback",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("week", cmd.Week))
		return fallbackFeedback(cmd.Score, s.policy.PassThreshold)
	}
	return feedback
}

func fallbackFeedback(score, passThreshold int) *generation.AssessmentFeedback {
	if score >= passThreshold {
		return &generation.AssessmentFeedback{
			Summary: fmt.Sprintf(
				"You passed this week's assessment with a score of %d. Keep up the steady practice.",
				score),
		}
	}
	return &generation.AssessmentFeedback{
		Summary: fmt.Sprintf(
			"You scored %d, just short of the %d needed to advance. Review this week's lessons and retake the assessment when ready.",
			score, passThreshold),
	}
}

// isKnownError reports whether err is one of the sentinel errors the
// API layer maps to specific status codes; those pass through without
// ServiceError wrapping.
func isKnownError(err error) bool {
	return errors.Is(err, ErrEnrollmentNotFound) ||
		errors.Is(err, ErrLearningPathNotFound) ||
		errors.Is(err, ErrLessonNotFound) ||
		errors.Is(err, ErrAlreadyEnrolled) ||
		errors.Is(err, ErrConcurrentModification) ||
		errors.Is(err, domain.ErrInvalidReference) ||
		errors.Is(err, domain.ErrOutOfRange) ||
		errors.Is(err, domain.ErrWordExists) ||
		errors.Is(err, domain.ErrWordNotFound) ||
		errors.Is(err, domain.ErrStaleEvent) ||
		errors.Is(err, domain.ErrEmptyWord) ||
		errors.Is(err, domain.ErrEmptyTranslation)
}
