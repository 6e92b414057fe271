package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/fluentia/fluentia-api/internal/api/shared"
	"github.com/fluentia/fluentia-api/internal/domain"
	"github.com/fluentia/fluentia-api/internal/platform/logger"
	"github.com/fluentia/fluentia-api/internal/service/progress"
)

// ProgressHandler handles progress-related HTTP requests.
type ProgressHandler struct {
	progressService progress.ProgressService
	logger          *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(
	progressService progress.ProgressService,
	logger *slog.Logger,
) *ProgressHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}

	return &ProgressHandler{
		progressService: progressService,
		logger:          logger.With(slog.String("component", "progress_handler")),
	}
}

// ListProgress handles GET /progress requests. It returns every
// enrollment of the authenticated user.
func (h *ProgressHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	enrollments, err := h.progressService.ListProgress(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]ProgressResponse, 0, len(enrollments))
	for _, e := range enrollments {
		responses = append(responses, enrollmentToResponse(e))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetProgress handles GET /progress/{learningPathID} requests.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, pathID, ok := requireUserAndPath(w, r, "learningPathID")
	if !ok {
		return
	}

	enrollment, err := h.progressService.GetProgress(r.Context(), userID, pathID)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, enrollmentToResponse(enrollment))
}

// GetStats handles GET /progress/{learningPathID}/stats requests.
func (h *ProgressHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, pathID, ok := requireUserAndPath(w, r, "learningPathID")
	if !ok {
		return
	}

	stats, err := h.progressService.GetStats(r.Context(), userID, pathID)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// StartPath handles POST /progress/start/{learningPathID} requests.
func (h *ProgressHandler) StartPath(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, pathID, ok := requireUserAndPath(w, r, "learningPathID")
	if !ok {
		return
	}

	enrollment, err := h.progressService.StartPath(r.Context(), userID, pathID)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("started learning path",
		slog.String("user_id", userID.String()),
		slog.String("learning_path_id", pathID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, enrollmentToResponse(enrollment))
}

// CompleteLesson handles POST /progress/{learningPathID}/lessons requests.
func (h *ProgressHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, pathID, ok := requireUserAndPath(w, r, "learningPathID")
	if !ok {
		return
	}

	var req CompleteLessonRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	lessonID, err := uuid.Parse(req.LessonID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid lesson_id format")
		return
	}

	enrollment, err := h.progressService.CompleteLesson(r.Context(), userID, progress.CompleteLessonCommand{
		LearningPathID: pathID,
		LessonID:       lessonID,
		Score:          req.Score,
		TimeSpent:      req.TimeSpent,
		Notes:          req.Notes,
		Sequence:       req.Sequence,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, enrollmentToResponse(enrollment))
}

// SubmitAssessment handles POST /progress/{learningPathID}/assessments requests.
func (h *ProgressHandler) SubmitAssessment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, pathID, ok := requireUserAndPath(w, r, "learningPathID")
	if !ok {
		return
	}

	var req SubmitAssessmentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	enrollment, err := h.progressService.SubmitAssessment(r.Context(), userID, progress.SubmitAssessmentCommand{
		LearningPathID: pathID,
		Week:           req.Week,
		Score:          req.Score,
		Feedback:       req.Feedback,
		Strengths:      req.Strengths,
		AreasToImprove: req.AreasToImprove,
		Sequence:       req.Sequence,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("submitted weekly assessment",
		slog.String("user_id", userID.String()),
		slog.Int("week", req.Week),
		slog.Int("score", req.Score),
		slog.Int("current_week", enrollment.CurrentWeek))
	shared.RespondWithJSON(w, r, http.StatusOK, enrollmentToResponse(enrollment))
}

// AddWord handles POST /progress/{learningPathID}/vocabulary requests.
func (h *ProgressHandler) AddWord(w http.ResponseWriter, r *http.Request) {
	userID, pathID, ok := requireUserAndPath(w, r, "learningPathID")
	if !ok {
		return
	}

	var req AddWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	enrollment, err := h.progressService.AddWord(r.Context(), userID, progress.AddWordCommand{
		LearningPathID: pathID,
		Word:           req.Word,
		Translation:    req.Translation,
		Sequence:       req.Sequence,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, enrollmentToResponse(enrollment))
}

// ReviewWord handles POST /progress/{learningPathID}/vocabulary/review requests.
func (h *ProgressHandler) ReviewWord(w http.ResponseWriter, r *http.Request) {
	userID, pathID, ok := requireUserAndPath(w, r, "learningPathID")
	if !ok {
		return
	}

	var req ReviewWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	enrollment, err := h.progressService.ReviewWord(r.Context(), userID, progress.ReviewWordCommand{
		LearningPathID: pathID,
		Word:           req.Word,
		Remembered:     req.Remembered,
		Sequence:       req.Sequence,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, enrollmentToResponse(enrollment))
}

// DueWords handles GET /progress/{learningPathID}/vocabulary/due requests.
func (h *ProgressHandler) DueWords(w http.ResponseWriter, r *http.Request) {
	userID, pathID, ok := requireUserAndPath(w, r, "learningPathID")
	if !ok {
		return
	}

	words, err := h.progressService.DueWords(r.Context(), userID, pathID)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueWordsResponse{
		Words: words,
		Count: len(words),
	})
}

// enrollmentToResponse converts a domain.Enrollment snapshot to a
// ProgressResponse.
func enrollmentToResponse(e *domain.Enrollment) ProgressResponse {
	resp := ProgressResponse{
		ID:                e.ID,
		UserID:            e.UserID,
		LearningPathID:    e.LearningPathID,
		Duration:          e.Duration,
		CurrentWeek:       e.CurrentWeek,
		PercentComplete:   e.PercentComplete(),
		LessonsCompleted:  e.LessonsCompleted,
		WeeklyAssessments: e.WeeklyAssessments,
		Vocabulary:        e.Vocabulary,
		TotalTimeSpent:    e.TotalTimeSpent,
		StreakDays:        e.Streak.StreakDays,
		IsCompleted:       e.IsCompleted,
		CompletedAt:       e.CompletedAt,
		Version:           e.Version,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
	if e.Streak.Started() {
		lastActive := e.Streak.LastActiveDate
		resp.LastActiveDate = &lastActive
	}
	return resp
}
