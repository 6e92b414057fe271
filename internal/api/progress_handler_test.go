package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentia/fluentia-api/internal/api/shared"
	"github.com/fluentia/fluentia-api/internal/domain"
	"github.com/fluentia/fluentia-api/internal/mocks"
	"github.com/fluentia/fluentia-api/internal/service/progress"
)

// newProgressRequest builds a request carrying the authenticated user ID
// and the learningPathID route parameter, the way the middleware and
// router would.
func newProgressRequest(
	method, target string,
	body interface{},
	userID uuid.UUID,
	pathParam string,
) *http.Request {
	var reader *bytes.Buffer
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if userID != uuid.Nil {
		ctx = context.WithValue(ctx, shared.UserIDContextKey, userID)
	}
	if pathParam != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("learningPathID", pathParam)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func testHandlerEnrollment(t *testing.T) *domain.Enrollment {
	t.Helper()
	e, err := domain.NewEnrollment(
		uuid.New(),
		uuid.New(),
		8,
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return e
}

func TestGetProgressHandler(t *testing.T) {
	t.Parallel()

	enrollment := testHandlerEnrollment(t)

	tests := []struct {
		name           string
		userID         uuid.UUID
		pathParam      string
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "success",
			userID:         enrollment.UserID,
			pathParam:      enrollment.LearningPathID.String(),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing user ID",
			userID:         uuid.Nil,
			pathParam:      enrollment.LearningPathID.String(),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed path ID",
			userID:         enrollment.UserID,
			pathParam:      "not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not enrolled",
			userID:         enrollment.UserID,
			pathParam:      enrollment.LearningPathID.String(),
			serviceErr:     progress.ErrEnrollmentNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "service failure",
			userID:         enrollment.UserID,
			pathParam:      enrollment.LearningPathID.String(),
			serviceErr:     errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service := &mocks.MockProgressService{Enrollment: enrollment, Err: tc.serviceErr}
			handler := NewProgressHandler(service, testLogger())

			req := newProgressRequest("GET", "/api/progress/"+tc.pathParam, nil, tc.userID, tc.pathParam)
			recorder := httptest.NewRecorder()

			handler.GetProgress(recorder, req)

			assert.Equal(t, tc.expectedStatus, recorder.Code)

			if tc.expectedStatus == http.StatusOK {
				var resp ProgressResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, enrollment.ID, resp.ID)
				assert.Equal(t, 1, resp.CurrentWeek)
				assert.Nil(t, resp.LastActiveDate)
			}
		})
	}
}

func TestListProgressHandler(t *testing.T) {
	t.Parallel()

	t.Run("returns every enrollment", func(t *testing.T) {
		t.Parallel()
		enrollments := []*domain.Enrollment{testHandlerEnrollment(t), testHandlerEnrollment(t)}
		service := &mocks.MockProgressService{Enrollments: enrollments}
		handler := NewProgressHandler(service, testLogger())

		req := newProgressRequest("GET", "/api/progress", nil, uuid.New(), "")
		recorder := httptest.NewRecorder()

		handler.ListProgress(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		var resp []ProgressResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Len(t, resp, 2)
	})

	t.Run("empty list encodes as an array", func(t *testing.T) {
		t.Parallel()
		handler := NewProgressHandler(&mocks.MockProgressService{}, testLogger())

		req := newProgressRequest("GET", "/api/progress", nil, uuid.New(), "")
		recorder := httptest.NewRecorder()

		handler.ListProgress(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, "[]", recorder.Body.String())
	})
}

func TestStartPathHandler(t *testing.T) {
	t.Parallel()

	enrollment := testHandlerEnrollment(t)

	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
	}{
		{"success", nil, http.StatusCreated},
		{"unknown learning path", progress.ErrLearningPathNotFound, http.StatusNotFound},
		{"already enrolled", progress.ErrAlreadyEnrolled, http.StatusConflict},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service := &mocks.MockProgressService{Enrollment: enrollment, Err: tc.serviceErr}
			handler := NewProgressHandler(service, testLogger())

			pathParam := enrollment.LearningPathID.String()
			req := newProgressRequest(
				"POST", "/api/progress/start/"+pathParam, nil, enrollment.UserID, pathParam)
			recorder := httptest.NewRecorder()

			handler.StartPath(recorder, req)

			assert.Equal(t, tc.expectedStatus, recorder.Code)
		})
	}
}

func TestCompleteLessonHandler(t *testing.T) {
	t.Parallel()

	enrollment := testHandlerEnrollment(t)
	lessonID := uuid.New()

	validPayload := map[string]interface{}{
		"lesson_id":  lessonID.String(),
		"score":      85,
		"time_spent": 30,
		"sequence":   1,
	}

	tests := []struct {
		name           string
		payload        map[string]interface{}
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "success",
			payload:        validPayload,
			expectedStatus: http.StatusOK,
		},
		{
			name: "malformed lesson ID",
			payload: map[string]interface{}{
				"lesson_id": "not-a-uuid",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "score above range",
			payload: map[string]interface{}{
				"lesson_id": lessonID.String(),
				"score":     101,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "negative time spent",
			payload: map[string]interface{}{
				"lesson_id":  lessonID.String(),
				"time_spent": -5,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "lesson outside reachable weeks",
			payload:        validPayload,
			serviceErr:     domain.ErrInvalidReference,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "stale event",
			payload:        validPayload,
			serviceErr:     domain.ErrStaleEvent,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "concurrent modification",
			payload:        validPayload,
			serviceErr:     progress.ErrConcurrentModification,
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var gotCmd progress.CompleteLessonCommand
			service := &mocks.MockProgressService{
				CompleteLessonFn: func(
					ctx context.Context,
					userID uuid.UUID,
					cmd progress.CompleteLessonCommand,
				) (*domain.Enrollment, error) {
					gotCmd = cmd
					if tc.serviceErr != nil {
						return nil, tc.serviceErr
					}
					return enrollment, nil
				},
			}
			handler := NewProgressHandler(service, testLogger())

			pathParam := enrollment.LearningPathID.String()
			req := newProgressRequest(
				"POST", "/api/progress/"+pathParam+"/lessons",
				tc.payload, enrollment.UserID, pathParam)
			recorder := httptest.NewRecorder()

			handler.CompleteLesson(recorder, req)

			assert.Equal(t, tc.expectedStatus, recorder.Code)

			if tc.name == "success" {
				assert.Equal(t, lessonID, gotCmd.LessonID)
				assert.Equal(t, enrollment.LearningPathID, gotCmd.LearningPathID)
				require.NotNil(t, gotCmd.Score)
				assert.Equal(t, 85, *gotCmd.Score)
				assert.Equal(t, 30, gotCmd.TimeSpent)
				assert.Equal(t, int64(1), gotCmd.Sequence)
			}
		})
	}
}

func TestSubmitAssessmentHandler(t *testing.T) {
	t.Parallel()

	enrollment := testHandlerEnrollment(t)

	tests := []struct {
		name           string
		payload        map[string]interface{}
		serviceErr     error
		expectedStatus int
	}{
		{
			name: "success",
			payload: map[string]interface{}{
				"week":             1,
				"score":            75,
				"feedback":         "Great progress on greetings.",
				"strengths":        []string{"listening"},
				"areas_to_improve": []string{"spelling"},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing week",
			payload:        map[string]interface{}{"score": 75},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "score above range",
			payload:        map[string]interface{}{"week": 1, "score": 101},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "week beyond current progress",
			payload:        map[string]interface{}{"week": 5, "score": 75},
			serviceErr:     domain.ErrOutOfRange,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var gotCmd progress.SubmitAssessmentCommand
			service := &mocks.MockProgressService{
				SubmitAssessmentFn: func(_ context.Context, _ uuid.UUID, cmd progress.SubmitAssessmentCommand) (*domain.Enrollment, error) {
					gotCmd = cmd
					if tc.serviceErr != nil {
						return nil, tc.serviceErr
					}
					return enrollment, nil
				},
			}
			handler := NewProgressHandler(service, testLogger())

			pathParam := enrollment.LearningPathID.String()
			req := newProgressRequest(
				"POST", "/api/progress/"+pathParam+"/assessments",
				tc.payload, enrollment.UserID, pathParam)
			recorder := httptest.NewRecorder()

			handler.SubmitAssessment(recorder, req)

			assert.Equal(t, tc.expectedStatus, recorder.Code)

			if tc.name == "success" {
				assert.Equal(t, enrollment.LearningPathID, gotCmd.LearningPathID)
				assert.Equal(t, 1, gotCmd.Week)
				assert.Equal(t, 75, gotCmd.Score)
				assert.Equal(t, "Great progress on greetings.", gotCmd.Feedback)
				assert.Equal(t, []string{"listening"}, gotCmd.Strengths)
				assert.Equal(t, []string{"spelling"}, gotCmd.AreasToImprove)
			}
		})
	}
}

func TestVocabularyHandlers(t *testing.T) {
	t.Parallel()

	enrollment := testHandlerEnrollment(t)
	pathParam := enrollment.LearningPathID.String()

	t.Run("add word succeeds", func(t *testing.T) {
		t.Parallel()
		service := &mocks.MockProgressService{Enrollment: enrollment}
		handler := NewProgressHandler(service, testLogger())

		req := newProgressRequest(
			"POST", "/api/progress/"+pathParam+"/vocabulary",
			map[string]interface{}{"word": "casa", "translation": "house"},
			enrollment.UserID, pathParam)
		recorder := httptest.NewRecorder()

		handler.AddWord(recorder, req)
		assert.Equal(t, http.StatusCreated, recorder.Code)
	})

	t.Run("add word rejects a missing translation", func(t *testing.T) {
		t.Parallel()
		handler := NewProgressHandler(&mocks.MockProgressService{}, testLogger())

		req := newProgressRequest(
			"POST", "/api/progress/"+pathParam+"/vocabulary",
			map[string]interface{}{"word": "casa"},
			enrollment.UserID, pathParam)
		recorder := httptest.NewRecorder()

		handler.AddWord(recorder, req)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("add word maps a duplicate to conflict", func(t *testing.T) {
		t.Parallel()
		service := &mocks.MockProgressService{Err: domain.ErrWordExists}
		handler := NewProgressHandler(service, testLogger())

		req := newProgressRequest(
			"POST", "/api/progress/"+pathParam+"/vocabulary",
			map[string]interface{}{"word": "casa", "translation": "house"},
			enrollment.UserID, pathParam)
		recorder := httptest.NewRecorder()

		handler.AddWord(recorder, req)
		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("review word maps an untracked word to not found", func(t *testing.T) {
		t.Parallel()
		service := &mocks.MockProgressService{Err: domain.ErrWordNotFound}
		handler := NewProgressHandler(service, testLogger())

		req := newProgressRequest(
			"POST", "/api/progress/"+pathParam+"/vocabulary/review",
			map[string]interface{}{"word": "nunca", "remembered": true},
			enrollment.UserID, pathParam)
		recorder := httptest.NewRecorder()

		handler.ReviewWord(recorder, req)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("due words includes the count", func(t *testing.T) {
		t.Parallel()
		words := []domain.VocabularyWord{
			{Word: "casa", Translation: "house"},
			{Word: "perro", Translation: "dog"},
		}
		service := &mocks.MockProgressService{Words: words}
		handler := NewProgressHandler(service, testLogger())

		req := newProgressRequest(
			"GET", "/api/progress/"+pathParam+"/vocabulary/due",
			nil, enrollment.UserID, pathParam)
		recorder := httptest.NewRecorder()

		handler.DueWords(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		var resp DueWordsResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, 2, resp.Count)
		assert.Len(t, resp.Words, 2)
	})
}

func TestGetStatsHandler(t *testing.T) {
	t.Parallel()

	enrollment := testHandlerEnrollment(t)
	pathParam := enrollment.LearningPathID.String()

	stats := &progress.Stats{
		CurrentWeek:     3,
		PercentComplete: 38,
		TotalLessons:    24,
	}
	service := &mocks.MockProgressService{Stats: stats}
	handler := NewProgressHandler(service, testLogger())

	req := newProgressRequest(
		"GET", "/api/progress/"+pathParam+"/stats", nil, enrollment.UserID, pathParam)
	recorder := httptest.NewRecorder()

	handler.GetStats(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	var resp progress.Stats
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, 38, resp.PercentComplete)
}
