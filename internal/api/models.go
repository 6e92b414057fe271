package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/fluentia/fluentia-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT used for API authorization
	Token string `json:"token"`
}

// CompleteLessonRequest defines the payload for recording a finished
// lesson. The learning path ID comes from the URL.
type CompleteLessonRequest struct {
	LessonID  string `json:"lesson_id"            validate:"required,uuid"`
	Score     *int   `json:"score,omitempty"      validate:"omitempty,gte=0,lte=100"`
	TimeSpent int    `json:"time_spent"           validate:"gte=0"`
	Notes     string `json:"notes,omitempty"      validate:"max=2000"`
	Sequence  int64  `json:"sequence,omitempty"   validate:"gte=0"`
}

// SubmitAssessmentRequest defines the payload for a weekly assessment
// result. Feedback, strengths and areas to improve are optional; an
// omitted feedback lets the service generate it.
type SubmitAssessmentRequest struct {
	Week           int      `json:"week"                       validate:"required,gte=1"`
	Score          int      `json:"score"                      validate:"gte=0,lte=100"`
	Feedback       string   `json:"feedback,omitempty"         validate:"max=4000"`
	Strengths      []string `json:"strengths,omitempty"        validate:"max=20,dive,max=500"`
	AreasToImprove []string `json:"areas_to_improve,omitempty" validate:"max=20,dive,max=500"`
	Sequence       int64    `json:"sequence,omitempty"         validate:"gte=0"`
}

// AddWordRequest defines the payload for tracking a new vocabulary word.
type AddWordRequest struct {
	Word        string `json:"word"               validate:"required,max=200"`
	Translation string `json:"translation"        validate:"required,max=200"`
	Sequence    int64  `json:"sequence,omitempty" validate:"gte=0"`
}

// ReviewWordRequest defines the payload for one vocabulary review outcome.
type ReviewWordRequest struct {
	Word       string `json:"word"               validate:"required,max=200"`
	Remembered bool   `json:"remembered"`
	Sequence   int64  `json:"sequence,omitempty" validate:"gte=0"`
}

// ProgressResponse represents one enrollment as returned to clients.
// It mirrors the domain snapshot plus the derived completion percent.
type ProgressResponse struct {
	ID                uuid.UUID                 `json:"id"`
	UserID            uuid.UUID                 `json:"user_id"`
	LearningPathID    uuid.UUID                 `json:"learning_path_id"`
	Duration          int                       `json:"duration"`
	CurrentWeek       int                       `json:"current_week"`
	PercentComplete   int                       `json:"percent_complete"`
	LessonsCompleted  []domain.LessonCompletion `json:"lessons_completed"`
	WeeklyAssessments []domain.WeeklyAssessment `json:"weekly_assessments"`
	Vocabulary        []domain.VocabularyWord   `json:"vocabulary"`
	TotalTimeSpent    int                       `json:"total_time_spent"`
	StreakDays        int                       `json:"streak_days"`
	LastActiveDate    *time.Time                `json:"last_active_date,omitempty"`
	IsCompleted       bool                      `json:"is_completed"`
	CompletedAt       *time.Time                `json:"completed_at,omitempty"`
	Version           int64                     `json:"version"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

// DueWordsResponse lists the vocabulary words due for review today.
type DueWordsResponse struct {
	Words []domain.VocabularyWord `json:"words"`
	Count int                     `json:"count"`
}
