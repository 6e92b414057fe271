package generation

import "context"

// AssessmentContext carries the facts the generator turns into
// personalized feedback for one weekly assessment.
type AssessmentContext struct {
	PathTitle     string
	Language      string
	Week          int
	Score         int
	PassThreshold int
	StreakDays    int
}

// AssessmentFeedback is the structured feedback attached to a weekly
// assessment record.
type AssessmentFeedback struct {
	Summary        string   `json:"summary"`
	Strengths      []string `json:"strengths"`
	AreasToImprove []string `json:"areas_to_improve"`
}

// FeedbackGenerator defines the interface for generating assessment
// feedback. Implementations may call external LLM services; callers
// must treat failures as non-fatal and fall back to static feedback.
type FeedbackGenerator interface {
	// GenerateFeedback produces feedback for the given assessment.
	// Returns an error from errors.go if generation fails.
	GenerateFeedback(ctx context.Context, assessment AssessmentContext) (*AssessmentFeedback, error)
}
