package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/fluentia/fluentia-api/internal/config"
	"github.com/fluentia/fluentia-api/internal/generation"
)

// feedbackPromptTemplate instructs the model to return structured JSON
// feedback for a weekly assessment.
const feedbackPromptTemplate = `You are a supportive language tutor reviewing a learner's weekly assessment.

Course: {{.PathTitle}} ({{.Language}})
Week: {{.Week}}
Score: {{.Score}} out of 100 (pass threshold {{.PassThreshold}})
Current daily streak: {{.StreakDays}} days
Result: {{if .Passed}}passed{{else}}did not pass{{end}}

Write concise, encouraging feedback for this learner. Respond with ONLY a JSON object in this exact format, with no surrounding text:
{"summary": "two or three sentences of overall feedback", "strengths": ["..."], "areas_to_improve": ["..."]}`

// baseRetryDelaySeconds is the starting delay for exponential backoff
// between Gemini API attempts.
const baseRetryDelaySeconds = 2

// FeedbackGenerator implements the generation.FeedbackGenerator
// interface using Google's Gemini API.
type FeedbackGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// NewFeedbackGenerator creates a new FeedbackGenerator with the
// provided dependencies.
func NewFeedbackGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*FeedbackGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("feedback").Parse(feedbackPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &FeedbackGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// Ensure FeedbackGenerator implements generation.FeedbackGenerator
var _ generation.FeedbackGenerator = (*FeedbackGenerator)(nil)

// GenerateFeedback implements generation.FeedbackGenerator.
func (g *FeedbackGenerator) GenerateFeedback(
	ctx context.Context,
	assessment generation.AssessmentContext,
) (*generation.AssessmentFeedback, error) {
	prompt, err := g.createPrompt(ctx, assessment)
	if err != nil {
		return nil, err
	}

	response, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if response.Summary == "" {
		return nil, fmt.Errorf("%w: empty summary in response", generation.ErrInvalidResponse)
	}

	return &generation.AssessmentFeedback{
		Summary:        response.Summary,
		Strengths:      response.Strengths,
		AreasToImprove: response.AreasToImprove,
	}, nil
}

// createPrompt renders the feedback prompt for one assessment.
func (g *FeedbackGenerator) createPrompt(
	ctx context.Context,
	assessment generation.AssessmentContext,
) (string, error) {
	data := promptData{
		PathTitle:     assessment.PathTitle,
		Language:      assessment.Language,
		Week:          assessment.Week,
		Score:         assessment.Score,
		PassThreshold: assessment.PassThreshold,
		StreakDays:    assessment.StreakDays,
		Passed:        assessment.Score >= assessment.PassThreshold,
	}

	var promptBuffer bytes.Buffer
	if err := g.promptTemplate.Execute(&promptBuffer, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	g.logger.DebugContext(ctx, "generated feedback prompt",
		"week", assessment.Week,
		"prompt_length", promptBuffer.Len())

	return promptBuffer.String(), nil
}

// callGeminiWithRetry makes a call to the Gemini API with exponential
// backoff retry logic. Transient errors are retried up to
// config.MaxRetries times; permanent errors (blocked content, malformed
// responses) are returned immediately.
func (g *FeedbackGenerator) callGeminiWithRetry(
	ctx context.Context,
	prompt string,
) (*responseSchema, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.InfoContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		response, transient, err := g.evaluateResponse(
			g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil))
		if err == nil {
			g.logger.InfoContext(ctx, "Gemini API call successful", "attempt", attemptNum)
			return response, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if !transient {
			return nil, err
		}
		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		// Exponential backoff with jitter:
		// delay = base * 2^attempt * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseRetryDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// evaluateResponse classifies the outcome of one GenerateContent call.
// The boolean reports whether a failure is worth retrying.
func (g *FeedbackGenerator) evaluateResponse(
	resp *genai.GenerateContentResponse,
	callErr error,
) (*responseSchema, bool, error) {
	if callErr != nil {
		return nil, true, fmt.Errorf("%w: %v", generation.ErrTransientFailure, callErr)
	}
	if resp == nil {
		return nil, false, fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if len(resp.Candidates) == 0 {
		return nil, false, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, false, fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return nil, false, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	text := ""
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text += part.Text
		}
	}

	var parsed responseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, false, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	return &parsed, false, nil
}
