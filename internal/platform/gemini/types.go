package gemini

// promptData is the input to the feedback prompt template.
type promptData struct {
	PathTitle     string
	Language      string
	Week          int
	Score         int
	PassThreshold int
	StreakDays    int
	Passed        bool
}

// responseSchema mirrors the JSON document the model is instructed to
// return.
type responseSchema struct {
	Summary        string   `json:"summary"`
	Strengths      []string `json:"strengths"`
	AreasToImprove []string `json:"areas_to_improve"`
}
