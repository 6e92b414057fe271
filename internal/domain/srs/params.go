package srs

// Params defines all configurable parameters for the review scheduler.
type Params struct {
	// Ladder holds the review intervals in days, indexed by repetition
	// count. A word with more successful repetitions than the ladder
	// has rungs keeps using the final interval.
	Ladder []int

	// MasteryThreshold is the number of successful repetitions at which
	// a word is marked mastered.
	MasteryThreshold int

	// RelearnIntervalDays is how soon a forgotten word comes back.
	RelearnIntervalDays int
}

// ParamsConfig allows overriding the default parameters when creating
// a new Params instance.
type ParamsConfig struct {
	Ladder              []int
	MasteryThreshold    int
	RelearnIntervalDays int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		Ladder:              []int{1, 2, 4, 7, 15, 30, 60},
		MasteryThreshold:    5,
		RelearnIntervalDays: 1,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero-valued fields keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if len(config.Ladder) > 0 {
		params.Ladder = append([]int(nil), config.Ladder...)
	}
	if config.MasteryThreshold > 0 {
		params.MasteryThreshold = config.MasteryThreshold
	}
	if config.RelearnIntervalDays > 0 {
		params.RelearnIntervalDays = config.RelearnIntervalDays
	}

	return params
}
