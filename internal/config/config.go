package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Progress ProgressConfig `mapstructure:"progress" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// ProgressConfig contains the tunable progress and scheduling policy.
// Defaults match the standard eight-week course setup.
type ProgressConfig struct {
	// PassThreshold is the minimum weekly-assessment score required to
	// advance to the next week.
	PassThreshold int `mapstructure:"pass_threshold" validate:"required,gte=0,lte=100"`

	// MasteryThreshold is the repetition count at which a vocabulary
	// word counts as mastered.
	MasteryThreshold int `mapstructure:"mastery_threshold" validate:"required,gt=0"`

	// ReviewLadder holds the spaced-repetition intervals in days.
	ReviewLadder []int `mapstructure:"review_ladder" validate:"omitempty,min=1,dive,gt=0"`

	// DayBoundaryOffsetHours shifts when a new learning day starts.
	DayBoundaryOffsetHours int `mapstructure:"day_boundary_offset_hours" validate:"gte=0,lte=23"`
}

// LLMConfig contains all LLM integration related settings. The API key
// is optional; without it assessment feedback falls back to canned text.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name"`
	MaxRetries   int    `mapstructure:"max_retries" validate:"gte=0"`
}
