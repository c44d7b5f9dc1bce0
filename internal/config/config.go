package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server       ServerConfig       `mapstructure:"server" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	Auth         AuthConfig         `mapstructure:"auth" validate:"required"`
	LLM          LLMConfig          `mapstructure:"llm" validate:"required"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// APIKey is required in the X-API-Key header of /api routes. It may only
	// be left empty when AllowMissingAPIKey is set, which disables the check.
	APIKey             string   `mapstructure:"api_key" validate:"omitempty,min=16"`
	AllowMissingAPIKey bool     `mapstructure:"allow_missing_api_key"`
	AllowedOrigins     []string `mapstructure:"allowed_origins" validate:"required,min=1,dive,required"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=44640"`
}

// TokenLifetime returns the access token lifetime as a duration.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey          string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName             string `mapstructure:"model_name" validate:"required"`
	MaxRetries            int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds     int    `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=60"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gte=1,lte=600"`
}

// RetryDelay returns the base retry delay as a duration.
func (c LLMConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// RequestTimeout returns the per-request timeout as a duration.
func (c LLMConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// OrchestratorConfig contains settings for the content fan-out.
type OrchestratorConfig struct {
	DeadlineSeconds int `mapstructure:"deadline_seconds" validate:"required,gt=0,lte=3600"`
	// AnalysisTimeoutSeconds bounds transcript analysis, retries included,
	// before a lesson run starts.
	AnalysisTimeoutSeconds int `mapstructure:"analysis_timeout_seconds" validate:"required,gt=0,lte=3600"`
}

// Deadline returns the global run deadline as a duration.
func (c OrchestratorConfig) Deadline() time.Duration {
	return time.Duration(c.DeadlineSeconds) * time.Second
}

// AnalysisTimeout returns the transcript analysis budget as a duration.
func (c OrchestratorConfig) AnalysisTimeout() time.Duration {
	return time.Duration(c.AnalysisTimeoutSeconds) * time.Second
}

// LessonBudget is the longest a lesson request may take: analysis followed
// by a full run.
func (c OrchestratorConfig) LessonBudget() time.Duration {
	return c.AnalysisTimeout() + c.Deadline()
}
