package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned when no API key is configured and the
// unauthenticated mode has not been explicitly allowed.
var ErrMissingAPIKey = errors.New("server.api_key is required unless server.allow_missing_api_key is set")

// EnvPrefix is prepended to every environment variable, e.g. LUMEN_SERVER_PORT.
const EnvPrefix = "LUMEN"

var defaults = map[string]any{
	"server.port":                 8080,
	"server.log_level":            "info",
	"server.api_key":              "",
	"server.allow_missing_api_key": false,
	"server.allowed_origins":      []string{"http://localhost:3000"},
	"database.url":                "",
	"auth.jwt_secret":             "",
	"auth.token_lifetime_minutes": 60,
	"llm.gemini_api_key":          "",
	"llm.model_name":              "gemini-2.0-flash",
	"llm.max_retries":             3,
	"llm.retry_delay_seconds":     2,
	"llm.request_timeout_seconds": 120,

	"orchestrator.deadline_seconds":         300,
	"orchestrator.analysis_timeout_seconds": 180,
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// A .env file in the working directory is loaded first if present.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	return LoadFrom(".")
}

// LoadFrom behaves like Load but looks for config.yaml in dir and does not
// read .env.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Server.APIKey == "" && !cfg.Server.AllowMissingAPIKey {
		return nil, fmt.Errorf("config validation failed: %w", ErrMissingAPIKey)
	}

	return &cfg, nil
}
