package gemini

import (
	"fmt"

	"github.com/phrazzld/lumen-api/internal/config"
	"github.com/phrazzld/lumen-api/internal/generation"
)

// ValidateConfig checks the LLM settings the generator depends on.
func ValidateConfig(cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries cannot be negative", generation.ErrInvalidConfig)
	}

	if cfg.RetryDelaySeconds < 1 {
		return fmt.Errorf("%w: retry delay must be at least one second", generation.ErrInvalidConfig)
	}

	if cfg.RequestTimeoutSeconds < 1 {
		return fmt.Errorf("%w: request timeout must be at least one second", generation.ErrInvalidConfig)
	}

	return nil
}
