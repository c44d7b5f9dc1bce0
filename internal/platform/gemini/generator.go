package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"

	"github.com/phrazzld/lumen-api/internal/config"
	"github.com/phrazzld/lumen-api/internal/generation"
	"github.com/phrazzld/lumen-api/internal/redact"
)

// contentModel is the subset of *genai.Models used by the generator.
type contentModel interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Generator implements generation.Generator using the Gemini API.
type Generator struct {
	logger         *slog.Logger
	models         contentModel
	modelName      string
	maxRetries     int
	retryDelay     time.Duration
	requestTimeout time.Duration
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Generator with a new Gemini client.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, client.Models, cfg), nil
}

func newGenerator(logger *slog.Logger, models contentModel, cfg config.LLMConfig) *Generator {
	return &Generator{
		logger:         logger.With("component", "gemini_generator", "model", cfg.ModelName),
		models:         models,
		modelName:      cfg.ModelName,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay(),
		requestTimeout: cfg.RequestTimeout(),
	}
}

// GenerateJSON sends prompt to the model, asking for a JSON response, and
// returns the response text. Transient failures are retried with exponential
// backoff up to the configured number of retries.
func (g *Generator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", generation.ErrEmptyPrompt
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.retryDelay
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(g.maxRetries)), ctx)

	attempt := 0
	text, err := backoff.RetryNotifyWithData(func() (string, error) {
		attempt++
		g.logger.DebugContext(ctx, "making Gemini API call",
			"attempt", attempt,
			"max_attempts", g.maxRetries+1,
			"prompt_length", len(prompt))

		text, err := g.call(ctx, prompt)
		if err != nil && !errors.Is(err, generation.ErrTransientFailure) {
			return "", backoff.Permanent(err)
		}
		return text, err
	}, policy, func(err error, delay time.Duration) {
		g.logger.WarnContext(ctx, "retrying Gemini API call",
			"attempt", attempt,
			"delay", delay.String(),
			"error", redact.Error(err))
	})

	if err != nil {
		// backoff returns the bare context error when ctx ends between attempts
		if ctx.Err() != nil && !errors.Is(err, generation.ErrTransientFailure) {
			err = fmt.Errorf("%w: %w", generation.ErrTransientFailure, err)
		}
		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempts", attempt,
			"error", redact.Error(err))
		return "", err
	}

	g.logger.DebugContext(ctx, "Gemini API call successful",
		"attempts", attempt,
		"response_length", len(text))

	return text, nil
}

// call makes a single attempt and classifies its failure.
func (g *Generator) call(ctx context.Context, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.requestTimeout)
	defer cancel()

	resp, err := g.models.GenerateContent(attemptCtx, g.modelName, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", classify(err)
	}

	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in response", generation.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response blocked by safety filters", generation.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	return text, nil
}

// classify maps a client error to a generation sentinel. Rate limits, server
// errors and transport failures are transient; other API errors are not.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests,
			apiErr.Code == http.StatusRequestTimeout,
			apiErr.Code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %w", generation.ErrTransientFailure, err)
		default:
			return fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err)
		}
	}

	return fmt.Errorf("%w: %w", generation.ErrTransientFailure, err)
}
